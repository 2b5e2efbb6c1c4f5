package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storyreel/pkg/utils"
	"storyreel/pkg/video"
)

type clipsReq struct {
	Scenes []clipScene `json:"scenes"`
}

type clipScene struct {
	Scene    string  `json:"scene"`
	Image    string  `json:"image"`
	Prompt   string  `json:"prompt,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

type clipResult struct {
	Scene string `json:"scene"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// POST /api/clips
//
// Animates page illustrations into scene clips. The backend only tolerates
// one render at a time, so requests run through the queue in order and the
// call blocks until the batch settles.
func (s *Server) handlePostClips(c echo.Context) error {
	if s.Clips == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "video generation not configured")
	}

	var req clipsReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if len(req.Scenes) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no scenes given")
	}
	for _, scene := range req.Scenes {
		if scene.Scene == "" || !utils.Exists(scene.Image) {
			return c.JSON(http.StatusBadRequest, utils.ErrJSON("scene needs a name and an existing image"))
		}
	}

	type pending struct {
		scene string
		resp  chan video.Clip
		errs  chan error
	}
	queued := make([]pending, 0, len(req.Scenes))
	for _, scene := range req.Scenes {
		resp, errs, err := s.Clips.Add(video.Request{
			Scene:    scene.Scene,
			Image:    scene.Image,
			Prompt:   scene.Prompt,
			Duration: scene.Duration,
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
		}
		queued = append(queued, pending{scene: scene.Scene, resp: resp, errs: errs})
	}

	ctx := c.Request().Context()
	results := make([]clipResult, len(queued))
	for i, p := range queued {
		results[i] = clipResult{Scene: p.scene}
		select {
		case clip, ok := <-p.resp:
			if ok {
				results[i].Path = clip.Path
			} else if err := <-p.errs; err != nil {
				results[i].Error = err.Error()
			}
		case err, ok := <-p.errs:
			if ok {
				results[i].Error = err.Error()
			} else if clip := <-p.resp; clip.Path != "" {
				results[i].Path = clip.Path
			}
		case <-ctx.Done():
			results[i].Error = ctx.Err().Error()
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"clips": results})
}
