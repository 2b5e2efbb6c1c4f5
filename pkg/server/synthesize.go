package server

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"storyreel/pkg/lexicon"
	"storyreel/pkg/media"
	"storyreel/pkg/script"
	"storyreel/pkg/speaker"
	"storyreel/pkg/tts"
	"storyreel/pkg/utils"
)

type synthesizeReq struct {
	Scenes  []synthesizeScene `json:"scenes"`
	Engine  string            `json:"engine"`
	Title   string            `json:"title"`
	BGMDir  string            `json:"bgm_dir,omitempty"` // music beds matched by page number
	Compose bool              `json:"compose,omitempty"` // assemble scene clips into trailer.mp4
}

type synthesizeScene struct {
	Scene    string  `json:"scene,omitempty"` // identifier like page_001, derived from index when empty
	Text     string  `json:"text"`
	Speaker  string  `json:"speaker"`
	Style    string  `json:"style,omitempty"`
	Emotion  string  `json:"emotion,omitempty"`          // neutral, happy, sad, angry
	Strength int     `json:"emotion_strength,omitempty"` // 0 through 2
	Source   string  `json:"source,omitempty"`           // original page text, for drift reporting
	Duration float64 `json:"duration,omitempty"`         // target seconds; zero keeps natural pace
	Video    string  `json:"video,omitempty"`            // generated clip path, for composition
}

type sceneProgress struct {
	Scene    int                  `json:"scene"`
	Path     string               `json:"path,omitempty"`
	Duration float64              `json:"duration,omitempty"`
	Subtitle []media.Line         `json:"subtitle,omitempty"`
	Drift    *media.SubtitleDrift `json:"drift,omitempty"`
	Skipped  bool                 `json:"skipped,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// POST /api/synthesize
//
// Streams one SSE event per finished scene, then a summary. Scene audio is
// written under OutDir/<title>/, each scene voiced segment by segment so
// quoted dialogue gets the speaking character's voice.
func (s *Server) handlePostSynthesize(c echo.Context) error {
	var req synthesizeReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if len(req.Scenes) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no scenes given")
	}

	kind, err := tts.ParseKind(cmp.Or(req.Engine, "clova"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.BGMDir != "" && !utils.Exists(req.BGMDir) {
		log.Warn("bgm directory missing, skipping music beds", "dir", req.BGMDir)
		req.BGMDir = ""
	}

	scenes := make([]tts.Scene, len(req.Scenes))
	for i, in := range req.Scenes {
		category, character := script.VoiceKey(in.Speaker)
		opts := tts.Options{Style: in.Style, Emotion: in.Emotion, EmotionStrength: in.Strength}
		if in.Duration > 0 {
			opts.Speed = speaker.SpeedForDuration(in.Text, in.Duration)
		}
		scenes[i] = tts.Scene{
			Text:    in.Text,
			Speaker: tts.VoiceSpec{Category: category, Character: character},
			Options: opts,
		}
	}
	known := tts.Cast(scenes)

	dir := filepath.Join(s.OutDir, utils.SanitizeFilename(cmp.Or(req.Title, "trailer")))

	sse := utils.NewSSEWriter(c)
	defer sse.Close()

	var mu sync.Mutex
	emit := func(p sceneProgress) {
		mu.Lock()
		defer mu.Unlock()
		sse.Event("scene", p)
	}

	workers := tts.DefaultWorkers
	if kind == tts.KindGemini {
		workers = tts.GeminiWorkers
	}

	style := media.DefaultSubtitleStyle

	ctx := c.Request().Context()
	out := make([]sceneProgress, len(scenes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, scene := range scenes {
		g.Go(func() error {
			p := sceneProgress{Scene: i}
			defer func() {
				out[i] = p
				emit(p)
			}()
			if scene.Speaker.Category == lexicon.None {
				p.Skipped = true
				return nil
			}
			path := filepath.Join(dir, fmt.Sprintf("scene_%03d%s", i, kind.Ext()))
			ok, err := s.TTS.SynthesizeSceneFile(gctx, scene, known, path, kind)
			switch {
			case err != nil:
				p.Error = err.Error()
			case !ok:
				p.Skipped = true
			default:
				p.Path = path
				if d, err := media.Duration(path); err == nil {
					p.Duration = d
				}
				p.Subtitle = style.Layout(scene.Text)
				if source := req.Scenes[i].Source; source != "" {
					if drift := media.CompareSubtitle(sceneID(i, req.Scenes[i]), source, scene.Text); drift.Changed() {
						p.Drift = &drift
					}
				}
			}
			return nil
		})
	}
	g.Wait()

	reportDrift(out)

	var failed int
	for _, p := range out {
		if p.Error != "" {
			failed++
		}
	}
	status := "ok"
	if failed == len(out) {
		status = "failed"
	} else if failed > 0 {
		status = "partial"
	}

	done := map[string]any{
		"status": status,
		"dir":    dir,
		"scenes": out,
		"voices": s.TTS.Session().Assignments(),
	}

	if combined, err := combineBatch(dir, out, kind); err != nil {
		log.Warn("audio combine failed", "err", err)
	} else if combined != "" {
		done["audio"] = combined
	}

	if req.Compose {
		if trailer, err := s.composeTrailer(ctx, req, out, dir, style); err != nil {
			log.Error("trailer composition failed", "err", err)
			done["compose_error"] = err.Error()
		} else {
			done["trailer"] = trailer
		}
	}

	sse.Event("done", done)
	return nil
}

func sceneID(i int, in synthesizeScene) string {
	if in.Scene != "" {
		return in.Scene
	}
	return fmt.Sprintf("page_%03d", i+1)
}

// reportDrift dumps the word-level subtitle drift to the console when debug
// logging is on.
func reportDrift(out []sceneProgress) {
	if log.GetLevel() > log.DebugLevel {
		return
	}
	var drifts []media.SubtitleDrift
	for _, p := range out {
		if p.Drift != nil {
			drifts = append(drifts, *p.Drift)
		}
	}
	media.Print(os.Stderr, drifts)
}

// combineBatch joins the scene waveforms into one continuous track. Only
// wav batches combine losslessly; other formats return empty.
func combineBatch(dir string, out []sceneProgress, kind tts.Kind) (string, error) {
	if kind.Ext() != ".wav" {
		return "", nil
	}
	var parts [][]byte
	for _, p := range out {
		if p.Path == "" {
			continue
		}
		data, err := os.ReadFile(p.Path)
		if err != nil {
			return "", err
		}
		parts = append(parts, data)
	}
	if len(parts) == 0 {
		return "", nil
	}
	combined, err := media.CombineWAV(parts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "trailer.wav")
	if err := os.WriteFile(path, combined, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// composeTrailer pairs each scene's clip with its narration, music bed and
// subtitle, and hands the plans to the composer.
func (s *Server) composeTrailer(ctx context.Context, req synthesizeReq, out []sceneProgress, dir string, style media.SubtitleStyle) (string, error) {
	if s.Composer == nil {
		return "", fmt.Errorf("no composer configured")
	}

	names := make([]string, len(req.Scenes))
	videos := make([]string, len(req.Scenes))
	subtitles := make([]string, len(req.Scenes))
	audio := make([]*media.Artifact, len(req.Scenes))
	for i, in := range req.Scenes {
		names[i] = sceneID(i, in)
		videos[i] = in.Video
		subtitles[i] = in.Text
		if p := out[i]; p.Path != "" {
			audio[i] = &media.Artifact{Path: p.Path, Duration: p.Duration}
		}
	}

	plans := media.BuildPlans(names, videos, subtitles, audio, req.BGMDir, style)
	trailer := filepath.Join(dir, "trailer.mp4")
	if err := s.Composer.Compose(ctx, plans, trailer); err != nil {
		return "", err
	}
	return trailer, nil
}
