package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storyreel/pkg/lexicon"
	"storyreel/pkg/speaker"
)

type segmentsReq struct {
	Text  string   `json:"text"`
	Known []string `json:"known"`
}

type segmentOut struct {
	Text     string `json:"text"`
	Speaker  string `json:"speaker"`
	Category string `json:"category"`
	Dialogue bool   `json:"dialogue"`
}

type segmentsResp struct {
	Segments   []segmentOut `json:"segments"`
	Characters []string     `json:"characters"`
}

// POST /api/segments
func (s *Server) handlePostSegments(c echo.Context) error {
	var req segmentsReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.JSON(http.StatusOK, segmentsResp{})
	}

	known := req.Known
	if len(known) == 0 {
		known = speaker.ExtractCharacters([]string{req.Text})
	}

	segments := speaker.Split(req.Text, known)
	out := make([]segmentOut, len(segments))
	for i, seg := range segments {
		category := lexicon.Narrator
		if seg.Dialogue && seg.Speaker != lexicon.Narrator {
			category = speaker.Classify(seg.Speaker)
		}
		out[i] = segmentOut{
			Text:     seg.Text,
			Speaker:  seg.Speaker,
			Category: category,
			Dialogue: seg.Dialogue,
		}
	}
	return c.JSON(http.StatusOK, segmentsResp{Segments: out, Characters: known})
}
