package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storyreel/pkg/lexicon"
)

type voicesResp struct {
	Session     string              `json:"session"`
	Assignments map[string]string   `json:"assignments"`
	Categories  map[string]string   `json:"categories"`
	Pools       map[string][]string `json:"pools"`
}

// GET /api/voices
func (s *Server) handleGetVoices(c echo.Context) error {
	state := s.TTS.Session().State()
	return c.JSON(http.StatusOK, voicesResp{
		Session:     state.ID,
		Assignments: state.Assignments,
		Categories:  state.Categories,
		Pools:       lexicon.VoicePools,
	})
}

// POST /api/session/reset
func (s *Server) handlePostSessionReset(c echo.Context) error {
	session := s.TTS.Session()
	session.Reset()
	return c.JSON(http.StatusOK, map[string]string{"session": session.ID()})
}
