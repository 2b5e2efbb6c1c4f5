package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storyreel/pkg/media"
	"storyreel/pkg/script"
	"storyreel/pkg/tts"
	"storyreel/pkg/utils"
	"storyreel/pkg/video"
	"storyreel/pkg/voice"
)

type Server struct {
	Echo    *echo.Echo
	Drafter *script.Drafter
	TTS     *tts.Orchestrator
	Ctx     context.Context

	// OutDir is where synthesized scene audio lands.
	OutDir string

	// Clips renders scene video clips when a generation backend is
	// configured; nil disables the endpoint.
	Clips *video.Queue

	// Composer assembles the final trailer; nil disables composition.
	Composer media.Composer

	// Persist, when set, receives the voice session snapshot on shutdown.
	Persist *utils.Saver[voice.State]
}

func NewServer(ctx context.Context, drafter *script.Drafter, orchestrator *tts.Orchestrator, outDir string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:    e,
		Drafter: drafter,
		TTS:     orchestrator,
		Ctx:     ctx,
		OutDir:  outDir,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/script", s.handlePostScript)         // draft trailer narration from pages
	api.POST("/segments", s.handlePostSegments)     // dialogue segmentation + speaker attribution
	api.POST("/synthesize", s.handlePostSynthesize) // batch audio with SSE progress
	api.POST("/clips", s.handlePostClips)           // page illustrations to motion clips
	api.GET("/voices", s.handleGetVoices)           // session assignments and pool table
	api.POST("/session/reset", s.handlePostSessionReset)
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")

	var saveErr error
	if s.Persist != nil {
		*s.Persist.Value = s.TTS.Session().State()
		saveErr = s.Persist.Save()
	} else {
		saveErr = utils.Save("VoiceAssignments.json", s.TTS.Session().Assignments())
	}
	if s.Clips != nil {
		s.Clips.Stop()
	}
	if err := s.Echo.Shutdown(ctx); err != nil {
		return err
	}
	return saveErr
}
