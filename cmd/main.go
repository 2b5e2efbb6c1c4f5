package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"storyreel/pkg/inference"
	"storyreel/pkg/media"
	"storyreel/pkg/script"
	"storyreel/pkg/server"
	"storyreel/pkg/tts"
	"storyreel/pkg/utils"
	"storyreel/pkg/video"
	"storyreel/pkg/voice"
)

const sessionFile = "VoiceSession.json"

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	if os.Getenv("DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	inf := buildInferencer()
	engines := buildEngines(ctx)

	persist, err := utils.LoadSaver[voice.State](sessionFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to load voice session", "file", sessionFile, "err", err)
		}
		persist = utils.NewSaver(sessionFile, &voice.State{})
	}

	id := os.Getenv("VOICE_SESSION")
	if id == "" {
		id = persist.Value.ID
	}
	session := voice.NewSession(id)
	if len(persist.Value.Assignments) > 0 {
		session.Restore(persist.Value.Assignments)
		log.Info("restored voice assignments", "count", len(persist.Value.Assignments))
	}

	outDir := os.Getenv("OUT_DIR")
	if outDir == "" {
		outDir = "out"
	}

	orchestrator := tts.NewOrchestrator(session, engines...)
	srv := server.NewServer(ctx, script.NewDrafter(inf), orchestrator, outDir)
	srv.Echo.Logger.SetLevel(gommon.INFO)
	srv.Persist = persist
	srv.Composer = media.NewFFmpeg(os.Getenv("SUBTITLE_FONT"))

	if key := os.Getenv("RUNWAY_API_KEY"); key != "" {
		queue := video.NewQueue(video.NewRunway(key, outDir))
		queue.Start(ctx)
		srv.Clips = queue
	} else {
		log.Warn("runway key missing, clip generation disabled")
	}

	addr := ":8080"
	if envAddr := os.Getenv("PORT"); envAddr != "" {
		addr = ":" + envAddr
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Fatal(err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "err", err)
	}
	<-finishedShutDown
}

// buildInferencer picks the drafting provider from INFERENCE_PROVIDER,
// falling back to a local OpenAI-compatible endpoint when no key is set.
func buildInferencer() inference.Inferencer {
	provider := os.Getenv("INFERENCE_PROVIDER")
	switch provider {
	case "gemini":
		inf, err := inference.NewGeminiInferencer(os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatal("gemini inferencer", "err", err)
		}
		return inf
	case "grok":
		return inference.NewGrokInferencer(os.Getenv("GROK_API_KEY"), os.Getenv("GROK_MODEL"))
	case "kimi":
		return inference.NewKimiInferencer(os.Getenv("KIMI_API_KEY"), os.Getenv("KIMI_MODEL"))
	case "moonshot":
		return inference.NewMoonshotInferencer(os.Getenv("MOONSHOT_API_KEY"), os.Getenv("MOONSHOT_MODEL"))
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	openAI := inference.NewOpenAIInferencer(apiKey, model)
	if apiKey == "" {
		openAI.ChangeBaseURL("http://localhost:1234/v1")
		openAI.SetModel("")
	}
	return openAI
}

// buildEngines registers every speech backend with credentials in the
// environment. The free fallback backend is always available.
func buildEngines(ctx context.Context) []tts.Engine {
	engines := []tts.Engine{tts.NewEdge()}

	if keyID, key := os.Getenv("CLOVA_CLIENT_ID"), os.Getenv("CLOVA_CLIENT_SECRET"); keyID != "" && key != "" {
		engines = append(engines, tts.NewClova(keyID, key))
	} else {
		log.Warn("clova credentials missing, premium Korean voices disabled")
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		engines = append(engines, tts.NewOpenAI(key))
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gemini, err := tts.NewGemini(ctx, key)
		if err != nil {
			log.Warn("gemini speech unavailable", "err", err)
		} else {
			engines = append(engines, gemini)
		}
	}
	return engines
}
