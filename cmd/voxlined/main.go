// voxlined: real-time voice assistant backend.
// Accepts WebSocket voice sessions and runs the transcribe-reason-speak
// pipeline against local STT, LLM, and TTS services.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/voxline/voxline/internal/config"
	"github.com/voxline/voxline/internal/log"
	"github.com/voxline/voxline/pkg/inference"
	"github.com/voxline/voxline/pkg/server"
	"github.com/voxline/voxline/pkg/stt"
	"github.com/voxline/voxline/pkg/tools"
	"github.com/voxline/voxline/pkg/tts"
	"github.com/voxline/voxline/pkg/weather"
)

var version = "1.0.0"

func main() {
	envFile := flag.String("env", ".env", "Env file to load (ignored if missing)")
	flag.Parse()

	_ = godotenv.Load(*envFile)
	cfg := config.FromEnv()
	log.Init(cfg.LogLevel)
	logger := log.With("service", "voxlined", "version", version)

	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid PORT %q: %v\n", cfg.Port, err)
		os.Exit(1)
	}

	llm, err := inference.NewClient(
		inference.WithBaseURL(cfg.LLMBaseURL),
		inference.WithLogger(logger),
	)
	if err != nil {
		logger.Error("llm client", "error", err)
		os.Exit(1)
	}
	defer llm.Close()

	transcriber, err := stt.NewClient(
		stt.WithBaseURL(cfg.STTBaseURL),
		stt.WithLogger(logger),
	)
	if err != nil {
		logger.Error("stt client", "error", err)
		os.Exit(1)
	}
	defer transcriber.Close()

	speech, err := tts.NewClient(
		tts.WithBaseURL(cfg.TTSBaseURL),
		tts.WithLogger(logger),
	)
	if err != nil {
		logger.Error("tts client", "error", err)
		os.Exit(1)
	}
	defer speech.Close()

	weatherClient := weather.NewClient(
		weather.WithAPIKey(cfg.WeatherAPIKey),
		weather.WithLogger(logger),
	)
	defer weatherClient.Close()

	registry := tools.NewRegistry(logger, tools.WeatherTool(weatherClient))

	srv := server.New(port, server.Deps{
		STT:      transcriber,
		LLM:      llm,
		TTS:      speech,
		Registry: registry,
		Logger:   logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", port)
		errCh <- srv.Listen()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutdown", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}
}
