package session

import (
	"context"
	"log/slog"

	"github.com/voxline/voxline/pkg/stt"
	"github.com/voxline/voxline/pkg/tts"
)

// TurnStatus classifies the outcome of one voice turn.
type TurnStatus int

const (
	// TurnAudio means the turn produced reply audio.
	TurnAudio TurnStatus = iota

	// TurnEmpty means nothing intelligible was transcribed. Not an error.
	TurnEmpty

	// TurnFailed means transcription succeeded but no reply audio could
	// be produced.
	TurnFailed
)

// TurnResult is the outcome of one transcribe-reason-speak cycle.
type TurnResult struct {
	Status     TurnStatus
	Audio      []byte
	Format     string
	Transcript string
	Reply      string
}

// Pipeline runs one voice turn end to end. Each stage blocks on the
// previous one; failures never escape as errors, only as TurnResult
// statuses.
type Pipeline struct {
	stt    stt.Provider
	chat   *Chat
	tts    tts.Provider
	logger *slog.Logger
}

// NewPipeline assembles a turn pipeline.
func NewPipeline(sttProvider stt.Provider, chat *Chat, ttsProvider tts.Provider, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		stt:    sttProvider,
		chat:   chat,
		tts:    ttsProvider,
		logger: logger.With("component", "session.pipeline"),
	}
}

// Run processes one complete utterance.
func (p *Pipeline) Run(ctx context.Context, audio []byte) *TurnResult {
	transcript, err := p.stt.Transcribe(ctx, audio)
	if err != nil {
		p.logger.Warn("transcription failed", "error", err)
		return &TurnResult{Status: TurnEmpty}
	}
	if transcript.Text == "" {
		p.logger.Warn("no text transcribed from audio")
		return &TurnResult{Status: TurnEmpty}
	}
	p.logger.Info("transcription", "text", transcript.Text, "latency_ms", transcript.LatencyMs)

	reply := p.chat.Reply(ctx, transcript.Text)

	speech, err := p.tts.Synthesize(ctx, reply)
	if err != nil {
		p.logger.Error("synthesis failed", "error", err)
		return &TurnResult{Status: TurnFailed, Transcript: transcript.Text, Reply: reply}
	}

	p.logger.Info("synthesized reply", "bytes", len(speech.Audio), "latency_ms", speech.LatencyMs)
	return &TurnResult{
		Status:     TurnAudio,
		Audio:      speech.Audio,
		Format:     speech.Format,
		Transcript: transcript.Text,
		Reply:      reply,
	}
}
