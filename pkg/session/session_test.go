package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/voxline/voxline/pkg/inference"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/stt"
	"github.com/voxline/voxline/pkg/tools"
	"github.com/voxline/voxline/pkg/tts"
	"github.com/voxline/voxline/pkg/weather"
)

type testDeps struct {
	stt     *stt.Mock
	llm     *inference.Mock
	tts     *tts.Mock
	weather weather.Provider
}

func newTestSession(t *testing.T, deps testDeps) *Session {
	t.Helper()
	if deps.stt == nil {
		deps.stt = stt.NewMock()
	}
	if deps.llm == nil {
		deps.llm = inference.NewMock()
	}
	if deps.tts == nil {
		deps.tts = tts.NewMock()
	}
	if deps.weather == nil {
		deps.weather = weather.NewMock()
	}

	history := NewHistory()
	registry := tools.NewRegistry(nil, tools.WeatherTool(deps.weather))
	chat := NewChat(deps.llm, registry, history, nil)
	pipeline := NewPipeline(deps.stt, chat, deps.tts, nil)

	s := New("test-session", pipeline, history, nil)
	t.Cleanup(s.Close)
	return s
}

// collectEvents reads n events or fails after a timeout.
func collectEvents(t *testing.T, s *Session, n int) []protocol.Event {
	t.Helper()
	events := make([]protocol.Event, 0, n)
	for len(events) < n {
		select {
		case e, ok := <-s.Events():
			if !ok {
				t.Fatalf("events channel closed after %d of %d events", len(events), n)
			}
			events = append(events, e)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", len(events)+1, n)
		}
	}
	return events
}

// expectNoEvents asserts nothing arrives within a short window.
func expectNoEvents(t *testing.T, s *Session) {
	t.Helper()
	select {
	case e := <-s.Events():
		t.Fatalf("unexpected event: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func audioEnd() *protocol.Control  { return &protocol.Control{Type: protocol.TypeAudioEnd} }
func resetCtrl() *protocol.Control { return &protocol.Control{Type: protocol.TypeReset} }

func TestSessionTurnProducesAudio(t *testing.T) {
	ttsMock := tts.NewMock()
	s := newTestSession(t, testDeps{tts: ttsMock})

	s.HandleFrame([]byte("chunk-1"))
	s.HandleFrame([]byte("chunk-2"))
	s.HandleControl(audioEnd())

	events := collectEvents(t, s, 3)
	if events[0].Type != protocol.TypeStatus || events[0].Status != protocol.StatusProcessing {
		t.Errorf("expected processing status first, got %+v", events[0])
	}
	if events[1].Type != protocol.TypeAudioResponse {
		t.Fatalf("expected audio response, got %+v", events[1])
	}
	audio, err := events[1].AudioBytes()
	if err != nil {
		t.Fatalf("decode audio: %v", err)
	}
	if !bytes.Equal(audio, []byte("mock-audio")) {
		t.Errorf("unexpected audio payload: %q", audio)
	}
	if events[1].Format != "mp3" {
		t.Errorf("expected mp3 format tag, got %q", events[1].Format)
	}
	if events[2].Type != protocol.TypeStatus || events[2].Status != protocol.StatusReady {
		t.Errorf("expected ready status last, got %+v", events[2])
	}
}

func TestSessionBufferDrainedBetweenTurns(t *testing.T) {
	sttMock := stt.NewMock()
	s := newTestSession(t, testDeps{stt: sttMock})

	s.HandleFrame([]byte("abc"))
	s.HandleControl(audioEnd())
	collectEvents(t, s, 3)

	s.HandleFrame([]byte("defgh"))
	s.HandleControl(audioEnd())
	collectEvents(t, s, 3)

	sizes := sttMock.AudioSizes()
	if len(sizes) != 2 || sizes[0] != 3 || sizes[1] != 5 {
		t.Errorf("expected utterance sizes [3 5], got %v", sizes)
	}
}

func TestSessionTurnEndOnEmptyBuffer(t *testing.T) {
	s := newTestSession(t, testDeps{})
	s.HandleControl(audioEnd())
	expectNoEvents(t, s)
}

func TestSessionReset(t *testing.T) {
	s := newTestSession(t, testDeps{})

	s.HandleFrame([]byte("stale audio"))
	s.HandleControl(resetCtrl())

	events := collectEvents(t, s, 1)
	if events[0].Type != protocol.TypeStatus || events[0].Status != protocol.StatusResetComplete {
		t.Errorf("expected reset_complete, got %+v", events[0])
	}

	// The buffered audio was discarded, so a turn-end is now a no-op.
	s.HandleControl(audioEnd())
	expectNoEvents(t, s)
}

func TestSessionResetClearsHistory(t *testing.T) {
	llm := inference.NewMock()
	s := newTestSession(t, testDeps{llm: llm})

	s.HandleFrame([]byte("audio"))
	s.HandleControl(audioEnd())
	collectEvents(t, s, 3)

	s.HandleControl(resetCtrl())
	collectEvents(t, s, 1)

	s.HandleFrame([]byte("audio"))
	s.HandleControl(audioEnd())
	collectEvents(t, s, 3)

	// The turn after reset starts from an empty log: system + one user.
	reqs := llm.Requests()
	last := reqs[len(reqs)-1]
	if len(last.Messages) != 2 {
		t.Errorf("expected fresh conversation after reset, got %d messages", len(last.Messages))
	}
}

func TestSessionSynthesisFailure(t *testing.T) {
	ttsMock := tts.NewMock()
	ttsMock.SynthesizeFunc = func(ctx context.Context, text string) (*tts.AudioResult, error) {
		return nil, errors.New("tts down")
	}
	s := newTestSession(t, testDeps{tts: ttsMock})

	s.HandleFrame([]byte("audio"))
	s.HandleControl(audioEnd())

	events := collectEvents(t, s, 3)
	if events[1].Type != protocol.TypeError {
		t.Fatalf("expected error event, got %+v", events[1])
	}
	if events[1].Message != "Failed to process audio" {
		t.Errorf("unexpected error message: %q", events[1].Message)
	}
	if events[2].Status != protocol.StatusReady {
		t.Errorf("expected ready after failure, got %+v", events[2])
	}
}

func TestSessionCloseDiscardsLateResult(t *testing.T) {
	started := make(chan struct{})
	sttMock := stt.NewMock()
	sttMock.TranscribeFunc = func(ctx context.Context, audio []byte) (*stt.Transcript, error) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		return &stt.Transcript{Text: "late"}, nil
	}

	s := newTestSession(t, testDeps{stt: sttMock})
	s.HandleFrame([]byte("audio"))
	s.HandleControl(audioEnd())

	// Wait for the turn to be in flight, then disconnect.
	<-started
	s.Close()

	// The turn completes but its events are dropped and the channel
	// closes without a panic.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-s.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel never closed after Close")
		}
	}
}

// End-to-end: weather question through tool call, follow-up, synthesis.
func TestSessionWeatherTurn(t *testing.T) {
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"name": "Tokyo",
			"sys":  map[string]any{"country": "JP"},
			"main": map[string]any{"temp": 21.5, "feels_like": 20.8, "humidity": 55},
			"weather": []map[string]any{
				{"description": "clear sky"},
			},
			"wind": map[string]any{"speed": 3.2},
		})
	}))
	defer weatherSrv.Close()

	sttMock := stt.NewMock()
	sttMock.TranscribeFunc = func(ctx context.Context, audio []byte) (*stt.Transcript, error) {
		return &stt.Transcript{Text: "What's the weather in Tokyo?"}, nil
	}

	llm := inference.NewMock()
	llm.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		if len(llm.Requests()) == 1 {
			return &inference.ChatResponse{
				Message: inference.Message{
					Role:      inference.RoleAssistant,
					ToolCalls: []inference.ToolCall{{ID: "call_1", Name: "get_weather", Arguments: `{"location":"Tokyo"}`}},
				},
			}, nil
		}
		// The follow-up request must carry the weather sentence.
		last := req.Messages[len(req.Messages)-1]
		if last.Role != inference.RoleTool || !strings.Contains(last.Content, "Current weather in Tokyo, JP") {
			t.Errorf("follow-up missing tool result, got %+v", last)
		}
		return &inference.ChatResponse{
			Message: inference.NewAssistantMessage("It's a clear 21 degrees in Tokyo."),
		}, nil
	}

	ttsMock := tts.NewMock()
	s := newTestSession(t, testDeps{
		stt: sttMock,
		llm: llm,
		tts: ttsMock,
		weather: weather.NewClient(
			weather.WithBaseURL(weatherSrv.URL),
			weather.WithAPIKey("test-key"),
		),
	})

	s.HandleFrame([]byte("utterance"))
	s.HandleControl(audioEnd())

	events := collectEvents(t, s, 3)
	if events[1].Type != protocol.TypeAudioResponse {
		t.Fatalf("expected audio response, got %+v", events[1])
	}
	if texts := ttsMock.Texts(); len(texts) != 1 || texts[0] != "It's a clear 21 degrees in Tokyo." {
		t.Errorf("unexpected synthesized text: %v", texts)
	}
}

// End-to-end: empty transcript ends the turn without a reply or error.
func TestSessionEmptyTranscript(t *testing.T) {
	sttMock := stt.NewMock()
	sttMock.TranscribeFunc = func(ctx context.Context, audio []byte) (*stt.Transcript, error) {
		return &stt.Transcript{Text: ""}, nil
	}
	llm := inference.NewMock()
	s := newTestSession(t, testDeps{stt: sttMock, llm: llm})

	s.HandleFrame([]byte("silence"))
	s.HandleControl(audioEnd())

	events := collectEvents(t, s, 2)
	if events[0].Status != protocol.StatusProcessing || events[1].Status != protocol.StatusReady {
		t.Errorf("expected processing then ready only, got %+v", events)
	}
	expectNoEvents(t, s)
	if llm.CallCount() != 0 {
		t.Errorf("reasoning should not run on an empty transcript, got %d calls", llm.CallCount())
	}
}

// End-to-end: reasoning failure falls back to the fixed phrase, which is
// still synthesized.
func TestSessionReasoningFailure(t *testing.T) {
	llm := inference.WithError(errors.New("llm down"))
	ttsMock := tts.NewMock()
	s := newTestSession(t, testDeps{llm: llm, tts: ttsMock})

	s.HandleFrame([]byte("audio"))
	s.HandleControl(audioEnd())

	events := collectEvents(t, s, 3)
	if events[1].Type != protocol.TypeAudioResponse {
		t.Fatalf("expected audio response, got %+v", events[1])
	}
	texts := ttsMock.Texts()
	if len(texts) != 1 || texts[0] != "I'm having trouble processing your request. Please try again." {
		t.Errorf("expected fallback phrase synthesized, got %v", texts)
	}
}

// End-to-end: unknown location flows a not-found message through the
// tool result into the spoken reply.
func TestSessionWeatherNotFound(t *testing.T) {
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer weatherSrv.Close()

	sttMock := stt.NewMock()
	sttMock.TranscribeFunc = func(ctx context.Context, audio []byte) (*stt.Transcript, error) {
		return &stt.Transcript{Text: "What's the weather in Nowhereville?"}, nil
	}

	llm := inference.NewMock()
	llm.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		if len(llm.Requests()) == 1 {
			return &inference.ChatResponse{
				Message: inference.Message{
					Role:      inference.RoleAssistant,
					ToolCalls: []inference.ToolCall{{ID: "call_1", Name: "get_weather", Arguments: `{"location":"Nowhereville"}`}},
				},
			}, nil
		}
		last := req.Messages[len(req.Messages)-1]
		if !strings.Contains(last.Content, "Location 'Nowhereville' not found") {
			t.Errorf("expected not-found tool result, got %q", last.Content)
		}
		return &inference.ChatResponse{
			Message: inference.NewAssistantMessage("I couldn't find Nowhereville, sorry."),
		}, nil
	}

	ttsMock := tts.NewMock()
	s := newTestSession(t, testDeps{
		stt: sttMock,
		llm: llm,
		tts: ttsMock,
		weather: weather.NewClient(
			weather.WithBaseURL(weatherSrv.URL),
			weather.WithAPIKey("test-key"),
		),
	})

	s.HandleFrame([]byte("utterance"))
	s.HandleControl(audioEnd())

	events := collectEvents(t, s, 3)
	if events[1].Type != protocol.TypeAudioResponse {
		t.Fatalf("expected audio response, got %+v", events[1])
	}
	if texts := ttsMock.Texts(); len(texts) != 1 || texts[0] != "I couldn't find Nowhereville, sorry." {
		t.Errorf("unexpected synthesized text: %v", texts)
	}
}

func TestPipelineEmptyOnTranscribeError(t *testing.T) {
	sttMock := stt.NewMock().WithError(errors.New("stt down"))
	history := NewHistory()
	registry := tools.NewRegistry(nil)
	chat := NewChat(inference.NewMock(), registry, history, nil)
	p := NewPipeline(sttMock, chat, tts.NewMock(), nil)

	result := p.Run(context.Background(), []byte("audio"))
	if result.Status != TurnEmpty {
		t.Errorf("expected TurnEmpty, got %v", result.Status)
	}
}
