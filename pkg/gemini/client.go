// Package gemini adapts the Gemini Live API to the session core's upstream
// ports. All provider wire types stay inside this package: server messages
// are decoded into the core event union once, at the receive boundary.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/lingualive/lingualive/pkg/core/live"
)

// Dialer opens Gemini Live connections. Implements live.Dialer.
type Dialer struct {
	apiKey string
	log    zerolog.Logger
}

// NewDialer creates a dialer for the Gemini API backend.
func NewDialer(apiKey string, log zerolog.Logger) *Dialer {
	return &Dialer{
		apiKey: apiKey,
		log:    log.With().Str("component", "gemini").Logger(),
	}
}

// Dial connects a realtime session configured for audio responses with
// transcription enabled in both directions.
func (d *Dialer) Dial(ctx context.Context, cfg live.ConnectConfig) (live.Upstream, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  d.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	connectCfg := &genai.LiveConnectConfig{
		ResponseModalities:       []genai.Modality{genai.ModalityAudio},
		InputAudioTranscription:  &genai.AudioTranscriptionConfig{},
		OutputAudioTranscription: &genai.AudioTranscriptionConfig{},
	}
	if cfg.System != "" {
		connectCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: cfg.System}},
		}
	}
	if cfg.Voice != "" {
		connectCfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}

	session, err := client.Live.Connect(ctx, cfg.Model, connectCfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Model, err)
	}

	conn := &Conn{
		session:  session,
		mimeType: live.DefaultCaptureConfig().MIMEType(),
		events:   make(chan live.ServerEvent, 64),
		done:     make(chan struct{}),
		log:      d.log,
	}
	go conn.receive()
	return conn, nil
}

// Conn is one established Gemini Live connection.
type Conn struct {
	session  *genai.Session
	mimeType string
	events   chan live.ServerEvent
	done     chan struct{}
	closed   atomic.Bool
	stopOnce sync.Once
	log      zerolog.Logger
}

// SendRealtimeInput submits one PCM16LE capture frame.
func (c *Conn) SendRealtimeInput(pcm []byte) error {
	if c.closed.Load() {
		return errors.New("connection closed")
	}
	return c.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{Data: pcm, MIMEType: c.mimeType},
	})
}

// Events returns decoded server events in delivery order. The channel closes
// when the connection ends.
func (c *Conn) Events() <-chan live.ServerEvent {
	return c.events
}

// Close shuts the connection down. Idempotent.
func (c *Conn) Close() error {
	var err error
	c.stopOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		err = c.session.Close()
	})
	return err
}

// receive pulls server messages until the session ends and pushes decoded
// events in order.
func (c *Conn) receive() {
	defer close(c.events)
	for {
		msg, err := c.session.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) || c.closed.Load() {
				c.push(&live.UpstreamClosedEvent{Reason: "closed"})
				return
			}
			c.log.Error().Err(err).Msg("receive failed")
			c.push(&live.UpstreamErrorEvent{Err: err})
			return
		}
		for _, ev := range decodeServerMessage(msg) {
			c.push(ev)
		}
	}
}

func (c *Conn) push(ev live.ServerEvent) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// decodeServerMessage maps one server message onto core events. Within a
// single message the order is transcriptions, turn boundary, audio, then
// interruption.
func decodeServerMessage(msg *genai.LiveServerMessage) []live.ServerEvent {
	if msg == nil || msg.ServerContent == nil {
		return nil
	}
	sc := msg.ServerContent

	var out []live.ServerEvent
	if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
		out = append(out, &live.InputTranscriptionEvent{Text: sc.InputTranscription.Text})
	}
	if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
		out = append(out, &live.OutputTranscriptionEvent{Text: sc.OutputTranscription.Text})
	}
	if sc.TurnComplete {
		out = append(out, &live.TurnCompleteEvent{})
	}
	if sc.ModelTurn != nil {
		for _, part := range sc.ModelTurn.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				out = append(out, &live.AudioChunkEvent{PCM: part.InlineData.Data})
			}
		}
	}
	if sc.Interrupted {
		out = append(out, &live.InterruptedEvent{})
	}
	return out
}
