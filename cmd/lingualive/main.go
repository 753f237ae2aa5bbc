package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lingualive/lingualive/internal/audioio"
	"github.com/lingualive/lingualive/internal/config"
	"github.com/lingualive/lingualive/internal/metrics"
	"github.com/lingualive/lingualive/pkg/backend"
	"github.com/lingualive/lingualive/pkg/core/live"
	"github.com/lingualive/lingualive/pkg/gemini"
	"github.com/lingualive/lingualive/pkg/tutor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "lingualive:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, logClose, err := openLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logClose()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Warn().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics listener failed")
			}
		}()
	}

	backendClient := backend.NewClient(cfg.BackendURL, log)

	profileCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	profile := backendClient.ProfileOrDefault(profileCtx, cfg.UserID)
	cancel()
	level := tutor.ParseLevel(profile.CurrentLevel)
	log.Info().Str("user_id", cfg.UserID).Str("level", string(level)).Int("xp", profile.XP).Msg("profile loaded")

	mic, err := audioio.NewMicrophone(log)
	if err != nil {
		return err
	}
	defer mic.Close()

	speaker, err := audioio.NewSpeaker(log)
	if err != nil {
		return err
	}
	defer speaker.Close()

	app := &app{
		cfg:     cfg,
		profile: profile,
		level:   level,
		dialer:  gemini.NewDialer(cfg.GeminiAPIKey, log),
		mic:     mic,
		speaker: speaker,
		backend: backendClient,
		metrics: m,
		log:     log,
	}

	program := tea.NewProgram(newModel(app), tea.WithAltScreen())
	app.program = program

	_, err = program.Run()
	app.stopSession()
	return err
}

// app bundles the long-lived dependencies shared across sessions.
type app struct {
	cfg     *config.Config
	profile backend.Profile
	level   tutor.Level
	dialer  *gemini.Dialer
	mic     *audioio.Microphone
	speaker *audioio.Speaker
	backend *backend.Client
	metrics *metrics.Metrics
	log     zerolog.Logger
	program *tea.Program

	mu      sync.Mutex
	session *live.Session
}

// newSession builds a fresh session for one conversation attempt. Sessions
// are single use; every start gets a new one.
func (a *app) newSession() *live.Session {
	sessionCfg := live.DefaultSessionConfig()
	sessionCfg.Model = a.cfg.Model
	sessionCfg.Voice = a.cfg.Voice
	sessionCfg.UserID = a.cfg.UserID
	sessionCfg.System = tutor.SystemInstruction(a.level)

	return live.NewSession(sessionCfg, a.dialer, a.mic, a.speaker, a.backend, nil, a.metrics, a.log)
}

// startSession connects a new session and pumps its events into the TUI.
func (a *app) startSession() tea.Cmd {
	return func() tea.Msg {
		session := a.newSession()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := session.Start(ctx); err != nil {
			return sessionStartFailedMsg{err: err}
		}
		a.mu.Lock()
		a.session = session
		a.mu.Unlock()

		go func() {
			for ev := range session.Events() {
				a.program.Send(sessionEventMsg{event: ev})
			}
			a.program.Send(sessionFinishedMsg{})
		}()

		return sessionStartedMsg{}
	}
}

func (a *app) stopSession() {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()
	if session != nil {
		session.Stop()
	}
}

// openLogger writes diagnostics to a file so log lines never tear the TUI.
func openLogger(debug bool) (zerolog.Logger, func(), error) {
	path := filepath.Join(os.TempDir(), "lingualive.log")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	log := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return log, func() { _ = file.Close() }, nil
}
