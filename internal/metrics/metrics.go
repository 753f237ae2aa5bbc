// Package metrics provides Prometheus instrumentation for the session core.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements live.Recorder on top of Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	FramesSent      prometheus.Counter
	FramesDropped   prometheus.Counter
	ChunksScheduled prometheus.Counter
	ChunksDropped   prometheus.Counter
	ChunkDuration   prometheus.Histogram

	Interrupts     prometheus.Counter
	SourcesStopped prometheus.Counter

	Turns             prometheus.Counter
	TranscriptEntries prometheus.Counter

	SyncSuccesses prometheus.Counter
	SyncFailures  prometheus.Counter

	SessionsStarted prometheus.Counter
	SessionDuration prometheus.Histogram
	ActiveSessions  prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_frames_sent_total",
			Help: "Total number of capture frames sent upstream",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_frames_dropped_total",
			Help: "Total number of capture frames dropped",
		}),
		ChunksScheduled: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_playback_chunks_scheduled_total",
			Help: "Total number of playback chunks placed on the timeline",
		}),
		ChunksDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_playback_chunks_dropped_total",
			Help: "Total number of undecodable playback chunks dropped",
		}),
		ChunkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lingualive_playback_chunk_duration_seconds",
			Help:    "Duration of scheduled playback chunks",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6s
		}),
		Interrupts: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_playback_interrupts_total",
			Help: "Total number of barge-in playback interrupts",
		}),
		SourcesStopped: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_playback_sources_stopped_total",
			Help: "Total number of sources stopped by interrupts",
		}),
		Turns: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_turns_total",
			Help: "Total number of completed conversation turns",
		}),
		TranscriptEntries: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_transcript_entries_total",
			Help: "Total number of committed transcript entries",
		}),
		SyncSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_transcript_sync_successes_total",
			Help: "Total number of successful transcript uploads",
		}),
		SyncFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_transcript_sync_failures_total",
			Help: "Total number of failed transcript uploads",
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "lingualive_sessions_started_total",
			Help: "Total number of sessions that reached the connected state",
		}),
		SessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lingualive_session_duration_seconds",
			Help:    "Duration of completed sessions",
			Buckets: prometheus.ExponentialBuckets(10, 2, 8), // 10s to ~21 minutes
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lingualive_active_sessions",
			Help: "Number of currently connected sessions",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) FrameSent()    { m.FramesSent.Inc() }
func (m *Metrics) FrameDropped() { m.FramesDropped.Inc() }

func (m *Metrics) ChunkScheduled(d time.Duration) {
	m.ChunksScheduled.Inc()
	m.ChunkDuration.Observe(d.Seconds())
}

func (m *Metrics) ChunkDropped() { m.ChunksDropped.Inc() }

func (m *Metrics) PlaybackInterrupted(stopped int) {
	m.Interrupts.Inc()
	m.SourcesStopped.Add(float64(stopped))
}

func (m *Metrics) TurnCompleted(entries int) {
	m.Turns.Inc()
	m.TranscriptEntries.Add(float64(entries))
}

func (m *Metrics) SyncFinished(err error) {
	if err != nil {
		m.SyncFailures.Inc()
		return
	}
	m.SyncSuccesses.Inc()
}

func (m *Metrics) SessionStarted() {
	m.SessionsStarted.Inc()
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionEnded(d time.Duration) {
	m.ActiveSessions.Dec()
	m.SessionDuration.Observe(d.Seconds())
}
