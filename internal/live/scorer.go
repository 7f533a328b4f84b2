// Package live scores scene text while it is being edited. Calls are
// throttled so that per-keystroke feedback cannot monopolize the CPU.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/dotcommander/plotarc/internal/curve"
	"github.com/dotcommander/plotarc/internal/manuscript"
	"github.com/dotcommander/plotarc/internal/tension"
)

// Scorer rate-limits calls to the scene scorer
type Scorer struct {
	builder *curve.Builder
	limiter *rate.Limiter
	logger  *slog.Logger
}

type Option func(*Scorer)

// WithRateLimit allows perSecond scorings with the given burst
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Scorer) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) {
		s.logger = logger
	}
}

// NewScorer wraps builder; the default limit is four scorings per second
func NewScorer(builder *curve.Builder, opts ...Option) *Scorer {
	s := &Scorer{
		builder: builder,
		limiter: rate.NewLimiter(rate.Limit(4), 2),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score waits for the limiter, then scores markup. With a manuscript and a
// scene id the narrative baseline of that scene applies; otherwise the
// content-only baseline is used. It only fails when ctx ends first.
func (s *Scorer) Score(ctx context.Context, m *manuscript.Manuscript, sceneID, markup string) (tension.Result, error) {
	start := time.Now()
	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Debug("live scoring dropped", "scene_id", sceneID, "error", err)
		return tension.Result{}, fmt.Errorf("rate limit wait failed: %w", err)
	}

	res := s.builder.ScoreScene(m, sceneID, markup)
	s.logger.Debug("live scoring done",
		"scene_id", sceneID,
		"score", res.Score,
		"wait_duration_ms", time.Since(start).Milliseconds(),
		"limit_per_second", s.limiter.Limit(),
	)
	return res, nil
}
