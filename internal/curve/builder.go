// Package curve builds the manuscript-wide tension curve and computes its
// statistics and qualitative diagnostics.
package curve

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/plotarc/internal/lexicon"
	"github.com/dotcommander/plotarc/internal/manuscript"
	"github.com/dotcommander/plotarc/internal/tension"
	"github.com/dotcommander/plotarc/internal/textnorm"
)

// Point is one scene on the curve. Its identity is Position, the sequence
// index across the whole manuscript.
type Point struct {
	Position   int    `json:"position" yaml:"position"`
	Intensity  int    `json:"intensity" yaml:"intensity"`
	Title      string `json:"title" yaml:"title"`
	ActID      string `json:"act_id" yaml:"act_id"`
	ChapterID  string `json:"chapter_id" yaml:"chapter_id"`
	SceneID    string `json:"scene_id" yaml:"scene_id"`
	Breadcrumb string `json:"breadcrumb" yaml:"breadcrumb"`
	WordCount  int    `json:"word_count" yaml:"word_count"`
}

// SnapshotSource hands out consistent lexicon snapshots; *lexicon.Store
// satisfies it.
type SnapshotSource interface {
	Snapshot() *lexicon.Lexicon
}

// Builder walks a manuscript and scores every scene
type Builder struct {
	source  SnapshotSource
	scorer  tension.Scorer
	workers int
}

// BuilderOption customizes a Builder
type BuilderOption func(*Builder)

// WithWorkers bounds how many scenes are scored concurrently
func WithWorkers(workers int) BuilderOption {
	return func(b *Builder) {
		if workers > 0 {
			b.workers = workers
		}
	}
}

// NewBuilder creates a builder reading vocabulary from source
func NewBuilder(source SnapshotSource, options ...BuilderOption) *Builder {
	b := &Builder{
		source:  source,
		workers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

type sceneJob struct {
	index int
	point Point
	pos   tension.Position
	body  string
}

// Build returns one point per scene in narrative order. The lexicon is
// snapshotted once, so concurrent edits never mix into a pass. A cancelled
// context aborts the pass and returns ctx.Err().
func (b *Builder) Build(ctx context.Context, m *manuscript.Manuscript) ([]Point, error) {
	jobs := collectJobs(m)
	points := make([]Point, len(jobs))
	if len(jobs) == 0 {
		slog.Debug("No scenes to score")
		return points, nil
	}

	lex := b.source.Snapshot()
	slog.Info("Building tension curve",
		"scene_count", len(jobs),
		"worker_count", b.workers,
		"lexicon_words", lex.Len(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for _, job := range jobs {
		job := job
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pos := job.pos
			res := b.scorer.Score(job.body, lex, &pos)
			p := job.point
			p.Intensity = res.Score
			p.WordCount = textnorm.CountWords(job.body)
			points[job.index] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Warn("Tension curve build aborted", "error", err)
		return nil, fmt.Errorf("building curve: %w", err)
	}
	if err := ctx.Err(); err != nil {
		// cancelled before any goroutine could observe it
		return nil, fmt.Errorf("building curve: %w", err)
	}

	slog.Info("Tension curve built", "point_count", len(points))
	return points, nil
}

func collectJobs(m *manuscript.Manuscript) []sceneJob {
	if m == nil {
		return nil
	}
	jobs := make([]sceneJob, 0, m.SceneCount())
	for ai, act := range m.Acts {
		for ci, ch := range act.Chapters {
			for si, sc := range ch.Scenes {
				jobs = append(jobs, sceneJob{
					index: len(jobs),
					point: Point{
						Position:   len(jobs),
						Title:      sc.Title,
						ActID:      act.ID,
						ChapterID:  ch.ID,
						SceneID:    sc.ID,
						Breadcrumb: fmt.Sprintf("%s > %s > %s", act.Title, ch.Title, sc.Title),
					},
					pos: tension.Position{
						ActIndex:             ai,
						TotalActs:            len(m.Acts),
						ChapterIndex:         ci,
						TotalChaptersInAct:   len(act.Chapters),
						SceneIndex:           si,
						TotalScenesInChapter: len(ch.Scenes),
					},
					body: sc.Content,
				})
			}
		}
	}
	return jobs
}

// ScoreScene scores live markup for the scene sceneID of m. When the scene
// cannot be located the content-only baseline is used.
func (b *Builder) ScoreScene(m *manuscript.Manuscript, sceneID, markup string) tension.Result {
	lex := b.source.Snapshot()
	if pos, ok := m.Locate(sceneID); ok {
		return b.scorer.Score(markup, lex, &pos)
	}
	return b.scorer.Score(markup, lex, nil)
}
