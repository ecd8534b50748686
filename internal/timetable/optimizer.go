// Package timetable builds ranked candidate timetables for classes, faculty and
// classrooms with greedy placement heuristics.
//
// An Optimizer is built once from a read-only Input snapshot. Each Generate
// call runs independent scheduling passes, scores them and returns the best
// pass per requested candidate. Infeasible requirements never fail a call;
// they surface as conflicts and a lower score.
package timetable

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// AttemptsPerCandidate is the number of passes whose best result backs one candidate.
const AttemptsPerCandidate = 3

type options struct {
	workers int
	logger  *zap.Logger
	now     func() time.Time
}

// Option customises an Optimizer.
type Option func(*options)

// WithWorkers bounds how many passes run concurrently. Values below 1 mean sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger attaches a logger for per-pass debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the timestamp source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Optimizer generates candidate timetables over a fixed universe.
type Optimizer struct {
	u    *universe
	opts options
}

// New validates the input and snapshots it for the lifetime of the optimizer.
func New(input Input, opts ...Option) (*Optimizer, error) {
	cfg := options{workers: 1, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	u, err := buildUniverse(input)
	if err != nil {
		return nil, err
	}
	return &Optimizer{u: u, opts: cfg}, nil
}

// Generate returns exactly count candidates ordered by non-increasing score.
// Candidate i is the best of the passes run with variants i*10, i*10+1 and i*10+2.
func (o *Optimizer) Generate(ctx context.Context, count int) ([]models.GeneratedTimetable, error) {
	if count < 1 {
		return nil, invalid("candidateCount", fmt.Sprint(count), "must be at least 1")
	}

	passes := make([]models.GeneratedTimetable, count*AttemptsPerCandidate)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.workers)
	for i := 0; i < count; i++ {
		for attempt := 0; attempt < AttemptsPerCandidate; attempt++ {
			slot := i*AttemptsPerCandidate + attempt
			variant := i*10 + attempt
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				passes[slot] = o.Run(variant)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate timetables: %w", err)
	}

	candidates := make([]models.GeneratedTimetable, 0, count)
	for i := 0; i < count; i++ {
		best := passes[i*AttemptsPerCandidate]
		for attempt := 1; attempt < AttemptsPerCandidate; attempt++ {
			if next := passes[i*AttemptsPerCandidate+attempt]; next.Score > best.Score {
				best = next
			}
		}
		candidates = append(candidates, best)
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})
	return candidates, nil
}

// Run executes one full scheduling pass for the variant. Identical input and
// variant always produce identical entries, conflicts and score.
func (o *Optimizer) Run(variant int) models.GeneratedTimetable {
	u := o.u
	strategy := strategies[strategyIndex(variant, u.params)]
	state := newPassState(u, variant)
	state.seedFixed()

	for bi := range u.batches {
		batch := &u.batches[bi]
		for si := range u.subjects {
			subject := &u.subjects[si]
			if !batch.requires.has(subject.ID) {
				continue
			}
			scheduleSubject(state, strategy, subject, batch)
		}
	}

	metrics := collectMetrics(u, state.entries, state.conflicts)
	result := models.GeneratedTimetable{
		ID:          fmt.Sprintf("timetable-%d", variant+1),
		Name:        fmt.Sprintf("Optimized Timetable %d", variant+1),
		Variant:     variant,
		Strategy:    strategy.kind().String(),
		Entries:     state.entries,
		Score:       score(metrics, state.conflicts),
		Metrics:     metrics,
		Conflicts:   state.conflicts,
		Suggestions: suggestions(state.conflicts, metrics),
		GeneratedAt: o.opts.now().UTC(),
		Status:      models.TimetableStatusDraft,
	}
	if result.Entries == nil {
		result.Entries = []models.TimetableEntry{}
	}
	if result.Conflicts == nil {
		result.Conflicts = []models.Conflict{}
	}

	o.opts.logger.Debug("timetable pass complete",
		zap.Int("variant", variant),
		zap.String("strategy", result.Strategy),
		zap.Int("entries", len(result.Entries)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Int("score", result.Score),
	)
	return result
}

func scheduleSubject(state *passState, strategy placementStrategy, subject *models.Subject, batch *batchInfo) {
	if len(state.u.eligibleFaculty(subject.ID)) == 0 {
		state.addConflict(noFacultyConflict(subject))
		return
	}
	if len(state.u.suitableRooms(subject, batch)) == 0 {
		state.addConflict(noRoomConflict(state.u, subject, batch))
	}
	scheduled := strategy.placeSessions(subject, batch, subject.HoursPerWeek, state)
	if scheduled < subject.HoursPerWeek {
		state.addConflict(shortfallConflict(subject, batch, scheduled))
	}
}
