// Package draw runs draws against a catalog, a history ledger and the
// current round.
//
// All reads and writes of the catalog snapshot, the ledger and the round
// tracker for one draw happen inside a single critical section, so
// concurrent draws cannot observe a stale round and select the same
// counterpart twice. Animated draws are split into Prepare and Commit;
// the prepared plan reserves its category until it is committed or
// aborted.
package draw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otrace "go.opentelemetry.io/otel/trace"

	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/ledger"
	"go.inspectdraw.org/draw/random"
	"go.inspectdraw.org/draw/round"
	"go.inspectdraw.org/draw/selector"
)

// Announcer receives every committed draw. Announce is called after the
// service lock is released; errors are logged and otherwise ignored.
type Announcer interface {
	Announce(ctx context.Context, out *Outcome) error
}

// Clock provides record timestamps.
type Clock interface {
	Now() time.Time
}

type Config struct {
	Catalog *catalog.Catalog
	Ledger  ledger.Ledger

	// Picker defaults to an entropy seeded picker.
	Picker   *random.Picker
	Selector *selector.Selector
	Metrics  *Metrics
	Clock    Clock
	Log      *slog.Logger
}

type Service struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	ledger   ledger.Ledger
	tracker  *round.Tracker
	inFlight map[catalog.Category]*Plan

	picker   *random.Picker
	selector *selector.Selector
	metrics  *Metrics
	clock    Clock
	log      *slog.Logger

	announcers []Announcer
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func NewService(cfg Config) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("draw: catalog is required")
	}
	if cfg.Ledger == nil {
		return nil, errors.New("draw: ledger is required")
	}

	s := &Service{
		catalog:  cfg.Catalog,
		ledger:   cfg.Ledger,
		tracker:  round.NewTracker(),
		inFlight: map[catalog.Category]*Plan{},
		picker:   cfg.Picker,
		selector: cfg.Selector,
		metrics:  cfg.Metrics,
		clock:    cfg.Clock,
		log:      cfg.Log,
	}

	if s.log == nil {
		s.log = logger.Setup()
	}
	if s.picker == nil {
		p, err := random.NewFromEntropy()
		if err != nil {
			return nil, err
		}
		s.picker = p
	}
	if s.selector == nil {
		s.selector = selector.NewSelector(s.log, nil)
	}
	if s.clock == nil {
		s.clock = wallClock{}
	}

	return s, nil
}

// AddAnnouncer registers a for committed draws. It is not safe to call
// concurrently with draws.
func (s *Service) AddAnnouncer(a Announcer) {
	s.announcers = append(s.announcers, a)
}

// Picker is the random source used for draws and animation shuffles.
func (s *Service) Picker() *random.Picker {
	return s.picker
}

func (s *Service) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// SetCatalog replaces the catalog snapshot. Prepared plans keep the
// candidates they were built with.
func (s *Service) SetCatalog(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
	s.log.Info("catalog updated", "entities", c.Len())
}

// Candidates returns the plan a draw for (targetID, category) would use
// right now, without reserving anything.
func (s *Service) Candidates(ctx context.Context, targetID string, category catalog.Category) (*Plan, error) {
	ctx, span := tracing.Start(ctx, "draw.Candidates")
	defer span.End()
	setSpanRequest(span, targetID, category)

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.plan(ctx, targetID, category)
	if err != nil {
		spanError(span, err)
		return nil, err
	}
	return plan, nil
}

// Prepare validates a draw and reserves its category. The returned plan
// must be passed to Commit or Abort.
func (s *Service) Prepare(ctx context.Context, targetID string, category catalog.Category) (*Plan, error) {
	ctx, span := tracing.Start(ctx, "draw.Prepare")
	defer span.End()
	setSpanRequest(span, targetID, category)

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.plan(ctx, targetID, category)
	if err != nil {
		s.metrics.trackRejected(category, err)
		spanError(span, err)
		return nil, err
	}

	s.inFlight[category] = plan
	s.metrics.setInFlight(len(s.inFlight))

	return plan, nil
}

// Abort releases a prepared plan without recording anything.
func (s *Service) Abort(plan *Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[plan.Category] != plan {
		return
	}
	delete(s.inFlight, plan.Category)
	s.metrics.setInFlight(len(s.inFlight))
	s.metrics.trackAborted(plan.Category)
	s.log.Info("draw aborted", "target", plan.Target.ID, "category", plan.Category.String())
}

// Commit records selected as the outcome of a prepared plan and
// releases the reservation. selected must be one of the plan's
// candidates.
func (s *Service) Commit(ctx context.Context, plan *Plan, selected catalog.Entity) (*Outcome, error) {
	ctx, span := tracing.Start(ctx, "draw.Commit")
	defer span.End()
	setSpanRequest(span, plan.Target.ID, plan.Category)

	s.mu.Lock()
	if s.inFlight[plan.Category] != plan {
		s.mu.Unlock()
		err := errors.New("draw: plan is not in flight")
		spanError(span, err)
		return nil, err
	}
	delete(s.inFlight, plan.Category)
	s.metrics.setInFlight(len(s.inFlight))

	out, err := s.commit(ctx, plan, selected)
	s.mu.Unlock()

	if err != nil {
		spanError(span, err)
		return nil, err
	}

	s.announce(ctx, out)
	return out, nil
}

// Draw runs a headless draw: validation, candidate selection, the random
// pick and the commit all happen in one critical section.
func (s *Service) Draw(ctx context.Context, targetID string, category catalog.Category) (*Outcome, error) {
	ctx, span := tracing.Start(ctx, "draw.Draw")
	defer span.End()
	setSpanRequest(span, targetID, category)

	out, err := s.drawLocked(ctx, targetID, category)
	if err != nil {
		spanError(span, err)
		return nil, err
	}

	s.announce(ctx, out)
	return out, nil
}

func (s *Service) drawLocked(ctx context.Context, targetID string, category catalog.Category) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.plan(ctx, targetID, category)
	if err != nil {
		s.metrics.trackRejected(category, err)
		return nil, err
	}

	selected, err := random.Pick(s.picker, plan.Candidates)
	if err != nil {
		return nil, err
	}

	return s.commit(ctx, plan, selected)
}

// DrawTarget draws every specialty the target needs that has not been
// drawn this round, in specialty order. It returns the outcomes made
// before any error.
func (s *Service) DrawTarget(ctx context.Context, targetID string) ([]*Outcome, error) {
	ctx, span := tracing.Start(ctx, "draw.DrawTarget")
	defer span.End()
	span.SetAttributes(attribute.String("target", targetID))

	s.mu.Lock()
	target, err := s.catalog.Find(targetID)
	if err != nil {
		s.mu.Unlock()
		err = newError(ErrUnknownTarget, catalog.Entity{ID: targetID}, catalog.CategoryUnknown)
		spanError(span, err)
		return nil, err
	}
	pending := []catalog.Category{}
	for _, cat := range target.Category.Specialties() {
		if !s.tracker.HasDrawn(targetID, cat) {
			pending = append(pending, cat)
		}
	}
	s.mu.Unlock()

	if len(pending) == 0 {
		err := newError(ErrDuplicateDrawInRound, target, catalog.CategoryUnknown)
		spanError(span, err)
		return nil, err
	}

	outcomes := []*Outcome{}
	for _, cat := range pending {
		out, err := s.Draw(ctx, targetID, cat)
		if err != nil {
			spanError(span, err)
			return outcomes, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// HasDrawn reports whether the target already has a counterpart for the
// category this round.
func (s *Service) HasDrawn(targetID string, category catalog.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.HasDrawn(targetID, category)
}

// ResetRound starts a new round. History is not affected. It fails with
// ErrDrawInProgress while a prepared draw is pending.
func (s *Service) ResetRound(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	for cat, plan := range s.inFlight {
		return newError(ErrDrawInProgress, plan.Target, cat)
	}

	n := s.tracker.Len()
	s.tracker.Reset()
	s.metrics.trackReset()
	log.InfoContext(ctx, "round reset", "pairings", n)
	return nil
}

// History returns every recorded draw, oldest first.
func (s *Service) History(ctx context.Context) ([]ledger.DrawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.All(ctx)
}

// ClearHistory deletes every record. The round is not affected.
func (s *Service) ClearHistory(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Clear(ctx); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	log.InfoContext(ctx, "history cleared")
	return nil
}

// plan validates the request and computes the eligible set. s.mu must
// be held.
func (s *Service) plan(ctx context.Context, targetID string, category catalog.Category) (*Plan, error) {
	target, err := s.catalog.Find(targetID)
	if !category.IsSpecialty() {
		t := catalog.Entity{ID: targetID}
		if err == nil {
			t = target
		}
		e := newError(ErrInvalidCategory, t, category)
		e.Detail = fmt.Sprintf("%q is not a draw category", category.String())
		return nil, e
	}
	if err != nil {
		return nil, newError(ErrUnknownTarget, catalog.Entity{ID: targetID}, category)
	}
	if !slices.Contains(target.Category.Specialties(), category) {
		return nil, newError(ErrInvalidCategory, target, category)
	}
	if s.tracker.HasDrawn(targetID, category) {
		return nil, newError(ErrDuplicateDrawInRound, target, category)
	}
	if _, ok := s.inFlight[category]; ok {
		return nil, newError(ErrDrawInProgress, target, category)
	}

	records, err := s.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	req := selector.Request{
		Target:          target,
		Category:        category,
		LastSelectedID:  selector.LastSelected(records, targetID, category),
		AlreadySelected: s.tracker.AlreadySelected(category),
		CrossAvoidance:  s.tracker.CrossAvoidance(targetID, category),
	}

	res, err := s.selector.Eligible(ctx, s.catalog.All(), req)
	if err != nil {
		if errors.Is(err, selector.ErrNoCandidates) {
			return nil, newError(ErrNoCandidates, target, category)
		}
		return nil, err
	}

	return &Plan{
		Target:       target,
		Category:     category,
		Candidates:   res.Candidates,
		ForcedUnique: res.ForcedUnique,
		Excluded:     res.Excluded,
	}, nil
}

// commit appends the record and the round pairing. s.mu must be held.
// Nothing is changed if the ledger write fails.
func (s *Service) commit(ctx context.Context, plan *Plan, selected catalog.Entity) (*Outcome, error) {
	log := logger.FromContext(ctx)

	selected, ok := plan.candidate(selected.ID)
	if !ok {
		return nil, fmt.Errorf("draw: %q is not a candidate for %s", selected.ID, plan.Target.ID)
	}

	originName := selected.Name
	if origin, err := s.catalog.Find(selected.Group()); err == nil {
		originName = origin.Name
	}

	rec, err := ledger.NewRecord(s.clock.Now(), plan.Target, selected, plan.Category, originName)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("recording draw: %w", err)
	}
	if err := s.tracker.Record(plan.Target.ID, selected, plan.Category); err != nil {
		// only reachable if the round changed under a reservation
		log.ErrorContext(ctx, "round out of sync with ledger", "record", rec.ID, "err", err)
		return nil, err
	}

	s.metrics.trackCommit(plan.Category, plan.ForcedUnique, s.tracker.Len())

	log.InfoContext(ctx, "draw committed",
		"target", plan.Target.ID,
		"category", plan.Category.String(),
		"selected", selected.ID,
		"candidates", len(plan.Candidates),
		"forced_unique", plan.ForcedUnique,
	)

	return &Outcome{
		Record:         rec,
		Target:         plan.Target,
		Selected:       selected,
		Category:       plan.Category,
		ForcedUnique:   plan.ForcedUnique,
		CandidateCount: len(plan.Candidates),
	}, nil
}

func (s *Service) announce(ctx context.Context, out *Outcome) {
	for _, a := range s.announcers {
		if err := a.Announce(ctx, out); err != nil {
			logger.FromContext(ctx).WarnContext(ctx, "could not announce draw",
				"record", out.Record.ID, "err", err)
		}
	}
}

func setSpanRequest(span otrace.Span, targetID string, category catalog.Category) {
	span.SetAttributes(
		attribute.String("target", targetID),
		attribute.String("category", category.String()),
	)
}

func spanError(span otrace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
