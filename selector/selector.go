package selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/tracing"
	"go.opentelemetry.io/otel/attribute"

	"go.inspectdraw.org/draw/catalog"
)

// ErrNoCandidates is returned when no entity is eligible and the single
// candidate rule does not apply.
var ErrNoCandidates = errors.New("no eligible candidates")

// Selector evaluates draw constraints. It holds no draw state and is
// safe for concurrent use.
type Selector struct {
	log     *slog.Logger
	metrics *Metrics
}

// NewSelector returns a selector. metrics may be nil.
func NewSelector(log *slog.Logger, metrics *Metrics) *Selector {
	if log == nil {
		log = logger.Setup()
	}
	return &Selector{log: log, metrics: metrics}
}

// Eligible returns the entities that can be drawn for req, in catalog
// order. It has no side effects besides logging and metrics.
func (sl *Selector) Eligible(ctx context.Context, entities []catalog.Entity, req Request) (*Result, error) {
	ctx, span := tracing.Start(ctx, "selector.Eligible")
	defer span.End()
	span.SetAttributes(
		attribute.String("target", req.Target.ID),
		attribute.String("category", req.Category.String()),
		attribute.Int("entities", len(entities)),
	)

	start := time.Now()

	if !req.Category.IsSpecialty() {
		return nil, fmt.Errorf("category %s is not a draw category", req.Category)
	}

	log := sl.log.With("target", req.Target.ID, "category", req.Category.String())

	res := &Result{
		Candidates: []catalog.Entity{},
		Excluded:   []Exclusion{},
	}
	excludedCounts := map[ExclusionReason]int{}

	for _, e := range entities {
		reason := checkConstraints(e, req)
		if reason == ExclusionNone {
			res.Candidates = append(res.Candidates, e)
			continue
		}
		res.Excluded = append(res.Excluded, Exclusion{EntityID: e.ID, Reason: reason})
		excludedCounts[reason]++
		log.DebugContext(ctx, "candidate excluded", "entity", e.ID, "reason", reason)
	}

	if len(res.Candidates) == 0 && req.LastSelectedID != "" {
		if forced, ok := sl.singleCandidate(entities, req); ok {
			log.InfoContext(ctx, "reselecting previous counterpart as the only eligible candidate",
				"entity", forced.ID)
			res.Candidates = append(res.Candidates, forced)
			res.ForcedUnique = true
		}
	}

	if sl.metrics != nil {
		sl.metrics.TrackEvaluation(req.Category, len(res.Candidates), excludedCounts, res.ForcedUnique, time.Since(start))
	}

	span.SetAttributes(
		attribute.Int("candidates", len(res.Candidates)),
		attribute.Bool("forced_unique", res.ForcedUnique),
	)

	if len(res.Candidates) == 0 {
		log.InfoContext(ctx, "no eligible candidates", "evaluated", len(entities))
		return nil, ErrNoCandidates
	}

	log.DebugContext(ctx, "eligible candidates",
		"count", len(res.Candidates),
		"forced_unique", res.ForcedUnique)

	return res, nil
}

// singleCandidate applies the single candidate rule: with the
// consecutive constraint lifted, exactly one entity must remain.
func (sl *Selector) singleCandidate(entities []catalog.Entity, req Request) (catalog.Entity, bool) {
	relaxed := req
	relaxed.LastSelectedID = ""

	var found []catalog.Entity
	for _, e := range entities {
		if checkConstraints(e, relaxed) == ExclusionNone {
			found = append(found, e)
			if len(found) > 1 {
				return catalog.Entity{}, false
			}
		}
	}
	if len(found) != 1 {
		return catalog.Entity{}, false
	}
	return found[0], true
}
