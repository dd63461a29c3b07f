package selector

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/ledger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func find(t *testing.T, c *catalog.Catalog, id string) catalog.Entity {
	t.Helper()
	e, err := c.Find(id)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestEligibleDefaultCatalog(t *testing.T) {
	ctx := context.Background()
	c := catalog.Default()
	sl := NewSelector(testLogger(), nil)

	tests := []struct {
		name    string
		req     Request
		want    []string
		wantErr bool
	}{
		{
			name: "branch_pressure",
			req:  Request{Target: find(t, c, "nd"), Category: catalog.CategoryPressure},
			want: []string{"szs", "wz", "zw", "gy", "cy1", "cy2", "zh"},
		},
		{
			name: "specialty_unit_mechanical",
			req:  Request{Target: find(t, c, "jd1"), Category: catalog.CategoryMechanical},
			want: []string{"nd", "szs", "wz", "zw", "gy", "jd2"},
		},
		{
			name: "round_and_history_constraints",
			req: Request{
				Target:          find(t, c, "nd"),
				Category:        catalog.CategoryMechanical,
				LastSelectedID:  "jd1",
				AlreadySelected: []string{"szs", "wz"},
				CrossAvoidance:  []string{"zw"},
			},
			want: []string{"gy", "jd2"},
		},
		{
			name:    "invalid_category",
			req:     Request{Target: find(t, c, "nd"), Category: catalog.CategoryCombined},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := sl.Eligible(ctx, c.All(), tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Eligible() error = %v", err)
			}
			if got := res.IDs(); !slices.Equal(got, tt.want) {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
			if res.ForcedUnique {
				t.Error("ForcedUnique set with several candidates")
			}
			for _, e := range res.Candidates {
				if e.ID == tt.req.Target.ID {
					t.Errorf("target %q is its own candidate", e.ID)
				}
			}
			if len(res.Candidates)+len(res.Excluded) != c.Len() {
				t.Errorf("candidates + excluded = %d, want %d", len(res.Candidates)+len(res.Excluded), c.Len())
			}
		})
	}
}

func TestEligibleSingleCandidate(t *testing.T) {
	ctx := context.Background()
	sl := NewSelector(testLogger(), nil)

	// target group X, the only other entity is B of group Y
	entities := []catalog.Entity{
		{ID: "A", Category: catalog.CategoryPressure, GroupID: "X"},
		{ID: "B", Category: catalog.CategoryPressure, GroupID: "Y"},
	}
	target := catalog.Entity{ID: "X", Category: catalog.CategoryCombined}

	for _, last := range []string{"", "A", "B"} {
		t.Run("last_"+last, func(t *testing.T) {
			res, err := sl.Eligible(ctx, entities, Request{
				Target:         target,
				Category:       catalog.CategoryPressure,
				LastSelectedID: last,
			})
			if err != nil {
				t.Fatalf("Eligible() error = %v", err)
			}
			if got := res.IDs(); !slices.Equal(got, []string{"B"}) {
				t.Fatalf("Eligible() = %v, want [B]", got)
			}
			if res.ForcedUnique != (last == "B") {
				t.Errorf("ForcedUnique = %v with last %q", res.ForcedUnique, last)
			}
		})
	}
}

func TestEligibleBypassOnlyLiftsConsecutive(t *testing.T) {
	ctx := context.Background()
	sl := NewSelector(testLogger(), nil)

	entities := []catalog.Entity{
		{ID: "B", Category: catalog.CategoryPressure},
		{ID: "C", Category: catalog.CategoryPressure},
	}
	target := catalog.Entity{ID: "X", Category: catalog.CategoryCombined}

	tests := []struct {
		name       string
		req        Request
		wantForced bool
	}{
		{
			name: "previous_counterpart_and_other_taken",
			req: Request{Target: target, Category: catalog.CategoryPressure,
				LastSelectedID: "B", AlreadySelected: []string{"C"}},
			wantForced: true,
		},
		{
			name: "previous_counterpart_and_other_reciprocal",
			req: Request{Target: target, Category: catalog.CategoryPressure,
				LastSelectedID: "B", CrossAvoidance: []string{"C"}},
			wantForced: true,
		},
		{
			name: "everything_drawn_this_round",
			req: Request{Target: target, Category: catalog.CategoryPressure,
				AlreadySelected: []string{"B", "C"}},
		},
		{
			name: "previous_counterpart_reciprocal_too",
			req: Request{Target: target, Category: catalog.CategoryPressure,
				LastSelectedID: "B", CrossAvoidance: []string{"B", "C"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := sl.Eligible(ctx, entities, tt.req)
			if !tt.wantForced {
				if !errors.Is(err, ErrNoCandidates) {
					t.Errorf("Eligible() error = %v, want ErrNoCandidates", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Eligible() error = %v", err)
			}
			if !res.ForcedUnique || !slices.Equal(res.IDs(), []string{"B"}) {
				t.Errorf("want forced [B], got %v forced=%v", res.IDs(), res.ForcedUnique)
			}
		})
	}
}

func TestEligibleBypassKeepsRoundUniqueness(t *testing.T) {
	sl := NewSelector(testLogger(), nil)

	// the previous counterpart is the only specialty entity, but it
	// is also already drawn this round: nothing may be bypassed
	entities := []catalog.Entity{{ID: "B", Category: catalog.CategoryMechanical}}
	_, err := sl.Eligible(context.Background(), entities, Request{
		Target:          catalog.Entity{ID: "X"},
		Category:        catalog.CategoryMechanical,
		LastSelectedID:  "B",
		AlreadySelected: []string{"B"},
	})
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("Eligible() error = %v, want ErrNoCandidates", err)
	}
}

func TestEligibleReciprocalScenario(t *testing.T) {
	sl := NewSelector(testLogger(), nil)

	// X's counterpart came from Y's group earlier this round, so Y
	// must not receive a counterpart from X's group
	entities := []catalog.Entity{
		{ID: "x1", Category: catalog.CategoryPressure, GroupID: "X"},
		{ID: "x2", Category: catalog.CategoryPressure, GroupID: "X"},
		{ID: "z1", Category: catalog.CategoryPressure, GroupID: "Z"},
	}
	res, err := sl.Eligible(context.Background(), entities, Request{
		Target:         catalog.Entity{ID: "Y"},
		Category:       catalog.CategoryPressure,
		CrossAvoidance: []string{"X"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.IDs(); !slices.Equal(got, []string{"z1"}) {
		t.Errorf("Eligible() = %v, want [z1]", got)
	}
}

func TestLastSelected(t *testing.T) {
	records := []ledger.DrawRecord{
		{TargetID: "nd", Category: catalog.CategoryPressure, SelectedID: "cy1"},
		{TargetID: "nd", Category: catalog.CategoryMechanical, SelectedID: "jd1"},
		{TargetID: "wz", Category: catalog.CategoryPressure, SelectedID: "cy2"},
		{TargetID: "nd", Category: catalog.CategoryPressure, SelectedID: "zh"},
	}

	tests := []struct {
		name   string
		target string
		cat    catalog.Category
		want   string
	}{
		{"most_recent_wins", "nd", catalog.CategoryPressure, "zh"},
		{"category_specific", "nd", catalog.CategoryMechanical, "jd1"},
		{"other_target", "wz", catalog.CategoryPressure, "cy2"},
		{"never_drawn", "gy", catalog.CategoryPressure, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastSelected(records, tt.target, tt.cat); got != tt.want {
				t.Errorf("LastSelected() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := LastSelected(nil, "nd", catalog.CategoryPressure); got != "" {
		t.Errorf("LastSelected(nil) = %q", got)
	}
}

func TestMetricsTracked(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	sl := NewSelector(testLogger(), metrics)

	entities := []catalog.Entity{
		{ID: "B", Category: catalog.CategoryPressure},
		{ID: "J", Category: catalog.CategoryMechanical},
	}
	_, err := sl.Eligible(context.Background(), entities, Request{
		Target:         catalog.Entity{ID: "X"},
		Category:       catalog.CategoryPressure,
		LastSelectedID: "B",
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := promtest.ToFloat64(metrics.ForcedUnique.WithLabelValues("pressure")); got != 1 {
		t.Errorf("forced unique = %v, want 1", got)
	}
	if got := promtest.ToFloat64(metrics.Exclusions.WithLabelValues("pressure", "category")); got != 1 {
		t.Errorf("category exclusions = %v, want 1", got)
	}
	if got := promtest.ToFloat64(metrics.CandidatePoolSize.WithLabelValues("pressure")); got != 1 {
		t.Errorf("pool size = %v, want 1", got)
	}
}

func TestEligibleSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanRecorder(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	sl := NewSelector(nil, nil)
	entities := []catalog.Entity{
		{ID: "B", Category: catalog.CategoryPressure},
		{ID: "C", Category: catalog.CategoryPressure},
	}
	_, err := sl.Eligible(context.Background(), entities, Request{
		Target:   catalog.Entity{ID: "X"},
		Category: catalog.CategoryPressure,
	})
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, span := range sr.Ended() {
		if span.Name() != "selector.Eligible" {
			continue
		}
		found = true
		attrs := map[attribute.Key]attribute.Value{}
		for _, kv := range span.Attributes() {
			attrs[kv.Key] = kv.Value
		}
		if got := attrs["target"].AsString(); got != "X" {
			t.Errorf("target attribute = %q", got)
		}
		if got := attrs["candidates"].AsInt64(); got != 2 {
			t.Errorf("candidates attribute = %d, want 2", got)
		}
	}
	if !found {
		t.Error("no selector.Eligible span recorded")
	}
}
