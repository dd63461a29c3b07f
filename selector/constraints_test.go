package selector

import (
	"testing"

	"go.inspectdraw.org/draw/catalog"
)

func TestCheckConstraints(t *testing.T) {
	target := catalog.Entity{ID: "nd", Name: "Ningdong", Category: catalog.CategoryCombined}

	tests := []struct {
		name   string
		entity catalog.Entity
		req    Request
		want   ExclusionReason
	}{
		{
			name:   "eligible_specialty",
			entity: catalog.Entity{ID: "cy1", Category: catalog.CategoryPressure},
			req:    Request{Target: target, Category: catalog.CategoryPressure},
			want:   ExclusionNone,
		},
		{
			name:   "combined_matches_any_specialty",
			entity: catalog.Entity{ID: "wz", Category: catalog.CategoryCombined},
			req:    Request{Target: target, Category: catalog.CategoryMechanical},
			want:   ExclusionNone,
		},
		{
			name:   "wrong_specialty",
			entity: catalog.Entity{ID: "jd1", Category: catalog.CategoryMechanical},
			req:    Request{Target: target, Category: catalog.CategoryPressure},
			want:   ExclusionCategory,
		},
		{
			name:   "target_itself",
			entity: target,
			req:    Request{Target: target, Category: catalog.CategoryPressure},
			want:   ExclusionSelf,
		},
		{
			name:   "member_of_target_group",
			entity: catalog.Entity{ID: "nd-inspector", Category: catalog.CategoryPressure, GroupID: "nd"},
			req:    Request{Target: target, Category: catalog.CategoryPressure},
			want:   ExclusionSelf,
		},
		{
			name:   "previous_counterpart",
			entity: catalog.Entity{ID: "cy1", Category: catalog.CategoryPressure},
			req:    Request{Target: target, Category: catalog.CategoryPressure, LastSelectedID: "cy1"},
			want:   ExclusionConsecutive,
		},
		{
			name:   "drawn_this_round",
			entity: catalog.Entity{ID: "cy1", Category: catalog.CategoryPressure},
			req:    Request{Target: target, Category: catalog.CategoryPressure, AlreadySelected: []string{"cy2", "cy1"}},
			want:   ExclusionRound,
		},
		{
			name:   "reciprocal_group",
			entity: catalog.Entity{ID: "wz", Category: catalog.CategoryCombined},
			req:    Request{Target: target, Category: catalog.CategoryPressure, CrossAvoidance: []string{"wz"}},
			want:   ExclusionCrossAvoidance,
		},
		{
			name:   "reciprocal_group_member",
			entity: catalog.Entity{ID: "wz-7", Category: catalog.CategoryPressure, GroupID: "wz"},
			req:    Request{Target: target, Category: catalog.CategoryPressure, CrossAvoidance: []string{"wz"}},
			want:   ExclusionCrossAvoidance,
		},
		{
			name:   "category_reported_before_self",
			entity: target,
			req:    Request{Target: target, Category: catalog.CategoryUnknown},
			want:   ExclusionCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkConstraints(tt.entity, tt.req); got != tt.want {
				t.Errorf("checkConstraints() = %q, want %q", got, tt.want)
			}
		})
	}
}
