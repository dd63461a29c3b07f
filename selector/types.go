package selector

import (
	"go.inspectdraw.org/draw/catalog"
)

// ExclusionReason identifies the constraint that excluded an entity.
type ExclusionReason string

const (
	ExclusionNone           ExclusionReason = ""                // Eligible
	ExclusionCategory       ExclusionReason = "category"        // Category does not satisfy the request
	ExclusionSelf           ExclusionReason = "self"            // Target itself or a member of its group
	ExclusionConsecutive    ExclusionReason = "consecutive"     // Target's previous counterpart
	ExclusionRound          ExclusionReason = "round"           // Already drawn this round
	ExclusionCrossAvoidance ExclusionReason = "cross_avoidance" // Reciprocal pairing this round
)

// exclusionReasons in evaluation order, for metrics and reports.
var exclusionReasons = []ExclusionReason{
	ExclusionCategory,
	ExclusionSelf,
	ExclusionConsecutive,
	ExclusionRound,
	ExclusionCrossAvoidance,
}

// Request describes one draw to select candidates for.
type Request struct {
	Target   catalog.Entity
	Category catalog.Category

	// LastSelectedID is the target's counterpart in its most recent
	// draw for Category; empty when there is none.
	LastSelectedID string

	// AlreadySelected holds the ids drawn this round for Category.
	AlreadySelected []string

	// CrossAvoidance holds the group ids excluded for reciprocity.
	CrossAvoidance []string
}

// Exclusion records why an entity was not eligible.
type Exclusion struct {
	EntityID string          `json:"entity_id"`
	Reason   ExclusionReason `json:"reason"`
}

// Result is the eligible set for a request.
type Result struct {
	Candidates []catalog.Entity `json:"candidates"`

	// ForcedUnique is set when the only candidate is the target's
	// previous counterpart, reselected because nothing else is eligible.
	ForcedUnique bool `json:"forced_unique"`

	Excluded []Exclusion `json:"excluded"`
}

// IDs returns the candidate ids in order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Candidates))
	for i, e := range r.Candidates {
		ids[i] = e.ID
	}
	return ids
}
