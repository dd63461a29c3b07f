// Package round tracks the pairings made since the last round reset.
//
// A Tracker is a plain value without its own locking; the draw service
// owns one and serialises all access to it.
package round

import (
	"errors"
	"fmt"
	"slices"

	"go.inspectdraw.org/draw/catalog"
)

// ErrAlreadyRecorded is returned by Record when the target already has a
// counterpart, or the counterpart was already drawn, in this round and
// category.
var ErrAlreadyRecorded = errors.New("pairing already recorded this round")

// Pairing is one draw made during the round.
type Pairing struct {
	TargetID   string `json:"target_id"`
	SelectedID string `json:"selected_id"`
	// OriginID is the group of the selected entity.
	OriginID string `json:"origin_id"`
}

type Tracker struct {
	pairings map[catalog.Category][]Pairing
}

func NewTracker() *Tracker {
	return &Tracker{pairings: map[catalog.Category][]Pairing{}}
}

// Record appends a pairing. Nothing is recorded if the target or the
// selected entity already appears for the category.
func (t *Tracker) Record(targetID string, selected catalog.Entity, category catalog.Category) error {
	for _, p := range t.pairings[category] {
		if p.TargetID == targetID {
			return fmt.Errorf("%w: target %q (%s)", ErrAlreadyRecorded, targetID, category)
		}
		if p.SelectedID == selected.ID {
			return fmt.Errorf("%w: %q already selected (%s)", ErrAlreadyRecorded, selected.ID, category)
		}
	}
	t.pairings[category] = append(t.pairings[category], Pairing{
		TargetID:   targetID,
		SelectedID: selected.ID,
		OriginID:   selected.Group(),
	})
	return nil
}

// Reset clears every category.
func (t *Tracker) Reset() {
	clear(t.pairings)
}

// AlreadySelected returns the ids drawn as counterpart this round.
func (t *Tracker) AlreadySelected(category catalog.Category) []string {
	ids := make([]string, 0, len(t.pairings[category]))
	for _, p := range t.pairings[category] {
		ids = append(ids, p.SelectedID)
	}
	return ids
}

// CrossAvoidance returns the group ids targetID must not receive a
// counterpart from: every target that was itself assigned a counterpart
// from targetID's group earlier in this round.
func (t *Tracker) CrossAvoidance(targetID string, category catalog.Category) []string {
	ids := []string{}
	for _, p := range t.pairings[category] {
		if p.OriginID == targetID && !slices.Contains(ids, p.TargetID) {
			ids = append(ids, p.TargetID)
		}
	}
	return ids
}

// HasDrawn reports whether targetID already has a counterpart for the
// category in this round.
func (t *Tracker) HasDrawn(targetID string, category catalog.Category) bool {
	return slices.ContainsFunc(t.pairings[category], func(p Pairing) bool {
		return p.TargetID == targetID
	})
}

// Pairings returns a copy of the category's pairings in draw order.
func (t *Tracker) Pairings(category catalog.Category) []Pairing {
	return slices.Clone(t.pairings[category])
}

// Len is the number of pairings over all categories.
func (t *Tracker) Len() int {
	n := 0
	for _, p := range t.pairings {
		n += len(p)
	}
	return n
}
