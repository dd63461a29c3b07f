package draw

import (
	"slices"

	"go.inspectdraw.org/draw/catalog"
)

// PairingView is a round pairing with display names.
type PairingView struct {
	TargetID     string `json:"target_id"`
	TargetName   string `json:"target_name"`
	SelectedID   string `json:"selected_id"`
	SelectedName string `json:"selected_name"`
	OriginID     string `json:"origin_id"`
}

// CategoryStatus is the round state of one draw category.
type CategoryStatus struct {
	Category catalog.Category `json:"category"`
	Pairings []PairingView    `json:"pairings"`
	// Pending lists the targets that still need a draw, in catalog order.
	Pending []string `json:"pending"`
}

type RoundStatus struct {
	Categories []CategoryStatus `json:"categories"`
	Pairings   int              `json:"pairings"`
	InFlight   []string         `json:"in_flight"`
}

// Complete is true when no target is pending in any category.
func (rs RoundStatus) Complete() bool {
	for _, c := range rs.Categories {
		if len(c.Pending) > 0 {
			return false
		}
	}
	return true
}

// RoundStatus reports the pairings made since the last reset.
func (s *Service) RoundStatus() RoundStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := func(id string) string {
		if e, err := s.catalog.Find(id); err == nil {
			return e.Name
		}
		return id
	}

	rs := RoundStatus{
		Categories: []CategoryStatus{},
		Pairings:   s.tracker.Len(),
		InFlight:   []string{},
	}

	for _, cat := range catalog.Specialties() {
		cs := CategoryStatus{
			Category: cat,
			Pairings: []PairingView{},
			Pending:  []string{},
		}
		for _, p := range s.tracker.Pairings(cat) {
			cs.Pairings = append(cs.Pairings, PairingView{
				TargetID:     p.TargetID,
				TargetName:   name(p.TargetID),
				SelectedID:   p.SelectedID,
				SelectedName: name(p.SelectedID),
				OriginID:     p.OriginID,
			})
		}
		for _, e := range s.catalog.All() {
			if !slices.Contains(e.Category.Specialties(), cat) {
				continue
			}
			if !s.tracker.HasDrawn(e.ID, cat) {
				cs.Pending = append(cs.Pending, e.ID)
			}
		}
		rs.Categories = append(rs.Categories, cs)

		if p, ok := s.inFlight[cat]; ok {
			rs.InFlight = append(rs.InFlight, p.Target.ID)
		}
	}

	return rs
}
