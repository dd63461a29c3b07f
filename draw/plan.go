package draw

import (
	"fmt"

	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/ledger"
	"go.inspectdraw.org/draw/selector"
)

// Plan is a validated draw: the target, the category and the eligible
// candidates. A plan returned by Prepare holds the category's draw
// reservation until it is committed or aborted.
type Plan struct {
	Target       catalog.Entity       `json:"target"`
	Category     catalog.Category     `json:"category"`
	Candidates   []catalog.Entity     `json:"candidates"`
	ForcedUnique bool                 `json:"forced_unique"`
	Excluded     []selector.Exclusion `json:"excluded"`
}

func (p *Plan) candidate(id string) (catalog.Entity, bool) {
	for _, e := range p.Candidates {
		if e.ID == id {
			return e, true
		}
	}
	return catalog.Entity{}, false
}

// Outcome is a committed draw.
type Outcome struct {
	Record         ledger.DrawRecord `json:"record"`
	Target         catalog.Entity    `json:"target"`
	Selected       catalog.Entity    `json:"selected"`
	Category       catalog.Category  `json:"category"`
	ForcedUnique   bool              `json:"forced_unique"`
	CandidateCount int               `json:"candidate_count"`
}

// Message is the user-facing result text.
func (o *Outcome) Message() string {
	msg := fmt.Sprintf("%s will be inspected for %s by %s.", o.Target.Name, o.Category, o.Selected.Name)
	if o.ForcedUnique {
		msg += fmt.Sprintf(" %s was also the previous inspector, but is the only eligible department.", o.Selected.Name)
	}
	return msg
}
