package selector

import (
	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/ledger"
)

// LastSelected returns the counterpart of the most recent record for
// (targetID, category), or "" when the pair has never been drawn.
// records are in chronological order.
func LastSelected(records []ledger.DrawRecord, targetID string, category catalog.Category) string {
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.TargetID == targetID && r.Category == category {
			return r.SelectedID
		}
	}
	return ""
}
