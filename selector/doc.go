// Package selector implements the constrained candidate selection for
// inspection draws.
//
// Given the catalog, a target and a requested category, the selector
// returns the entities that may be drawn as the target's counterpart.
//
// # Constraints
//
// An entity is eligible when every check passes, evaluated in order:
//   - Category: the entity's category satisfies the requested one
//     (combined entities satisfy every specialty)
//   - Self: the entity is not the target and not a member of the
//     target's group
//   - Consecutive: the entity is not the counterpart the target received
//     in its most recent draw for the same category
//   - Round: the entity has not already been drawn this round
//   - Cross-avoidance: the entity's group did not itself receive a
//     counterpart from the target's group this round
//
// # Single candidate
//
// When the consecutive check empties the set but exactly one entity
// passes every other check, that entity is returned with ForcedUnique
// set. Only the consecutive check is lifted; round uniqueness and
// cross-avoidance are never bypassed.
//
// # Usage
//
//	sl := selector.NewSelector(log, metrics)
//	res, err := sl.Eligible(ctx, cat.All(), selector.Request{
//	    Target:         target,
//	    Category:       catalog.CategoryPressure,
//	    LastSelectedID: selector.LastSelected(history, target.ID, catalog.CategoryPressure),
//	})
package selector
