package selector

import (
	"slices"

	"go.inspectdraw.org/draw/catalog"
)

// checkConstraints returns the first constraint entity violates for req,
// or ExclusionNone.
func checkConstraints(entity catalog.Entity, req Request) ExclusionReason {
	switch {
	case !checkCategoryConstraint(entity, req.Category):
		return ExclusionCategory
	case !checkSelfConstraint(entity, req.Target):
		return ExclusionSelf
	case !checkConsecutiveConstraint(entity, req.LastSelectedID):
		return ExclusionConsecutive
	case !checkRoundConstraint(entity, req.AlreadySelected):
		return ExclusionRound
	case !checkCrossAvoidanceConstraint(entity, req.CrossAvoidance):
		return ExclusionCrossAvoidance
	}
	return ExclusionNone
}

func checkCategoryConstraint(entity catalog.Entity, requested catalog.Category) bool {
	return entity.Category.Satisfies(requested)
}

// checkSelfConstraint rejects the target and members of the target's
// group (a specialist cannot inspect their own department).
func checkSelfConstraint(entity, target catalog.Entity) bool {
	if entity.ID == target.ID {
		return false
	}
	return entity.Group() != target.ID && entity.Group() != target.Group()
}

func checkConsecutiveConstraint(entity catalog.Entity, lastSelectedID string) bool {
	return lastSelectedID == "" || entity.ID != lastSelectedID
}

func checkRoundConstraint(entity catalog.Entity, alreadySelected []string) bool {
	return !slices.Contains(alreadySelected, entity.ID)
}

func checkCrossAvoidanceConstraint(entity catalog.Entity, crossAvoidance []string) bool {
	return !slices.Contains(crossAvoidance, entity.Group())
}
