package catalog

// Entity is a department (or specialist) that can be a draw target or a
// counterpart.
type Entity struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	// GroupID is the organisational unit the entity belongs to. Empty
	// means the entity is its own group.
	GroupID string `json:"group_id,omitempty"`
}

// Group returns the group id used for self and cross-avoidance checks.
func (e Entity) Group() string {
	if e.GroupID != "" {
		return e.GroupID
	}
	return e.ID
}
