package models

import "time"

// EditState is the lifecycle state of a persisted edit
type EditState string

const (
	EditPending    EditState = "pending"    // Authored, waiting to be applied
	EditApplied    EditState = "applied"    // Applied to the store
	EditConflicted EditState = "conflicted" // Could not be applied as-is
	EditReverted   EditState = "reverted"   // Applied and later undone
)

// ElementEdit is an edit action persisted in the edit queue
type ElementEdit struct {
	ID         string     `json:"id"`
	Seq        int        `json:"seq"`
	CreatedAt  time.Time  `json:"created_at"`
	ElementKey ElementKey `json:"element_key"`
	ActionType string     `json:"action_type"`
	Action     []byte     `json:"action"` // versioned action envelope
	State      EditState  `json:"state"`
	Conflict   string     `json:"conflict,omitempty"`
	AppliedAt  *time.Time `json:"applied_at,omitempty"`
	RevertOf   string     `json:"revert_of,omitempty"` // id of the edit this one undoes
}

// ShortID returns a shortened edit ID (first 8 characters)
func (e *ElementEdit) ShortID() string {
	if len(e.ID) > 8 {
		return e.ID[:8]
	}
	return e.ID
}
