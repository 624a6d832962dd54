package models

// MapDataChanges is the outcome of applying an edit action: the elements to
// create, modify and delete. It is consumed by the store in one transaction.
type MapDataChanges struct {
	Creations     []*Element `json:"creations,omitempty"`
	Modifications []*Element `json:"modifications,omitempty"`
	Deletions     []*Element `json:"deletions,omitempty"`
}

// TotalChanges returns the total number of element changes
func (c *MapDataChanges) TotalChanges() int {
	return len(c.Creations) + len(c.Modifications) + len(c.Deletions)
}

// IsEmpty returns true if there is nothing to commit
func (c *MapDataChanges) IsEmpty() bool {
	return c.TotalChanges() == 0
}
