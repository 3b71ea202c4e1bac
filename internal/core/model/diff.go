package model

// DiffType classifies a node against a reference state
type DiffType string

const (
	DiffNone        DiffType = "none"
	DiffAdded       DiffType = "added"
	DiffDeleted     DiffType = "deleted"
	DiffAddedMove   DiffType = "addedMove"
	DiffDeletedMove DiffType = "deletedMove"
	DiffModified    DiffType = "modified"
)

// IsGhost reports whether the node exists only in the reference state and
// was grafted into the current tree for display
func (d DiffType) IsGhost() bool {
	return d == DiffDeleted || d == DiffDeletedMove
}

// ReferenceState tells whether a diff had anything to compare against
type ReferenceState int

const (
	NoReference ReferenceState = iota
	HasReference
)

func (r ReferenceState) String() string {
	if r == HasReference {
		return "reference"
	}
	return "no-reference"
}
