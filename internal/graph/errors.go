package graph

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrSelfLoop      = errors.New("edge source and target are the same node")
	ErrNoPorts       = errors.New("shape has no connection ports")
	ErrDuplicateEdge = errors.New("nodes are already connected")
	ErrUnknownShape  = errors.New("unknown shape type")
)

// IntegrityError reports a graph that breaks id uniqueness or edge
// referential integrity.
type IntegrityError struct {
	ID     string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("graph integrity: %s: %s", e.ID, e.Reason)
}
