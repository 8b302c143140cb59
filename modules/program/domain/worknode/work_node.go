package worknode

import (
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Level places a node in the three-level work hierarchy.
type Level string

const (
	LevelProject    Level = "project"
	LevelSubProject Level = "sub_project"
	LevelTask       Level = "task"
)

var ErrNotFound = gerrors.New("work node not found")

// Valid reports whether l is one of the declared levels.
func (l Level) Valid() bool {
	switch l {
	case LevelProject, LevelSubProject, LevelTask:
		return true
	}
	return false
}

// WorkNode is a single node of the hierarchy. The three levels share one
// shape; only ParentID distinguishes a root project from its descendants.
type WorkNode struct {
	TenantID  uuid.UUID
	ID        uuid.UUID
	Level     Level
	ParentID  *uuid.UUID
	Name      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasParent reports whether the node sits below another node.
func (n *WorkNode) HasParent() bool {
	return n.ParentID != nil
}
