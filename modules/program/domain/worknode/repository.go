package worknode

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*WorkNode, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*WorkNode, error)
}
