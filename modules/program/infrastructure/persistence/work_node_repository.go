package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/paceline-hq/paceline/modules/program/domain/worknode"
	"github.com/paceline-hq/paceline/pkg/composables"
)

type WorkNodeRepository struct{}

func NewWorkNodeRepository() worknode.Repository {
	return &WorkNodeRepository{}
}

const workNodeColumns = `tenant_id, id, level, parent_id, name, completed, created_at, updated_at`

func (r *WorkNodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*worknode.WorkNode, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+workNodeColumns+`
FROM work_nodes
WHERE tenant_id = $1 AND id = $2
`, pgUUID(tenantID), pgUUID(id))

	node, err := scanWorkNode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, worknode.ErrNotFound
		}
		return nil, err
	}
	return node, nil
}

func (r *WorkNodeRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*worknode.WorkNode, error) {
	if len(ids) == 0 {
		return []*worknode.WorkNode{}, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT `+workNodeColumns+`
FROM work_nodes
WHERE tenant_id = $1 AND id = ANY($2)
`, pgUUID(tenantID), pgUUIDArray(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*worknode.WorkNode, 0, len(ids))
	for rows.Next() {
		node, err := scanWorkNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanWorkNode(row pgx.Row) (*worknode.WorkNode, error) {
	var (
		node      worknode.WorkNode
		tenantID  pgtype.UUID
		id        pgtype.UUID
		level     string
		parentID  pgtype.UUID
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&tenantID, &id, &level, &parentID, &node.Name, &node.Completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	node.TenantID = asUUID(tenantID)
	node.ID = asUUID(id)
	node.Level = worknode.Level(level)
	node.ParentID = asUUIDPtr(parentID)
	node.CreatedAt = asTime(createdAt)
	node.UpdatedAt = asTime(updatedAt)
	return &node, nil
}
