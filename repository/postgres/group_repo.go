package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository returns a Postgres-backed implementation of GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) repository.GroupRepository {
	return &groupRepository{pool: pool}
}

const groupColumns = `id, name, invite_code, created_by, created_at`

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return scanGroup(r.pool.QueryRow(ctx, query, id))
}

func (r *groupRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups WHERE invite_code = $1`
	return scanGroup(r.pool.QueryRow(ctx, query, code))
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	if group == nil {
		return nil, domain.ErrInvalidPayload
	}
	if group.ID == "" {
		group.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO groups (id, name, invite_code, created_by)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		group.ID,
		group.Name,
		group.InviteCode,
		group.CreatedBy,
	).Scan(&group.CreatedAt); err != nil {
		return nil, err
	}
	return group, nil
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	const query = `
	INSERT INTO group_members (group_id, user_id)
	VALUES ($1, $2)
	ON CONFLICT (group_id, user_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, groupID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyMember
	}
	return nil
}

func (r *groupRepository) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	const query = `SELECT user_id FROM group_members WHERE group_id = $1`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, groupID, userID).Scan(&exists)
	return exists, err
}

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var group domain.Group
	if err := row.Scan(
		&group.ID,
		&group.Name,
		&group.InviteCode,
		&group.CreatedBy,
		&group.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}
