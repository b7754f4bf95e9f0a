package repository

import (
	"context"

	"github.com/socialguillotine/backend/domain"
)

type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*domain.Group, error)
	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	MemberIDs(ctx context.Context, groupID string) ([]string, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}
