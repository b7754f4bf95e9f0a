package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

type groupRepository struct {
	db *DB
}

// NewGroupRepository returns an in-memory implementation of GroupRepository.
func NewGroupRepository(db *DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	group, ok := r.db.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	cp := *group
	return &cp, nil
}

func (r *groupRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, group := range r.db.groups {
		if group.InviteCode == code {
			cp := *group
			return &cp, nil
		}
	}
	return nil, domain.ErrGroupNotFound
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	if group == nil {
		return nil, domain.ErrInvalidPayload
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}
	cp := *group
	r.db.groups[group.ID] = &cp
	r.db.members[group.ID] = make(map[string]bool)
	return group, nil
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	members, ok := r.db.members[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	if members[userID] {
		return domain.ErrAlreadyMember
	}
	members[userID] = true
	return nil
}

func (r *groupRepository) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var ids []string
	for id := range r.db.members[groupID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.db.members[groupID][userID], nil
}
