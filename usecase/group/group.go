package group

import (
	"context"
	"crypto/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

const inviteCodeLength = 6

// Letters and digits that are hard to misread when shared out loud.
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

type UseCase struct {
	groups repository.GroupRepository
	stats  repository.StatsRepository
	logger *zap.Logger
}

func New(groups repository.GroupRepository, statsRepo repository.StatsRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		groups: groups,
		stats:  statsRepo,
		logger: logger,
	}
}

// Create makes a group with a fresh invite code and the creator as first member.
func (uc *UseCase) Create(ctx context.Context, creatorID, name string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if creatorID == "" || name == "" {
		return nil, domain.ErrInvalidPayload
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, err
	}

	created, err := uc.groups.Create(ctx, &domain.Group{
		Name:       name,
		InviteCode: code,
		CreatedBy:  creatorID,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.groups.AddMember(ctx, created.ID, creatorID); err != nil {
		return nil, err
	}
	return created, nil
}

// Join adds the user to the group behind the invite code.
func (uc *UseCase) Join(ctx context.Context, userID, inviteCode string) (*domain.Group, error) {
	group, err := uc.groups.GetByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(inviteCode)))
	if err != nil {
		return nil, err
	}
	if err := uc.groups.AddMember(ctx, group.ID, userID); err != nil {
		return nil, err
	}
	return group, nil
}

// Rankings returns the group leaderboard. Only members may look at it.
func (uc *UseCase) Rankings(ctx context.Context, groupID, requesterID string, limit int) ([]domain.RankingEntry, error) {
	member, err := uc.groups.IsMember(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.NewError(domain.ErrCodeForbidden, "not a group member")
	}

	memberIDs, err := uc.groups.MemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(memberIDs) == 0 {
		return nil, nil
	}
	return uc.stats.Rankings(ctx, memberIDs, limit)
}

func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, inviteCodeLength)
	for i, b := range buf {
		code[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(code), nil
}
