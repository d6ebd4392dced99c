package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nook-pos/internal/loyalty"
	"nook-pos/internal/model"
	"nook-pos/internal/repository"

	"github.com/google/uuid"
)

const joinDateLayout = "2006-01-02"

// MemberView is a member plus its derived tier.
type MemberView struct {
	*model.Member
	Tier loyalty.Tier `json:"tier"`
}

func newMemberView(m *model.Member) *MemberView {
	return &MemberView{Member: m, Tier: loyalty.TierFor(m.Points)}
}

type MemberService interface {
	List(ctx context.Context, search string) ([]*MemberView, error)
	Get(ctx context.Context, memberID string) (*MemberView, error)
	Register(ctx context.Context, name, phone string) (*MemberView, error)
}

type memberServiceImpl struct {
	memberRepo repository.MemberRepository
	now        func() time.Time
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberServiceImpl{
		memberRepo: memberRepo,
		now:        time.Now,
	}
}

func (s *memberServiceImpl) List(ctx context.Context, search string) ([]*MemberView, error) {
	members, err := s.memberRepo.List(ctx, search)
	if err != nil {
		return nil, err
	}

	views := make([]*MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, newMemberView(m))
	}
	return views, nil
}

func (s *memberServiceImpl) Get(ctx context.Context, memberID string) (*MemberView, error) {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return newMemberView(m), nil
}

func (s *memberServiceImpl) Register(ctx context.Context, name, phone string) (*MemberView, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, newValidationError("name and phone are required")
	}

	m := &model.Member{
		ID:       "m-" + uuid.NewString(),
		Name:     name,
		Phone:    phone,
		JoinDate: s.now().Format(joinDateLayout),
		History:  []model.Transaction{},
	}
	if err := s.memberRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return newMemberView(m), nil
}
