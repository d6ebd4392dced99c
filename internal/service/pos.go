package service

import (
	"context"
	"time"

	"nook-pos/internal/checkout"
	"nook-pos/internal/loyalty"
	"nook-pos/internal/model"
	"nook-pos/internal/repository"

	"go.uber.org/zap"
)

// Receipt is what the till shows once a checkout settles.
type Receipt struct {
	Transaction   model.Transaction      `json:"transaction"`
	Session       checkout.Snapshot      `json:"session"`
	InvoiceSource checkout.InvoiceSource `json:"invoiceSource"`
	PointsEarned  int64                  `json:"pointsEarned"`
	Member        *MemberView            `json:"member,omitempty"`
}

// PosService drives till sessions. Products and members are looked up in the
// store and snapshotted into the session.
type PosService interface {
	OpenSession() checkout.Snapshot
	GetSession(sessionID string) (checkout.Snapshot, error)
	CloseSession(sessionID string) error

	AddItem(ctx context.Context, sessionID, productID string) (checkout.Snapshot, error)
	RemoveItem(sessionID, productID string) (checkout.Snapshot, error)
	ChangeQuantity(sessionID, productID string, delta int64) (checkout.Snapshot, error)
	AttachMember(ctx context.Context, sessionID, memberID string) (checkout.Snapshot, error)
	DetachMember(sessionID string) (checkout.Snapshot, error)

	RequestCheckout(sessionID string) (checkout.Snapshot, error)
	CancelCheckout(sessionID string) (checkout.Snapshot, error)
	Confirm(ctx context.Context, sessionID string) (*Receipt, error)
	AbortCheckout(sessionID string) (checkout.Snapshot, error)
	DismissReceipt(sessionID string) (checkout.Snapshot, error)
}

type posServiceImpl struct {
	manager     *checkout.Manager
	productRepo repository.ProductRepository
	memberRepo  repository.MemberRepository
	confirmWait time.Duration
	logger      *zap.Logger
}

func NewPosService(
	manager *checkout.Manager,
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	confirmWait time.Duration,
	logger *zap.Logger,
) PosService {
	return &posServiceImpl{
		manager:     manager,
		productRepo: productRepo,
		memberRepo:  memberRepo,
		confirmWait: confirmWait,
		logger:      logger,
	}
}

func (s *posServiceImpl) OpenSession() checkout.Snapshot {
	return s.manager.Open().Snapshot()
}

func (s *posServiceImpl) GetSession(sessionID string) (checkout.Snapshot, error) {
	return s.withSession(sessionID, func(*checkout.Session) error { return nil })
}

func (s *posServiceImpl) CloseSession(sessionID string) error {
	return s.manager.Close(sessionID)
}

func (s *posServiceImpl) AddItem(ctx context.Context, sessionID, productID string) (checkout.Snapshot, error) {
	session, err := s.manager.Get(sessionID)
	if err != nil {
		return checkout.Snapshot{}, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	if _, err := session.AddItem(*product); err != nil {
		return checkout.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *posServiceImpl) RemoveItem(sessionID, productID string) (checkout.Snapshot, error) {
	return s.withSession(sessionID, func(session *checkout.Session) error {
		_, err := session.RemoveItem(productID)
		return err
	})
}

func (s *posServiceImpl) ChangeQuantity(sessionID, productID string, delta int64) (checkout.Snapshot, error) {
	return s.withSession(sessionID, func(session *checkout.Session) error {
		_, err := session.ChangeQuantity(productID, delta)
		return err
	})
}

func (s *posServiceImpl) AttachMember(ctx context.Context, sessionID, memberID string) (checkout.Snapshot, error) {
	session, err := s.manager.Get(sessionID)
	if err != nil {
		return checkout.Snapshot{}, err
	}

	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return checkout.Snapshot{}, err
	}

	ref := checkout.MemberRef{ID: member.ID, Name: member.Name, Phone: member.Phone, Points: member.Points}
	if err := session.AttachMember(ref); err != nil {
		return checkout.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *posServiceImpl) DetachMember(sessionID string) (checkout.Snapshot, error) {
	return s.withSession(sessionID, (*checkout.Session).DetachMember)
}

func (s *posServiceImpl) RequestCheckout(sessionID string) (checkout.Snapshot, error) {
	return s.withSession(sessionID, (*checkout.Session).RequestCheckout)
}

func (s *posServiceImpl) CancelCheckout(sessionID string) (checkout.Snapshot, error) {
	return s.withSession(sessionID, (*checkout.Session).CancelCheckout)
}

// Confirm starts the settlement and waits for it. If the request goes away or
// the wait runs out first, the settlement keeps running and the caller gets
// ErrSettlementPending; the session snapshot shows the result later.
func (s *posServiceImpl) Confirm(ctx context.Context, sessionID string) (*Receipt, error) {
	session, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}

	ch, err := session.Confirm(ctx)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.confirmWait)
	defer timer.Stop()

	select {
	case out := <-ch:
		if out.Err != nil {
			return nil, out.Err
		}
		return s.receipt(session, out.Settlement), nil
	case <-ctx.Done():
		return nil, ErrSettlementPending
	case <-timer.C:
		s.logger.Warn("confirm wait elapsed, settlement continues", zap.String("session_id", sessionID))
		return nil, ErrSettlementPending
	}
}

func (s *posServiceImpl) AbortCheckout(sessionID string) (checkout.Snapshot, error) {
	session, err := s.manager.Get(sessionID)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	if !session.Abort() {
		return checkout.Snapshot{}, checkout.ErrInvalidTransition
	}
	return session.Snapshot(), nil
}

func (s *posServiceImpl) DismissReceipt(sessionID string) (checkout.Snapshot, error) {
	return s.withSession(sessionID, (*checkout.Session).DismissReceipt)
}

func (s *posServiceImpl) withSession(sessionID string, fn func(*checkout.Session) error) (checkout.Snapshot, error) {
	session, err := s.manager.Get(sessionID)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	if err := fn(session); err != nil {
		return checkout.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *posServiceImpl) receipt(session *checkout.Session, settlement *checkout.Settlement) *Receipt {
	r := &Receipt{
		Transaction:   settlement.Transaction,
		Session:       session.Snapshot(),
		InvoiceSource: settlement.InvoiceSource,
	}
	if settlement.Member != nil {
		r.Member = newMemberView(settlement.Member)
		r.PointsEarned = loyalty.PointsEarned(settlement.Transaction.Total)
	}
	return r
}
