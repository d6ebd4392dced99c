package loyalty

import (
	"context"
	"fmt"
	"sync"

	"nook-pos/internal/model"

	"go.uber.org/zap"
)

// MemberStore is the slice of the member repository the ledger needs.
type MemberStore interface {
	FindByID(ctx context.Context, memberID string) (*model.Member, error)
	// RecordPurchase persists updated.Points and txn, provided the stored
	// balance still equals expectedPoints.
	RecordPurchase(ctx context.Context, expectedPoints int64, updated *model.Member, txn *model.Transaction) error
}

// Ledger applies settled transactions to members, one member at a time.
type Ledger struct {
	store  MemberStore
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*memberLock
}

type memberLock struct {
	sync.Mutex
	refs int
}

func NewLedger(store MemberStore, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger,
		locks:  make(map[string]*memberLock),
	}
}

// Apply credits txn to the member and returns the updated member.
func (l *Ledger) Apply(ctx context.Context, memberID string, txn model.Transaction) (*model.Member, error) {
	unlock := l.lock(memberID)
	defer unlock()

	member, err := l.store.FindByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("find member %s: %w", memberID, err)
	}

	updated := ApplyTransaction(*member, txn)
	txn.MemberID = memberID

	if err := l.store.RecordPurchase(ctx, member.Points, &updated, &txn); err != nil {
		return nil, fmt.Errorf("record purchase for member %s: %w", memberID, err)
	}
	updated.History[0] = txn

	l.logger.Info("loyalty points earned",
		zap.String("member_id", memberID),
		zap.String("invoice_id", txn.ID),
		zap.Int64("points", updated.Points-member.Points),
		zap.Int64("new_balance", updated.Points))

	return &updated, nil
}

func (l *Ledger) lock(memberID string) func() {
	l.mu.Lock()
	ml, ok := l.locks[memberID]
	if !ok {
		ml = &memberLock{}
		l.locks[memberID] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.Lock()

	return func() {
		ml.Unlock()

		l.mu.Lock()
		ml.refs--
		if ml.refs == 0 {
			delete(l.locks, memberID)
		}
		l.mu.Unlock()
	}
}
