package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nook-pos/internal/cart"
	"nook-pos/internal/model"

	"go.uber.org/zap"
)

// Settler runs the settlement of a confirmed order.
type Settler interface {
	Settle(ctx context.Context, order Order) (*Settlement, error)
}

// MemberRef is the member selected at the till, as shown to the cashier.
type MemberRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Points int64  `json:"points"`
}

type Outcome struct {
	Settlement *Settlement
	Err        error
}

// Snapshot is a consistent read of a session.
type Snapshot struct {
	ID              string             `json:"id"`
	State           State              `json:"state"`
	Items           []model.CartItem   `json:"items"`
	Totals          model.Totals       `json:"totals"`
	Member          *MemberRef         `json:"member,omitempty"`
	LastTransaction *model.Transaction `json:"lastTransaction,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Session is one till's cart-to-receipt lifecycle. All methods are safe for
// concurrent use; each session has its own cart and lock.
type Session struct {
	id        string
	settler   Settler
	logger    *zap.Logger
	createdAt time.Time

	mu     sync.Mutex
	state  State
	cart   *cart.Cart
	member *MemberRef
	last   *model.Transaction
	cancel context.CancelFunc
}

func newSession(id string, settler Settler, logger *zap.Logger) *Session {
	return &Session{
		id:        id,
		settler:   settler,
		logger:    logger.With(zap.String("session_id", id)),
		createdAt: time.Now(),
		state:     StateIdle,
		cart:      cart.New(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) AddItem(p model.Product) (model.Totals, error) {
	return s.mutateCart(func(c *cart.Cart) (model.Totals, error) { return c.AddItem(p) })
}

func (s *Session) RemoveItem(productID string) (model.Totals, error) {
	return s.mutateCart(func(c *cart.Cart) (model.Totals, error) { return c.RemoveItem(productID), nil })
}

func (s *Session) ChangeQuantity(productID string, delta int64) (model.Totals, error) {
	return s.mutateCart(func(c *cart.Cart) (model.Totals, error) { return c.ChangeQuantity(productID, delta) })
}

func (s *Session) AttachMember(ref MemberRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.cartMutable() {
		return fmt.Errorf("%w: %s", ErrCartLocked, s.state)
	}
	s.member = &ref
	return nil
}

func (s *Session) DetachMember() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.cartMutable() {
		return fmt.Errorf("%w: %s", ErrCartLocked, s.state)
	}
	s.member = nil
	return nil
}

// RequestCheckout opens the confirmation step.
func (s *Session) RequestCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("%w: request checkout from %s", ErrInvalidTransition, s.state)
	}
	if s.cart.IsEmpty() {
		return ErrEmptyCart
	}
	s.state = StateConfirmPending
	return nil
}

func (s *Session) CancelCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfirmPending {
		return fmt.Errorf("%w: cancel checkout from %s", ErrInvalidTransition, s.state)
	}
	s.state = StateIdle
	return nil
}

// Confirm freezes the cart and starts the settlement in the background. The
// returned channel receives exactly one Outcome. Cancelling ctx does not stop
// the settlement; use Abort for that.
func (s *Session) Confirm(ctx context.Context) (<-chan Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateConfirmPending:
	case StateProcessing:
		return nil, ErrCheckoutInProgress
	default:
		return nil, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, s.state)
	}
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	order := Order{
		Items:  s.cart.Items(),
		Totals: s.cart.Totals(),
	}
	if s.member != nil {
		order.MemberID = s.member.ID
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.state = StateProcessing

	out := make(chan Outcome, 1)
	go s.settle(runCtx, cancel, order, out)

	return out, nil
}

func (s *Session) settle(ctx context.Context, cancel context.CancelFunc, order Order, out chan<- Outcome) {
	defer cancel()

	settlement, err := s.settler.Settle(ctx, order)

	s.mu.Lock()
	s.cancel = nil
	if err != nil {
		s.state = StateIdle
		s.mu.Unlock()

		s.logger.Warn("checkout did not complete", zap.Error(err))
		out <- Outcome{Err: err}
		return
	}

	txn := settlement.Transaction
	s.last = &txn
	s.cart.Clear()
	s.member = nil
	s.state = StateCompleted
	s.mu.Unlock()

	out <- Outcome{Settlement: settlement}
}

// Abort cancels an in-flight settlement. It reports whether one was running.
func (s *Session) Abort() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

// DismissReceipt returns a completed session to Idle.
func (s *Session) DismissReceipt() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCompleted {
		return fmt.Errorf("%w: dismiss receipt from %s", ErrInvalidTransition, s.state)
	}
	s.last = nil
	s.state = StateIdle
	return nil
}

func (s *Session) mutateCart(fn func(c *cart.Cart) (model.Totals, error)) (model.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.cartMutable() {
		return model.Totals{}, fmt.Errorf("%w: %s", ErrCartLocked, s.state)
	}
	return fn(s.cart)
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		Items:     s.cart.Items(),
		Totals:    s.cart.Totals(),
		CreatedAt: s.createdAt,
	}
	if s.member != nil {
		m := *s.member
		snap.Member = &m
	}
	if s.last != nil {
		txn := *s.last
		snap.LastTransaction = &txn
	}
	return snap
}
