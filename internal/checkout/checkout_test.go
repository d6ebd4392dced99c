package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"nook-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func int64p(v int64) *int64 { return &v }

var (
	coffee = model.Product{ID: "1", Name: "Coffee", Price: 200, DiscountPrice: int64p(180), Stock: 50, Category: "Drinks"}
	apple  = model.Product{ID: "2", Name: "Apple", Price: 500, Stock: 20, Category: "Fruit"}
)

type staticCredentials model.InvoiceCredentials

func (c staticCredentials) InvoiceCredentials() model.InvoiceCredentials {
	return model.InvoiceCredentials(c)
}

type issuerFunc func(ctx context.Context, creds model.InvoiceCredentials, amount int64) (string, error)

func (f issuerFunc) IssueInvoice(ctx context.Context, creds model.InvoiceCredentials, amount int64) (string, error) {
	return f(ctx, creds, amount)
}

type recordingLedger struct {
	mu      sync.Mutex
	applied []model.Transaction
	members []string
	err     error
}

func (l *recordingLedger) Apply(_ context.Context, memberID string, txn model.Transaction) (*model.Member, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return nil, l.err
	}
	l.applied = append(l.applied, txn)
	l.members = append(l.members, memberID)
	return &model.Member{ID: memberID, Points: 10 + txn.Total/100, History: []model.Transaction{txn}}, nil
}

func (l *recordingLedger) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.applied)
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func noCredentials() CredentialsSource { return staticCredentials{} }

func withCredentials() CredentialsSource { return staticCredentials{ApiKey: "key", ApiSecret: "secret"} }

func unusedIssuer(t *testing.T) InvoiceIssuer {
	return issuerFunc(func(context.Context, model.InvoiceCredentials, int64) (string, error) {
		t.Error("invoice service must not be called without credentials")
		return "", nil
	})
}

func scenarioOrder(memberID string) Order {
	items := []model.CartItem{
		{Product: coffee, Quantity: 2},
		{Product: apple, Quantity: 1},
	}
	return Order{
		Items:    items,
		Totals:   model.Totals{Subtotal: 900, DiscountTotal: 40, FinalTotal: 860},
		MemberID: memberID,
	}
}

func awaitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("settlement did not finish")
		return Outcome{}
	}
}

func TestLocalInvoiceGenerator_DistinctUnderFixedClock(t *testing.T) {
	g := NewLocalInvoiceGenerator(fixedClock())

	first := g.Next()
	second := g.Next()

	assert.NotEqual(t, first, second)
	assert.Regexp(t, `^NK-\d{6}$`, first)
	assert.Regexp(t, `^NK-\d{6}$`, second)
}

func TestSettle_LocalInvoiceWithoutCredentials(t *testing.T) {
	ledger := &recordingLedger{}
	o := NewOrchestrator(unusedIssuer(t), noCredentials(), ledger, time.Second, zap.NewNop(), WithClock(fixedClock()))

	first, err := o.Settle(context.Background(), scenarioOrder(""))
	require.NoError(t, err)
	second, err := o.Settle(context.Background(), scenarioOrder(""))
	require.NoError(t, err)

	assert.Equal(t, InvoiceLocal, first.InvoiceSource)
	assert.NotEqual(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, "2024/03/01 09:30:00", first.Transaction.Date)
}

func TestSettle_BuildsTransactionFromTotals(t *testing.T) {
	o := NewOrchestrator(unusedIssuer(t), noCredentials(), &recordingLedger{}, time.Second, zap.NewNop())

	s, err := o.Settle(context.Background(), scenarioOrder(""))
	require.NoError(t, err)

	txn := s.Transaction
	assert.Equal(t, int64(860), txn.Total)
	assert.Equal(t, int64(900), txn.OriginalTotal)
	assert.Equal(t, int64(40), txn.DiscountAmount)
	require.Len(t, txn.Items, 2)
	assert.Equal(t, int64(2), txn.Items[0].Quantity)
}

func TestSettle_ExternalInvoice(t *testing.T) {
	var gotAmount int64
	issuer := issuerFunc(func(_ context.Context, creds model.InvoiceCredentials, amount int64) (string, error) {
		assert.Equal(t, "key", creds.ApiKey)
		gotAmount = amount
		return "AB-12345678", nil
	})
	o := NewOrchestrator(issuer, withCredentials(), &recordingLedger{}, time.Second, zap.NewNop())

	s, err := o.Settle(context.Background(), scenarioOrder(""))
	require.NoError(t, err)

	assert.Equal(t, "AB-12345678", s.Transaction.ID)
	assert.Equal(t, InvoiceExternal, s.InvoiceSource)
	assert.Equal(t, int64(860), gotAmount)
}

func TestSettle_ExternalFailureFallsBackToLocal(t *testing.T) {
	issuer := issuerFunc(func(context.Context, model.InvoiceCredentials, int64) (string, error) {
		return "", errors.New("connection refused")
	})
	o := NewOrchestrator(issuer, withCredentials(), &recordingLedger{}, time.Second, zap.NewNop())

	s, err := o.Settle(context.Background(), scenarioOrder(""))
	require.NoError(t, err)

	assert.Equal(t, InvoiceLocal, s.InvoiceSource)
	assert.Regexp(t, `^NK-\d{6}$`, s.Transaction.ID)
}

func TestSettle_ExternalTimeoutFallsBackToLocal(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	// ignores ctx on purpose
	issuer := issuerFunc(func(context.Context, model.InvoiceCredentials, int64) (string, error) {
		<-release
		return "AB-late", nil
	})
	o := NewOrchestrator(issuer, withCredentials(), &recordingLedger{}, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	s, err := o.Settle(context.Background(), scenarioOrder(""))
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, InvoiceLocal, s.InvoiceSource)
}

func TestSettle_WithoutMemberSkipsLedger(t *testing.T) {
	ledger := &recordingLedger{}
	o := NewOrchestrator(unusedIssuer(t), noCredentials(), ledger, time.Second, zap.NewNop())

	s, err := o.Settle(context.Background(), scenarioOrder(""))
	require.NoError(t, err)

	assert.Nil(t, s.Member)
	assert.Equal(t, 0, ledger.calls())
}

func TestSettle_WithMemberAppliesLedger(t *testing.T) {
	ledger := &recordingLedger{}
	o := NewOrchestrator(unusedIssuer(t), noCredentials(), ledger, time.Second, zap.NewNop())

	s, err := o.Settle(context.Background(), scenarioOrder("m1"))
	require.NoError(t, err)

	require.Equal(t, 1, ledger.calls())
	assert.Equal(t, "m1", ledger.members[0])
	assert.Equal(t, s.Transaction, ledger.applied[0])
	require.NotNil(t, s.Member)
	assert.Equal(t, s.Transaction.ID, s.Member.History[0].ID)
}

func TestSettle_LedgerErrorIsReturned(t *testing.T) {
	ledger := &recordingLedger{err: errors.New("db down")}
	o := NewOrchestrator(unusedIssuer(t), noCredentials(), ledger, time.Second, zap.NewNop())

	_, err := o.Settle(context.Background(), scenarioOrder("m1"))
	assert.EqualError(t, err, "db down")
}

func TestSettle_EmptyOrder(t *testing.T) {
	o := NewOrchestrator(unusedIssuer(t), noCredentials(), &recordingLedger{}, time.Second, zap.NewNop())

	_, err := o.Settle(context.Background(), Order{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSettle_CancelledDuringInvoiceAborts(t *testing.T) {
	started := make(chan struct{})
	issuer := issuerFunc(func(ctx context.Context, _ model.InvoiceCredentials, _ int64) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	ledger := &recordingLedger{}
	o := NewOrchestrator(issuer, withCredentials(), ledger, time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := o.Settle(ctx, scenarioOrder("m1"))
	assert.ErrorIs(t, err, ErrCheckoutAborted)
	assert.Equal(t, 0, ledger.calls())
}

// blockingLedger waits for the settlement to be cancelled, then fails the way
// a store call does under a cancelled context.
type blockingLedger struct {
	entered chan struct{}
}

func (l *blockingLedger) Apply(ctx context.Context, memberID string, _ model.Transaction) (*model.Member, error) {
	close(l.entered)
	<-ctx.Done()
	return nil, fmt.Errorf("find member %s: %w", memberID, ctx.Err())
}

func TestSettle_CancelledDuringLedgerAborts(t *testing.T) {
	ledger := &blockingLedger{entered: make(chan struct{})}
	o := NewOrchestrator(unusedIssuer(t), noCredentials(), ledger, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-ledger.entered
		cancel()
	}()

	_, err := o.Settle(ctx, scenarioOrder("m1"))
	assert.ErrorIs(t, err, ErrCheckoutAborted)
}

func TestState_Text(t *testing.T) {
	text, err := StateConfirmPending.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "CONFIRM_PENDING", string(text))

	var s State
	require.NoError(t, s.UnmarshalText([]byte("PROCESSING")))
	assert.Equal(t, StateProcessing, s)
	assert.Error(t, s.UnmarshalText([]byte("SHIPPED")))
}
