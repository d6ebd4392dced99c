package loyalty

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"nook-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errStale = errors.New("stale member")

type memoryStore struct {
	mu      sync.Mutex
	members map[string]model.Member
	writes  int
}

func newMemoryStore(members ...model.Member) *memoryStore {
	s := &memoryStore{members: make(map[string]model.Member)}
	for _, m := range members {
		s.members[m.ID] = m
	}
	return s
}

func (s *memoryStore) FindByID(_ context.Context, memberID string) (*model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok {
		return nil, fmt.Errorf("member %s not found", memberID)
	}
	m.History = append([]model.Transaction(nil), m.History...)
	return &m, nil
}

func (s *memoryStore) RecordPurchase(_ context.Context, expectedPoints int64, updated *model.Member, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.members[updated.ID]
	if current.Points != expectedPoints {
		return errStale
	}
	current.Points = updated.Points
	current.History = append([]model.Transaction{*txn}, current.History...)
	s.members[updated.ID] = current
	s.writes++
	return nil
}

func TestLedgerApply(t *testing.T) {
	store := newMemoryStore(model.Member{ID: "m1", Name: "Isabelle", Points: 1200})
	ledger := NewLedger(store, zap.NewNop())

	txn := model.Transaction{ID: "NK-123456", Total: 860, OriginalTotal: 900, DiscountAmount: 40}
	updated, err := ledger.Apply(context.Background(), "m1", txn)
	require.NoError(t, err)

	assert.Equal(t, int64(1208), updated.Points)
	require.Len(t, updated.History, 1)
	assert.Equal(t, "NK-123456", updated.History[0].ID)
	assert.Equal(t, "m1", updated.History[0].MemberID)

	stored, err := store.FindByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(1208), stored.Points)
	assert.Len(t, stored.History, 1)
}

func TestLedgerApply_UnknownMember(t *testing.T) {
	store := newMemoryStore()
	ledger := NewLedger(store, zap.NewNop())

	_, err := ledger.Apply(context.Background(), "ghost", model.Transaction{ID: "x", Total: 100})
	assert.Error(t, err)
	assert.Equal(t, 0, store.writes)
}

func TestLedgerApply_SerializesPerMember(t *testing.T) {
	store := newMemoryStore(model.Member{ID: "m1"}, model.Member{ID: "m2"})
	ledger := NewLedger(store, zap.NewNop())

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		for _, id := range []string{"m1", "m2"} {
			wg.Add(1)
			go func(id string, i int) {
				defer wg.Done()
				_, err := ledger.Apply(context.Background(), id, model.Transaction{ID: fmt.Sprintf("%s-%d", id, i), Total: 100})
				errs <- err
			}(id, i)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	for _, id := range []string{"m1", "m2"} {
		m, err := store.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, int64(n), m.Points)
		assert.Len(t, m.History, n)
	}
	assert.Empty(t, ledger.locks)
}
