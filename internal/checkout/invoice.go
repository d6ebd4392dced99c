package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nook-pos/internal/model"
)

// LocalInvoicePrefix marks invoice numbers synthesized without the external service.
const LocalInvoicePrefix = "NK-"

type InvoiceSource string

const (
	InvoiceExternal InvoiceSource = "external"
	InvoiceLocal    InvoiceSource = "local"
)

type InvoiceIssuer interface {
	IssueInvoice(ctx context.Context, creds model.InvoiceCredentials, amount int64) (string, error)
}

type CredentialsSource interface {
	InvoiceCredentials() model.InvoiceCredentials
}

// LocalInvoiceGenerator derives ids from the millisecond clock. The clock
// value is forced to be strictly increasing so consecutive ids never repeat.
type LocalInvoiceGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewLocalInvoiceGenerator(now func() time.Time) *LocalInvoiceGenerator {
	if now == nil {
		now = time.Now
	}
	return &LocalInvoiceGenerator{now: now}
}

func (g *LocalInvoiceGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return fmt.Sprintf("%s%06d", LocalInvoicePrefix, ms%1_000_000)
}
