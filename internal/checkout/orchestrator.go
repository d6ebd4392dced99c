package checkout

import (
	"context"
	"errors"
	"time"

	"nook-pos/internal/model"

	"go.uber.org/zap"
)

// MemberLedger credits a settled transaction to a member.
type MemberLedger interface {
	Apply(ctx context.Context, memberID string, txn model.Transaction) (*model.Member, error)
}

// Order is the frozen input of a settlement, captured when processing starts.
type Order struct {
	Items    []model.CartItem
	Totals   model.Totals
	MemberID string
}

type Settlement struct {
	Transaction   model.Transaction
	Member        *model.Member // nil when no member was attached
	InvoiceSource InvoiceSource
}

type Orchestrator struct {
	issuer         InvoiceIssuer
	credentials    CredentialsSource
	ledger         MemberLedger
	local          *LocalInvoiceGenerator
	invoiceTimeout time.Duration
	now            func() time.Time
	logger         *zap.Logger
}

type OrchestratorOption func(*Orchestrator)

func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
		o.local = NewLocalInvoiceGenerator(now)
	}
}

func NewOrchestrator(
	issuer InvoiceIssuer,
	credentials CredentialsSource,
	ledger MemberLedger,
	invoiceTimeout time.Duration,
	logger *zap.Logger,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		issuer:         issuer,
		credentials:    credentials,
		ledger:         ledger,
		local:          NewLocalInvoiceGenerator(time.Now),
		invoiceTimeout: invoiceTimeout,
		now:            time.Now,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Settle acquires an invoice number, builds the transaction and credits the
// attached member, in that order. It only fails when ctx is cancelled before
// the transaction exists or when the member update fails.
func (o *Orchestrator) Settle(ctx context.Context, order Order) (*Settlement, error) {
	if len(order.Items) == 0 {
		return nil, ErrEmptyCart
	}

	invoiceID, source, err := o.acquireInvoice(ctx, order.Totals.FinalTotal)
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, ErrCheckoutAborted
	}

	txn := BuildTransaction(invoiceID, o.now(), order)
	settlement := &Settlement{Transaction: txn, InvoiceSource: source}

	if order.MemberID != "" {
		member, err := o.ledger.Apply(ctx, order.MemberID, txn)
		if err != nil {
			o.logger.Error("member ledger update failed",
				zap.String("invoice_id", txn.ID),
				zap.String("member_id", order.MemberID),
				zap.Error(err))
			if ctx.Err() != nil {
				return nil, ErrCheckoutAborted
			}
			return nil, err
		}
		settlement.Member = member
	}

	o.logger.Info("checkout settled",
		zap.String("invoice_id", txn.ID),
		zap.String("invoice_source", string(source)),
		zap.Int64("total", txn.Total),
		zap.Int64("discount", txn.DiscountAmount),
		zap.String("member_id", order.MemberID))

	return settlement, nil
}

func (o *Orchestrator) acquireInvoice(ctx context.Context, amount int64) (string, InvoiceSource, error) {
	creds := o.credentials.InvoiceCredentials()
	if !creds.Configured() {
		return o.local.Next(), InvoiceLocal, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, o.invoiceTimeout)
	defer cancel()

	type result struct {
		id  string
		err error
	}
	reply := make(chan result, 1)
	go func() {
		id, err := o.issuer.IssueInvoice(callCtx, creds, amount)
		reply <- result{id: id, err: err}
	}()

	var err error
	select {
	case res := <-reply:
		if res.err == nil && res.id != "" {
			return res.id, InvoiceExternal, nil
		}
		err = res.err
		if err == nil {
			err = errors.New("empty invoice number")
		}
	case <-callCtx.Done():
		err = callCtx.Err()
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return "", "", ErrCheckoutAborted
	}

	id := o.local.Next()
	o.logger.Warn("invoice service unavailable, using local invoice number",
		zap.String("invoice_id", id),
		zap.Int64("amount", amount),
		zap.Error(err))
	return id, InvoiceLocal, nil
}

// BuildTransaction freezes an order into an immutable transaction record.
func BuildTransaction(invoiceID string, at time.Time, order Order) model.Transaction {
	items := make([]model.CartItem, len(order.Items))
	copy(items, order.Items)

	return model.Transaction{
		ID:             invoiceID,
		Date:           at.Format(model.TransactionDateLayout),
		Items:          items,
		Total:          order.Totals.FinalTotal,
		OriginalTotal:  order.Totals.Subtotal,
		DiscountAmount: order.Totals.DiscountTotal,
	}
}
