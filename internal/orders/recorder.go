package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/b2b-portal/pkg/db"
	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
	"github.com/angelmondragon/b2b-portal/pkg/shopify"
)

const (
	defaultRecordTimeout = 5 * time.Second
	defaultCurrency      = "CLP"
)

// RecordInput carries what the pipeline knows once the order platform accepted the draft.
type RecordInput struct {
	CustomerEmail   string
	CustomerID      string
	DiscountPercent int
	PaymentMethod   enums.PaymentMethod
	EvidenceURL     string
	DraftOrder      *shopify.DraftOrder
}

// StepResult reports the outcome of writing the local record; it never fails the checkout.
type StepResult struct {
	OK       bool      `json:"ok"`
	RecordID uuid.UUID `json:"recordId,omitempty"`
	Err      error     `json:"-"`
}

// Error returns the failure message, if any.
func (r StepResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Recorder writes the local reporting copy of accepted draft orders.
type Recorder struct {
	repo    Repository
	timeout time.Duration
	logg    *logger.Logger
}

func NewRecorder(repo Repository, timeout time.Duration, logg *logger.Logger) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if timeout <= 0 {
		timeout = defaultRecordTimeout
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Recorder{repo: repo, timeout: timeout, logg: logg}, nil
}

// Record inserts one row per accepted draft order. It runs detached from request
// cancellation and is never retried.
func (r *Recorder) Record(ctx context.Context, in RecordInput) StepResult {
	record, err := BuildRecord(in)
	if err != nil {
		r.logg.WarnErr(ctx, "checkout.record.failed", err)
		return StepResult{Err: err}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.repo.Create(ctx, record); err != nil {
		if db.IsUniqueViolation(err, "") {
			err = fmt.Errorf("draft order %d already recorded: %w", record.RemoteOrderID, err)
		}
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"draft_order_id": record.RemoteOrderID,
			"customer_email": record.CustomerEmail,
		})
		r.logg.WarnErr(logCtx, "checkout.record.failed", err)
		return StepResult{Err: err}
	}
	return StepResult{OK: true, RecordID: record.ID}
}

// BuildRecord normalizes the accepted draft order into the row stored locally.
func BuildRecord(in RecordInput) (*models.OrderRecord, error) {
	if in.DraftOrder == nil || in.DraftOrder.ID <= 0 {
		return nil, fmt.Errorf("accepted draft order required")
	}
	email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	if email == "" {
		return nil, fmt.Errorf("customer email required")
	}

	currency := strings.TrimSpace(in.DraftOrder.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	record := &models.OrderRecord{
		ID:              uuid.New(),
		CustomerEmail:   email,
		CustomerID:      in.CustomerID,
		RemoteOrderID:   in.DraftOrder.ID,
		OrderNumber:     OrderNumber(in.DraftOrder.ID),
		Status:          enums.OrderStatusPending,
		TotalAmount:     in.DraftOrder.Total(),
		DiscountAmount:  in.DraftOrder.Discount(),
		DiscountPercent: in.DiscountPercent,
		Currency:        currency,
		PaymentMethod:   in.PaymentMethod,
	}
	if url := strings.TrimSpace(in.EvidenceURL); url != "" {
		record.EvidenceURL = &url
	}
	return record, nil
}

// OrderNumber is the customer-facing reference for a draft order.
func OrderNumber(remoteID int64) string {
	return fmt.Sprintf("D%d", remoteID)
}
