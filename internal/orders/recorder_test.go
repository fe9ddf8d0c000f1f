package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/b2b-portal/pkg/db/dbtest"
	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
	"github.com/angelmondragon/b2b-portal/pkg/pagination"
	"github.com/angelmondragon/b2b-portal/pkg/shopify"
)

type failingRepo struct {
	err   error
	calls int
}

func (f *failingRepo) Create(ctx context.Context, record *models.OrderRecord) error {
	f.calls++
	return f.err
}

func (f *failingRepo) ListByEmail(ctx context.Context, email string, params listParams) ([]models.OrderRecord, *pagination.Cursor, error) {
	return nil, nil, f.err
}

func acceptedDraft(id int64) *shopify.DraftOrder {
	return &shopify.DraftOrder{
		ID:             id,
		Name:           "#D12",
		TotalPrice:     "16000.00",
		TotalDiscounts: "4000.00",
		Currency:       "CLP",
	}
}

func TestBuildRecordNormalizesDraftOrder(t *testing.T) {
	record, err := BuildRecord(RecordInput{
		CustomerEmail:   " Compras@LosAndes.CL ",
		CustomerID:      "7001",
		DiscountPercent: 20,
		PaymentMethod:   enums.PaymentMethodTransfer,
		EvidenceURL:     "https://storage.googleapis.com/bucket/comprobantes/a.pdf",
		DraftOrder:      acceptedDraft(991),
	})
	require.NoError(t, err)
	assert.Equal(t, "compras@losandes.cl", record.CustomerEmail)
	assert.Equal(t, "D991", record.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, record.Status)
	assert.True(t, record.TotalAmount.Equal(decimal.NewFromInt(16000)))
	assert.True(t, record.DiscountAmount.Equal(decimal.NewFromInt(4000)))
	require.NotNil(t, record.EvidenceURL)

	record, err = BuildRecord(RecordInput{CustomerEmail: "a@b.cl", DraftOrder: &shopify.DraftOrder{ID: 5}})
	require.NoError(t, err)
	assert.Nil(t, record.EvidenceURL)
	assert.Equal(t, "CLP", record.Currency)

	_, err = BuildRecord(RecordInput{CustomerEmail: "a@b.cl"})
	require.Error(t, err)
}

func TestRecorderPersistsOnce(t *testing.T) {
	db := dbtest.Open(t)
	recorder, err := NewRecorder(NewRepository(db), time.Second, nil)
	require.NoError(t, err)

	in := RecordInput{
		CustomerEmail:   "compras@losandes.cl",
		CustomerID:      "7001",
		DiscountPercent: 20,
		PaymentMethod:   enums.PaymentMethodCredit,
		DraftOrder:      acceptedDraft(1234),
	}
	res := recorder.Record(context.Background(), in)
	require.True(t, res.OK, res.Error())

	var stored models.OrderRecord
	require.NoError(t, db.First(&stored, "remote_order_id = ?", 1234).Error)
	assert.Equal(t, "D1234", stored.OrderNumber)
	assert.Equal(t, res.RecordID, stored.ID)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(16000)))

	dup := recorder.Record(context.Background(), in)
	assert.False(t, dup.OK)
	assert.Contains(t, dup.Error(), "already recorded")
}

func TestRecorderSurvivesCanceledRequest(t *testing.T) {
	db := dbtest.Open(t)
	recorder, err := NewRecorder(NewRepository(db), time.Second, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := recorder.Record(ctx, RecordInput{CustomerEmail: "a@b.cl", DraftOrder: acceptedDraft(77)})
	require.True(t, res.OK, res.Error())
}

func TestRecorderReportsRepositoryFailure(t *testing.T) {
	repo := &failingRepo{err: errors.New("connection refused")}
	recorder, err := NewRecorder(repo, 0, nil)
	require.NoError(t, err)

	res := recorder.Record(context.Background(), RecordInput{CustomerEmail: "a@b.cl", DraftOrder: acceptedDraft(1)})
	assert.False(t, res.OK)
	assert.EqualError(t, res.Err, "connection refused")
	assert.Equal(t, 1, repo.calls)
}
