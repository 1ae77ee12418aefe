package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dairy-collection/internal/auth"
	"github.com/iliyamo/dairy-collection/internal/model"
	"github.com/iliyamo/dairy-collection/internal/queue"
	"github.com/iliyamo/dairy-collection/internal/repository"
)

type stubSuppliers struct{ items []*model.Supplier }

func (s *stubSuppliers) List(_ context.Context, activeOnly bool) ([]*model.Supplier, error) {
	return s.items, nil
}

type stubCollections struct {
	bySupplier map[uint64][]model.CollectionRecord
	err        map[uint64]error
}

func (s *stubCollections) List(_ context.Context, _ auth.Actor, f repository.CollectionFilter) ([]model.CollectionRecord, error) {
	if err := s.err[f.SupplierID]; err != nil {
		return nil, err
	}
	return s.bySupplier[f.SupplierID], nil
}

func supplier(id uint64, code, phone string) *model.Supplier {
	return &model.Supplier{ID: id, Code: code, FullName: "Supplier " + code, Phone: phone, IsActive: true}
}

func record(supplierID uint64, qty, total string) model.CollectionRecord {
	return model.CollectionRecord{
		SupplierID:     supplierID,
		CollectedOn:    "2026-08-25",
		QuantityLiters: decimal.RequireFromString(qty),
		TotalAmount:    decimal.RequireFromString(total),
	}
}

func TestRunDailyQueuesOnePerSupplierWithRecords(t *testing.T) {
	var sent []queue.OutboundSMS
	d := Deps{
		Suppliers: &stubSuppliers{items: []*model.Supplier{
			supplier(1, "SUP-001", "+919811111111"),
			supplier(2, "SUP-002", "+919822222222"),
			supplier(3, "SUP-003", "+919833333333"), // no pickups today
		}},
		Collections: &stubCollections{bySupplier: map[uint64][]model.CollectionRecord{
			1: {record(1, "120.50", "4217.50")},
			2: {record(2, "10.00", "350.00"), record(2, "5.00", "175.00")},
		}},
		Publish: func(_ context.Context, ev queue.OutboundSMS) error {
			sent = append(sent, ev)
			return nil
		},
	}

	statuses, err := RunDaily(context.Background(), d, "2026-08-25")
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, st := range statuses {
		assert.True(t, st.Queued)
		assert.NoError(t, st.Err)
	}
	require.Len(t, sent, 2)
	assert.Equal(t, "daily_summary", sent[0].Kind)
	assert.Contains(t, sent[0].Body, "120.50 L")
	assert.Contains(t, sent[0].Body, "4217.50")
	assert.Contains(t, sent[1].Body, "15.00 L")
}

func TestRunDailyContinuesPastFailures(t *testing.T) {
	var sent []queue.OutboundSMS
	boom := errors.New("broker down")
	d := Deps{
		Suppliers: &stubSuppliers{items: []*model.Supplier{
			supplier(1, "SUP-001", "+919811111111"),
			supplier(2, "SUP-002", "+919822222222"),
			supplier(3, "SUP-003", "+919833333333"),
		}},
		Collections: &stubCollections{bySupplier: map[uint64][]model.CollectionRecord{
			1: {record(1, "10", "350.00")},
			2: {record(2, "20", "700.00")},
			3: {record(3, "30", "1050.00")},
		}},
		Publish: func(_ context.Context, ev queue.OutboundSMS) error {
			if ev.Phone == "+919822222222" {
				return boom
			}
			sent = append(sent, ev)
			return nil
		},
	}

	statuses, err := RunDaily(context.Background(), d, "2026-08-25")
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	byPhone := map[string]Status{}
	for _, st := range statuses {
		byPhone[st.Phone] = st
	}
	assert.True(t, byPhone["+919811111111"].Queued)
	assert.True(t, byPhone["+919833333333"].Queued)
	assert.False(t, byPhone["+919822222222"].Queued)
	assert.ErrorIs(t, byPhone["+919822222222"].Err, boom)
	assert.Len(t, sent, 2, "failure of one recipient must not abort the rest")
}

func TestRunDailySkipsSuppliersWithoutPhone(t *testing.T) {
	d := Deps{
		Suppliers: &stubSuppliers{items: []*model.Supplier{
			{ID: 1, Code: "SUP-001", FullName: "No Phone", IsActive: true},
		}},
		Collections: &stubCollections{bySupplier: map[uint64][]model.CollectionRecord{
			1: {record(1, "10", "350.00")},
		}},
		Publish: func(_ context.Context, _ queue.OutboundSMS) error {
			t.Fatal("nothing should be published")
			return nil
		},
	}
	statuses, err := RunDaily(context.Background(), d, "2026-08-25")
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestRunDailyRecordsListErrorAndContinues(t *testing.T) {
	dbErr := errors.New("db timeout")
	var sent int
	d := Deps{
		Suppliers: &stubSuppliers{items: []*model.Supplier{
			supplier(1, "SUP-001", "+919811111111"),
			supplier(2, "SUP-002", "+919822222222"),
		}},
		Collections: &stubCollections{
			bySupplier: map[uint64][]model.CollectionRecord{2: {record(2, "20", "700.00")}},
			err:        map[uint64]error{1: dbErr},
		},
		Publish: func(_ context.Context, _ queue.OutboundSMS) error { sent++; return nil },
	}
	statuses, err := RunDaily(context.Background(), d, "2026-08-25")
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, 1, sent)
}
