package service

import (
	"context"
	"testing"
	"time"

	"obazaar/internal/domain"
	"obazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEarning(t *testing.T, txs *fakeTransactionStore, walletID uint, amountCents int64, availableAt time.Time) *models.WalletTransaction {
	t.Helper()
	row := &models.WalletTransaction{
		WalletID:    walletID,
		Type:        domain.TxTypeEarning,
		AmountCents: amountCents,
		Status:      domain.TxStatusCompleted,
		AvailableAt: &availableAt,
	}
	require.NoError(t, txs.Create(context.Background(), row))
	return row
}

func TestProcessScheduledReleases_MovesMaturedFunds(t *testing.T) {
	wallets := newFakeWalletStore()
	txs := newFakeTransactionStore()
	events := &fakePublisher{}
	svc := NewReleaseService(&fakeTxManager{}, wallets, txs, events)

	w := wallets.add(&models.Wallet{TenantID: 1, PendingBalanceCents: 5000, IsActive: true})
	seedEarning(t, txs, w.ID, 3000, time.Now().Add(-time.Hour))
	seedEarning(t, txs, w.ID, 2000, time.Now().Add(48*time.Hour)) // still on hold

	released, err := svc.ProcessScheduledReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	got, _ := wallets.GetByID(context.Background(), w.ID)
	assert.Equal(t, int64(3000), got.AvailableBalanceCents)
	assert.Equal(t, int64(2000), got.PendingBalanceCents)

	releases := txs.byType(domain.TxTypeHoldRelease)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(3000), releases[0].AmountCents)
	assert.Len(t, events.byType("funds.released"), 1)
}

func TestProcessScheduledReleases_SecondRunIsNoOp(t *testing.T) {
	wallets := newFakeWalletStore()
	txs := newFakeTransactionStore()
	svc := NewReleaseService(&fakeTxManager{}, wallets, txs, &fakePublisher{})

	w := wallets.add(&models.Wallet{TenantID: 1, PendingBalanceCents: 3000, IsActive: true})
	seedEarning(t, txs, w.ID, 3000, time.Now().Add(-time.Minute))

	released, err := svc.ProcessScheduledReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	released, err = svc.ProcessScheduledReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, released)

	got, _ := wallets.GetByID(context.Background(), w.ID)
	assert.Equal(t, int64(3000), got.AvailableBalanceCents)
	assert.Len(t, txs.byType(domain.TxTypeHoldRelease), 1)
}

// rivalClaimStore stamps every row it hands out right after FindReleasable
// returns, simulating a second scheduler run winning the row in the window
// between the find and this run's guarded stamp.
type rivalClaimStore struct {
	*fakeTransactionStore
}

func (s *rivalClaimStore) FindReleasable(ctx context.Context, now time.Time, limit int) ([]models.WalletTransaction, error) {
	rows, err := s.fakeTransactionStore.FindReleasable(ctx, now, limit)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, err := s.fakeTransactionStore.MarkReleased(ctx, row.ID, now); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func TestProcessScheduledReleases_RowClaimedBetweenFindAndStamp(t *testing.T) {
	wallets := newFakeWalletStore()
	txs := &rivalClaimStore{fakeTransactionStore: newFakeTransactionStore()}
	events := &fakePublisher{}
	svc := NewReleaseService(&fakeTxManager{}, wallets, txs, events)

	w := wallets.add(&models.Wallet{TenantID: 1, PendingBalanceCents: 1000, IsActive: true})
	seedEarning(t, txs.fakeTransactionStore, w.ID, 1000, time.Now().Add(-time.Minute))

	released, err := svc.ProcessScheduledReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Empty(t, events.byType("funds.released"))

	got, _ := wallets.GetByID(context.Background(), w.ID)
	assert.Equal(t, int64(0), got.AvailableBalanceCents)
	assert.Equal(t, int64(1000), got.PendingBalanceCents)
}

func TestProcessScheduledReleases_AlreadyStampedRowIsSkipped(t *testing.T) {
	wallets := newFakeWalletStore()
	txs := newFakeTransactionStore()
	svc := NewReleaseService(&fakeTxManager{}, wallets, txs, &fakePublisher{})

	w := wallets.add(&models.Wallet{TenantID: 1, PendingBalanceCents: 1000, IsActive: true})
	row := seedEarning(t, txs, w.ID, 1000, time.Now().Add(-time.Minute))

	// Another scheduler run claims the row between FindReleasable and the
	// guarded stamp.
	ok, err := txs.MarkReleased(context.Background(), row.ID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	released, err := svc.ProcessScheduledReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, released)

	got, _ := wallets.GetByID(context.Background(), w.ID)
	assert.Equal(t, int64(0), got.AvailableBalanceCents)
	assert.Equal(t, int64(1000), got.PendingBalanceCents)
}
