package service

import (
	"context"
	"sync"
	"time"

	"obazaar/internal/domain"
	"obazaar/internal/models"
)

// In-memory doubles for the port interfaces. They reproduce the guard
// semantics of the gorm repositories (conditional updates reporting whether
// a row was claimed) so the services' idempotency paths can be exercised
// without a database.

type fakeTxManager struct {
	failWith error
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.failWith != nil {
		return m.failWith
	}
	return fn(ctx)
}

type fakeWalletStore struct {
	mu      sync.Mutex
	wallets map[uint]*models.Wallet
	nextID  uint
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{wallets: make(map[uint]*models.Wallet), nextID: 1}
}

func (s *fakeWalletStore) add(w *models.Wallet) *models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.nextID
		s.nextID++
	}
	s.wallets[w.ID] = w
	return w
}

func (s *fakeWalletStore) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *fakeWalletStore) GetByTenantID(ctx context.Context, tenantID uint) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.TenantID == tenantID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (s *fakeWalletStore) Create(ctx context.Context, w *models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.wallets {
		if existing.TenantID == w.TenantID {
			return domain.ErrAlreadyExists
		}
	}
	w.ID = s.nextID
	s.nextID++
	s.wallets[w.ID] = w
	return nil
}

func (s *fakeWalletStore) CreditPending(ctx context.Context, walletID uint, amountCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	w.PendingBalanceCents += amountCents
	w.TotalEarningsCents += amountCents
	return nil
}

func (s *fakeWalletStore) ReleasePending(ctx context.Context, walletID uint, amountCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	w.PendingBalanceCents -= amountCents
	if w.PendingBalanceCents < 0 {
		w.PendingBalanceCents = 0 // mirrors the GREATEST(.., 0) clamp
	}
	w.AvailableBalanceCents += amountCents
	return nil
}

func (s *fakeWalletStore) ReserveAvailable(ctx context.Context, walletID uint, amountCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	if w.AvailableBalanceCents < amountCents {
		return domain.ErrInsufficientBalance
	}
	w.AvailableBalanceCents -= amountCents
	w.TotalWithdrawnCents += amountCents
	return nil
}

func (s *fakeWalletStore) AdjustAvailable(ctx context.Context, walletID uint, deltaCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	if deltaCents < 0 && w.AvailableBalanceCents < -deltaCents {
		return domain.ErrInsufficientBalance
	}
	w.AvailableBalanceCents += deltaCents
	return nil
}

func (s *fakeWalletStore) ListAll(ctx context.Context) ([]models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		out = append(out, *w)
	}
	return out, nil
}

type fakeTransactionStore struct {
	mu        sync.Mutex
	rows      []*models.WalletTransaction
	nextID    uint
	createErr error
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{nextID: 1}
}

func (s *fakeTransactionStore) Create(ctx context.Context, t *models.WalletTransaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	t.CreatedAt = time.Now()
	s.rows = append(s.rows, t)
	return nil
}

func (s *fakeTransactionStore) FindReleasable(ctx context.Context, now time.Time, limit int) ([]models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WalletTransaction
	for _, t := range s.rows {
		if t.Type != domain.TxTypeEarning || t.Status != domain.TxStatusCompleted {
			continue
		}
		if t.ReleasedAt != nil || t.AvailableAt == nil || t.AvailableAt.After(now) {
			continue
		}
		out = append(out, *t)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeTransactionStore) MarkReleased(ctx context.Context, id uint, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.rows {
		if t.ID == id {
			if t.ReleasedAt != nil {
				return false, nil
			}
			stamp := at
			t.ReleasedAt = &stamp
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeTransactionStore) ListByWallet(ctx context.Context, walletID uint, limit int) ([]models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WalletTransaction
	for _, t := range s.rows {
		if t.WalletID == walletID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTransactionStore) byType(txType string) []*models.WalletTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.WalletTransaction
	for _, t := range s.rows {
		if t.Type == txType {
			out = append(out, t)
		}
	}
	return out
}

type fakePayoutStore struct {
	mu      sync.Mutex
	payouts map[uint]*models.Payout
	nextID  uint
}

func newFakePayoutStore() *fakePayoutStore {
	return &fakePayoutStore{payouts: make(map[uint]*models.Payout), nextID: 1}
}

func (s *fakePayoutStore) Create(ctx context.Context, p *models.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.payouts[p.ID] = p
	return nil
}

func (s *fakePayoutStore) GetByID(ctx context.Context, id uint) (*models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	if !ok {
		return nil, domain.ErrPayoutNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePayoutStore) FindPending(ctx context.Context, method string) ([]models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Payout
	for _, p := range s.payouts {
		if p.Status == domain.PayoutStatusPending && p.Method == method {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePayoutStore) FindByStatus(ctx context.Context, status string) ([]models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Payout
	for _, p := range s.payouts {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePayoutStore) MarkProcessing(ctx context.Context, id uint, batchID, itemID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	if !ok || p.Status != domain.PayoutStatusPending {
		return domain.ErrPayoutNotFound
	}
	p.Status = domain.PayoutStatusProcessing
	p.PayPalBatchID = batchID
	p.PayPalItemID = itemID
	stamp := at
	p.ProcessedAt = &stamp
	return nil
}

func (s *fakePayoutStore) MarkFailed(ctx context.Context, id uint, reason string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	if !ok || p.Status != domain.PayoutStatusPending {
		return domain.ErrPayoutNotFound
	}
	p.Status = domain.PayoutStatusFailed
	p.FailureReason = reason
	stamp := at
	p.ProcessedAt = &stamp
	return nil
}

func (s *fakePayoutStore) ListOpenByWallet(ctx context.Context, walletID uint) ([]models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Payout
	for _, p := range s.payouts {
		if p.WalletID == walletID && (p.Status == domain.PayoutStatusPending || p.Status == domain.PayoutStatusProcessing) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[uint]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[uint]*models.Order)}
}

func (s *fakeOrderStore) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) Create(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = uint(len(s.orders) + 1)
	}
	s.orders[o.ID] = o
	return nil
}

func (s *fakeOrderStore) FindByPayPalOrderID(ctx context.Context, paypalOrderID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.PayPalOrderID == paypalOrderID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) MarkPaid(ctx context.Context, id uint, captureID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if o.PaymentStatus == domain.PaymentStatusCompleted {
		return false, nil
	}
	o.PaymentStatus = domain.PaymentStatusCompleted
	o.PayPalCaptureID = captureID
	return true, nil
}

func (s *fakeOrderStore) MarkEarningProcessed(ctx context.Context, id uint, commissionCents, earningCents int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if o.WalletTransactionProcessed {
		return false, nil
	}
	o.WalletTransactionProcessed = true
	o.PlatformCommissionCents = commissionCents
	o.VendorEarningCents = earningCents
	return true, nil
}

type fakeTenantStore struct {
	tenants map[uint]*models.Tenant
}

func (s *fakeTenantStore) GetByID(ctx context.Context, id uint) (*models.Tenant, error) {
	t, ok := s.tenants[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	cp := *t
	return &cp, nil
}

type publishedEvent struct {
	Type string
	Data interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Data: data})
}

func (p *fakePublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
