package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"readverse/pkg/entitlement"
	"readverse/pkg/logger"
	"readverse/pkg/models"
	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/repo/persistent"
)

// memStore is an in-memory Store. Transaction snapshots every table and
// restores the snapshot when fn fails, mirroring a database rollback.
// Transactions are serialized the way row locks serialize them in postgres.
type memStore struct {
	mu *sync.Mutex

	wallets     map[string]entity.Wallet
	payments    []entity.Payment
	topups      map[string]entity.TopupRequest
	donations   []entity.Donation
	withdrawals map[string]entity.Withdrawal
	stories     map[string]string
	users       map[string]models.User
	profiles    map[string]string

	failSetRole error
	failPayment error
	seq         int
}

var _ persistent.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		mu:          &sync.Mutex{},
		wallets:     map[string]entity.Wallet{},
		topups:      map[string]entity.TopupRequest{},
		withdrawals: map[string]entity.Withdrawal{},
		stories:     map[string]string{},
		users:       map[string]models.User{},
		profiles:    map[string]string{},
	}
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard)
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) addUser(id string, role models.UserRole, vipUntil *time.Time) {
	s.users[id] = models.User{ID: id, Username: id, Role: role, VIPUntil: vipUntil, IsActive: true}
}

func (s *memStore) setBalance(userID string, balance int) {
	s.wallets[userID] = entity.Wallet{UserID: userID, Balance: balance}
}

func (s *memStore) balance(userID string) int {
	return s.wallets[userID].Balance
}

func (s *memStore) paymentsOf(userID string, kind entity.PaymentKind) []entity.Payment {
	var out []entity.Payment
	for _, p := range s.payments {
		if p.UserID == userID && p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func (s *memStore) Wallets() persistent.WalletRepository         { return memWallets{s} }
func (s *memStore) Payments() persistent.PaymentRepository       { return memPayments{s} }
func (s *memStore) Topups() persistent.TopupRepository           { return memTopups{s} }
func (s *memStore) Donations() persistent.DonationRepository     { return memDonations{s} }
func (s *memStore) Withdrawals() persistent.WithdrawalRepository { return memWithdrawals{s} }
func (s *memStore) Stories() persistent.StoryRepository          { return memStories{s} }
func (s *memStore) Users() entitlement.UserStore                 { return memUsers{s} }

func (s *memStore) Transaction(ctx context.Context, fn func(tx persistent.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		*s = snapshot
		return err
	}
	return nil
}

func (s *memStore) snapshot() memStore {
	cp := *s
	cp.wallets = copyMap(s.wallets)
	cp.topups = copyMap(s.topups)
	cp.withdrawals = copyMap(s.withdrawals)
	cp.stories = copyMap(s.stories)
	cp.users = copyMap(s.users)
	cp.profiles = copyMap(s.profiles)
	cp.payments = append([]entity.Payment(nil), s.payments...)
	cp.donations = append([]entity.Donation(nil), s.donations...)
	return cp
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type memWallets struct{ s *memStore }

func (r memWallets) GetOrCreate(ctx context.Context, userID string) (*entity.Wallet, error) {
	w, ok := r.s.wallets[userID]
	if !ok {
		w = entity.Wallet{UserID: userID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		r.s.wallets[userID] = w
	}
	return &w, nil
}

func (r memWallets) Credit(ctx context.Context, userID string, amount int) (*entity.Wallet, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}
	w, _ := r.GetOrCreate(ctx, userID)
	w.Balance += amount
	w.UpdatedAt = time.Now()
	r.s.wallets[userID] = *w
	return w, nil
}

func (r memWallets) Debit(ctx context.Context, userID string, amount int) (*entity.Wallet, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}
	w, _ := r.GetOrCreate(ctx, userID)
	if w.Balance < amount {
		return nil, &entity.InsufficientFundsError{Balance: w.Balance}
	}
	w.Balance -= amount
	w.UpdatedAt = time.Now()
	r.s.wallets[userID] = *w
	return w, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Create(ctx context.Context, p *entity.Payment) error {
	if r.s.failPayment != nil {
		return r.s.failPayment
	}
	p.ID = r.s.nextID("pay")
	p.CreatedAt = time.Now()
	r.s.payments = append(r.s.payments, *p)
	return nil
}

func (r memPayments) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for i := len(r.s.payments) - 1; i >= 0; i-- {
		if r.s.payments[i].UserID == userID {
			p := r.s.payments[i]
			out = append(out, &p)
		}
	}
	return page(out, limit, offset), nil
}

type memTopups struct{ s *memStore }

func (r memTopups) Create(ctx context.Context, req *entity.TopupRequest) error {
	req.ID = r.s.nextID("topup")
	req.CreatedAt = time.Now()
	r.s.topups[req.ID] = *req
	return nil
}

func (r memTopups) GetForUpdate(ctx context.Context, id string) (*entity.TopupRequest, error) {
	req, ok := r.s.topups[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &req, nil
}

func (r memTopups) MarkProcessed(ctx context.Context, req *entity.TopupRequest) error {
	current := r.s.topups[req.ID]
	if current.Status != entity.TopupStatusPending {
		return &entity.AlreadyProcessedError{Status: string(current.Status)}
	}
	r.s.topups[req.ID] = *req
	return nil
}

func (r memTopups) List(ctx context.Context, filter entity.TopupFilter, limit, offset int) ([]*entity.TopupRequest, error) {
	var out []*entity.TopupRequest
	for _, req := range r.s.topups {
		if filter.UserID != "" && req.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		req := req
		out = append(out, &req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

type memDonations struct{ s *memStore }

func (r memDonations) Create(ctx context.Context, d *entity.Donation) error {
	d.ID = r.s.nextID("donation")
	d.CreatedAt = time.Now()
	r.s.donations = append(r.s.donations, *d)
	return nil
}

type memWithdrawals struct{ s *memStore }

func (r memWithdrawals) Create(ctx context.Context, w *entity.Withdrawal) error {
	w.ID = r.s.nextID("withdrawal")
	w.CreatedAt = time.Now()
	r.s.withdrawals[w.ID] = *w
	return nil
}

func (r memWithdrawals) GetForUpdate(ctx context.Context, id string) (*entity.Withdrawal, error) {
	w, ok := r.s.withdrawals[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &w, nil
}

func (r memWithdrawals) UpdateStatus(ctx context.Context, w *entity.Withdrawal, from entity.WithdrawalStatus) error {
	if r.s.withdrawals[w.ID].Status != from {
		return &entity.AlreadyProcessedError{Status: string(r.s.withdrawals[w.ID].Status)}
	}
	r.s.withdrawals[w.ID] = *w
	return nil
}

func (r memWithdrawals) List(ctx context.Context, filter entity.WithdrawalFilter, limit, offset int) ([]*entity.Withdrawal, error) {
	var out []*entity.Withdrawal
	for _, w := range r.s.withdrawals {
		if filter.UserID != "" && w.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}
		w := w
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

type memStories struct{ s *memStore }

func (r memStories) GetStoryAuthor(ctx context.Context, storyID string) (string, error) {
	authorID, ok := r.s.stories[storyID]
	if !ok {
		return "", entity.ErrNotFound
	}
	return authorID, nil
}

type memUsers struct{ s *memStore }

func (r memUsers) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return nil, entitlement.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) SetUserRole(ctx context.Context, userID string, role entitlement.Role, vipUntil *time.Time) error {
	if r.s.failSetRole != nil {
		return r.s.failSetRole
	}
	u, ok := r.s.users[userID]
	if !ok {
		return entitlement.ErrUserNotFound
	}
	u.Role = models.UserRole(role)
	u.VIPUntil = vipUntil
	r.s.users[userID] = u
	return nil
}

func (r memUsers) CreateAuthorProfile(ctx context.Context, userID, penName string) error {
	if _, exists := r.s.profiles[userID]; !exists {
		r.s.profiles[userID] = penName
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
