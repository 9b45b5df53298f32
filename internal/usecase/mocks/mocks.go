package mocks

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
)

// PeriodStore is an in-memory PeriodRepository.
type PeriodStore struct {
	mu      sync.RWMutex
	periods map[domain.YearMonth]*domain.Period

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, period *domain.Period) error
	UpdateFunc  func(ctx context.Context, tx usecase.Transaction, period *domain.Period, expectedVersion int64) error
	ListAllFunc func(ctx context.Context) ([]*domain.Period, error)
}

func NewPeriodStore(periods ...*domain.Period) *PeriodStore {
	s := &PeriodStore{periods: make(map[domain.YearMonth]*domain.Period)}
	for _, p := range periods {
		s.periods[p.Key] = clonePeriod(p)
	}
	return s
}

func (s *PeriodStore) Create(ctx context.Context, tx usecase.Transaction, period *domain.Period) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, tx, period)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[period.Key]; ok {
		return domain.ErrPeriodExists
	}
	s.periods[period.Key] = clonePeriod(period)
	return nil
}

func (s *PeriodStore) Update(ctx context.Context, tx usecase.Transaction, period *domain.Period, expectedVersion int64) error {
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, tx, period, expectedVersion)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.periods[period.Key]
	if !ok {
		return domain.ErrPeriodNotFound
	}
	if existing.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	s.periods[period.Key] = clonePeriod(period)
	return nil
}

func (s *PeriodStore) GetByKey(ctx context.Context, key domain.YearMonth) (*domain.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.periods[key]; ok {
		return clonePeriod(p), nil
	}
	return nil, domain.ErrPeriodNotFound
}

func (s *PeriodStore) GetByKeyForUpdate(ctx context.Context, tx usecase.Transaction, key domain.YearMonth) (*domain.Period, error) {
	return s.GetByKey(ctx, key)
}

func (s *PeriodStore) ListAll(ctx context.Context) ([]*domain.Period, error) {
	if s.ListAllFunc != nil {
		return s.ListAllFunc(ctx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Period, 0, len(s.periods))
	for _, p := range s.periods {
		out = append(out, clonePeriod(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Before(out[j].Key) })
	return out, nil
}

func (s *PeriodStore) Delete(ctx context.Context, tx usecase.Transaction, key domain.YearMonth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[key]; !ok {
		return domain.ErrPeriodNotFound
	}
	delete(s.periods, key)
	return nil
}

func clonePeriod(p *domain.Period) *domain.Period {
	c := *p
	c.Shares = slices.Clone(p.Shares)
	c.Charges = slices.Clone(p.Charges)
	return &c
}

// HolderStore is an in-memory HolderRepository.
type HolderStore struct {
	mu      sync.RWMutex
	holders map[string]*domain.Holder

	CreateFunc func(ctx context.Context, holder *domain.Holder) error
}

func NewHolderStore(holders ...*domain.Holder) *HolderStore {
	s := &HolderStore{holders: make(map[string]*domain.Holder)}
	for _, h := range holders {
		c := *h
		s.holders[h.ID] = &c
	}
	return s
}

func (s *HolderStore) Create(ctx context.Context, holder *domain.Holder) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, holder)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *holder
	s.holders[holder.ID] = &c
	return nil
}

func (s *HolderStore) GetByID(ctx context.Context, id string) (*domain.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.holders[id]; ok {
		c := *h
		return &c, nil
	}
	return nil, domain.ErrHolderNotFound
}

func (s *HolderStore) GetByName(ctx context.Context, name string) (*domain.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.holders {
		if strings.EqualFold(h.Name, name) {
			c := *h
			return &c, nil
		}
	}
	return nil, domain.ErrHolderNotFound
}

func (s *HolderStore) List(ctx context.Context, activeOnly bool) ([]*domain.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Holder, 0, len(s.holders))
	for _, h := range s.holders {
		if activeOnly && !h.Active {
			continue
		}
		c := *h
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *HolderStore) Update(ctx context.Context, holder *domain.Holder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holders[holder.ID]; !ok {
		return domain.ErrHolderNotFound
	}
	c := *holder
	s.holders[holder.ID] = &c
	return nil
}

// FakeTransaction records whether it was committed or rolled back.
type FakeTransaction struct {
	mu         sync.Mutex
	committed  bool
	rolledBack bool
}

func (t *FakeTransaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.committed = true
	return nil
}

func (t *FakeTransaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *FakeTransaction) Committed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

func (t *FakeTransaction) RolledBack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rolledBack
}

// FakeTxManager hands out FakeTransactions and keeps them for inspection.
type FakeTxManager struct {
	mu  sync.Mutex
	txs []*FakeTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewFakeTxManager() *FakeTxManager {
	return &FakeTxManager{}
}

func (m *FakeTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &FakeTransaction{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

func (m *FakeTxManager) Transactions() []*FakeTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.txs)
}

// SequenceIDGenerator returns prefix-1, prefix-2, ...
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	return &SequenceIDGenerator{prefix: prefix}
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// MemoryCache is an in-memory Cache that ignores TTLs.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.entries[key]; ok {
		return slices.Clone(v), nil
	}
	return nil, usecase.ErrCacheMiss
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = slices.Clone(value)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *MemoryCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// NoRetry runs the operation once.
type NoRetry struct{}

func (NoRetry) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// RecordingObserver stores the last values passed to a CalculationObserver.
type RecordingObserver struct {
	mu               sync.Mutex
	Replays          int
	LastPeriods      int
	LastRecomputed   int
	Adjustments      int
	OutstandingCount int
	OutstandingTotal float64
}

func (o *RecordingObserver) ObserveReplay(periods, recomputed int, duration time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Replays++
	o.LastPeriods = periods
	o.LastRecomputed = recomputed
}

func (o *RecordingObserver) ObserveRoundingAdjustments(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Adjustments += count
}

func (o *RecordingObserver) SetOutstandingCarryForward(holders int, total float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.OutstandingCount = holders
	o.OutstandingTotal = total
}

var (
	_ usecase.PeriodRepository    = (*PeriodStore)(nil)
	_ usecase.HolderRepository    = (*HolderStore)(nil)
	_ usecase.TransactionManager  = (*FakeTxManager)(nil)
	_ usecase.IDGenerator         = (*SequenceIDGenerator)(nil)
	_ usecase.Cache               = (*MemoryCache)(nil)
	_ usecase.Retrier             = NoRetry{}
	_ usecase.CalculationObserver = (*RecordingObserver)(nil)
)
