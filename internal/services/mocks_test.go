package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/junimomarket/junimo-market/internal/models"
	repository "github.com/junimomarket/junimo-market/internal/repositories"
	"github.com/stretchr/testify/mock"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetProduct(ctx context.Context, code string) (*models.Product, error) {
	args := m.Called(ctx, code)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockCatalog) ListOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockCatalog) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	args := m.Called(ctx, order)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

// memPersistence is an in-memory cart substrate with switchable failures.
type memPersistence struct {
	mu      sync.Mutex
	carts   map[string][]models.CartLine
	corrupt map[string]bool

	failLoad error
	failSave error
}

func newMemPersistence() *memPersistence {
	return &memPersistence{
		carts:   make(map[string][]models.CartLine),
		corrupt: make(map[string]bool),
	}
}

func (p *memPersistence) Load(_ context.Context, key string) ([]models.CartLine, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failLoad != nil {
		return nil, p.failLoad
	}

	if p.corrupt[key] {
		return nil, errors.New("unmarshal failure")
	}

	return append([]models.CartLine(nil), p.carts[key]...), nil
}

func (p *memPersistence) Save(_ context.Context, key string, lines []models.CartLine) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failSave != nil {
		return p.failSave
	}

	p.carts[key] = append([]models.CartLine(nil), lines...)

	return nil
}

func (p *memPersistence) Clear(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.carts, key)

	return nil
}

// memCache is a minimal in-memory cache.Cache.
type memCache struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.values[key]
	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(data, value)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.values[key] = data

	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)

	return nil
}

func (c *memCache) Close() error { return nil }

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) RecordAttempt(ctx context.Context, attempt *repository.SubmissionAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *mockJournal) MarkOutcome(ctx context.Context, id, status, errorCode string) error {
	args := m.Called(ctx, id, status, errorCode)
	return args.Error(0)
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []string
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, _ *models.User, order *models.Order, _ *models.Quote) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.orders = append(n.orders, order.Number)

	return nil
}

// fixedNumbers hands out a constant identifier.
type fixedNumbers struct {
	number string
}

func (f *fixedNumbers) Next(context.Context) string { return f.number }
