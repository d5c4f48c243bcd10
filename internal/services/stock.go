package service

import (
	"context"
	"log/slog"

	"github.com/junimomarket/junimo-market/internal/cache"
	"github.com/junimomarket/junimo-market/internal/catalog"
)

// StockService separates two stock reads with different trust levels: a
// display estimate that tolerates gateway failures by falling back to the
// last known figure, and a commit-gating check that is always live and
// fails closed.
type StockService struct {
	catalog catalog.Client
	cache   cache.Cache
}

func NewStockService(catalogClient catalog.Client, cacheClient cache.Cache) *StockService {
	return &StockService{catalog: catalogClient, cache: cacheClient}
}

// CurrentStock is the display-path read. On a successful gateway read the
// figure is cached as the fallback for the next transient failure. The
// returned value must never authorize a stock-decreasing commit.
func (s *StockService) CurrentStock(ctx context.Context, code string) int {

	stock, err := s.liveStock(ctx, code)
	if err != nil {

		var cached int

		found, cacheErr := s.cache.Get(ctx, cache.Key(cache.StockKeyPrefix, code), &cached)
		if cacheErr != nil || !found {
			slog.Warn("Stock read failed with no cached fallback",
				slog.String("product", code), slog.String("error", err.Error()))
			return 0
		}

		return cached
	}

	if cacheErr := s.cache.Set(ctx, cache.Key(cache.StockKeyPrefix, code), stock, 0); cacheErr != nil {
		slog.Debug("Failed to cache stock snapshot",
			slog.String("product", code), slog.String("error", cacheErr.Error()))
	}

	return stock
}

// CheckAvailable is the commit-gating check: a live read with no fallback.
// A gateway failure is returned as an error so the caller can refuse the
// mutation rather than trust a stale figure.
func (s *StockService) CheckAvailable(ctx context.Context, code string, desiredQty int) (bool, error) {

	stock, err := s.liveStock(ctx, code)
	if err != nil {
		return false, err
	}

	return desiredQty <= stock, nil
}

func (s *StockService) liveStock(ctx context.Context, code string) (int, error) {

	product, err := s.catalog.GetProduct(ctx, code)
	if err != nil {
		return 0, err
	}

	return product.CurrentStock(), nil
}

// AvailableForDisplay is the local arithmetic behind UI affordances such
// as disabling the quantity stepper. Not a correctness gate.
func AvailableForDisplay(stock, inCart int) int {

	available := stock - inCart
	if available < 0 {
		return 0
	}

	return available
}
