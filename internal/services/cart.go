package service

import (
	"context"
	"log/slog"

	"github.com/junimomarket/junimo-market/internal/cartstore"
	"github.com/junimomarket/junimo-market/internal/catalog"
	"github.com/junimomarket/junimo-market/internal/errors"
	"github.com/junimomarket/junimo-market/internal/models"
)

// CartService mutates the cart under the stock-reconciliation guard: no
// quantity-increasing mutation commits without a live stock confirmation
// for the post-mutation quantity.
type CartService struct {
	store   *cartstore.Store
	stock   *StockService
	catalog catalog.Client
}

func NewCartService(store *cartstore.Store, stock *StockService, catalogClient catalog.Client) *CartService {
	return &CartService{store: store, stock: stock, catalog: catalogClient}
}

func (s *CartService) GetCart(ctx context.Context, cartKey string) []models.CartLine {
	return s.store.Get(ctx, cartKey)
}

func (s *CartService) TotalItems(ctx context.Context, cartKey string) int {
	return models.TotalItems(s.store.Get(ctx, cartKey))
}

// AddToCart inserts a new line or increments an existing one. The stock
// check runs against the post-increment quantity; on failure the cart is
// left exactly as it was.
func (s *CartService) AddToCart(ctx context.Context, cartKey, productCode string, quantity int) ([]models.CartLine, error) {

	if quantity < 1 {
		return nil, errors.ValidationError("Quantity must be at least 1")
	}

	product, err := s.catalog.GetProduct(ctx, productCode)
	if err != nil {
		return nil, err
	}

	lines := s.store.Get(ctx, cartKey)

	existing := -1
	desiredQty := quantity

	for i := range lines {
		if lines[i].Code == productCode {
			existing = i
			desiredQty = lines[i].Quantity + quantity

			break
		}
	}

	available, err := s.stock.CheckAvailable(ctx, productCode, desiredQty)
	if err != nil {
		return nil, err
	}

	if !available {
		return nil, errors.InsufficientStockError(productCode)
	}

	if existing >= 0 {
		lines[existing].Quantity = desiredQty
		lines[existing].StockSnapshot = product.CurrentStock()
	} else {
		lines = append(lines, models.NewCartLine(product, quantity))
	}

	if err := s.store.Save(ctx, cartKey, lines); err != nil {
		return nil, errors.InternalError("Failed to save cart").WithError(err)
	}

	return lines, nil
}

// UpdateQuantity sets a line to an absolute quantity. Values below one are
// rejected; removal is an explicit delete, never a zero-quantity line.
func (s *CartService) UpdateQuantity(ctx context.Context, cartKey, productCode string, newQuantity int) ([]models.CartLine, error) {

	if newQuantity < 1 {
		return nil, errors.ValidationError("Quantity must be at least 1")
	}

	lines := s.store.Get(ctx, cartKey)

	existing := -1

	for i := range lines {
		if lines[i].Code == productCode {
			existing = i
			break
		}
	}

	if existing < 0 {
		return nil, errors.NotFoundError("Product not in cart").WithDetail(productCode)
	}

	// Verified against the absolute new quantity, not the delta.
	available, err := s.stock.CheckAvailable(ctx, productCode, newQuantity)
	if err != nil {
		return nil, err
	}

	if !available {
		return nil, errors.InsufficientStockError(productCode)
	}

	lines[existing].Quantity = newQuantity

	if err := s.store.Save(ctx, cartKey, lines); err != nil {
		return nil, errors.InternalError("Failed to save cart").WithError(err)
	}

	return lines, nil
}

// RemoveItem drops a line unconditionally. Removing a product that is not
// in the cart is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, cartKey, productCode string) ([]models.CartLine, error) {

	lines := s.store.Get(ctx, cartKey)

	updated := make([]models.CartLine, 0, len(lines))

	for _, line := range lines {
		if line.Code != productCode {
			updated = append(updated, line)
		}
	}

	if err := s.store.Save(ctx, cartKey, updated); err != nil {
		return nil, errors.InternalError("Failed to save cart").WithError(err)
	}

	return updated, nil
}

func (s *CartService) EmptyCart(ctx context.Context, cartKey string) error {

	if err := s.store.Clear(ctx, cartKey); err != nil {
		return errors.InternalError("Failed to clear cart").WithError(err)
	}

	return nil
}

// RefreshProducts re-reads every line's product from the catalog and
// re-applies current pricing while keeping quantities. A line whose
// product lookup fails is kept as it was rather than dropped.
func (s *CartService) RefreshProducts(ctx context.Context, cartKey string) ([]models.CartLine, error) {

	lines := s.store.Get(ctx, cartKey)

	updated := make([]models.CartLine, 0, len(lines))

	for _, line := range lines {

		product, err := s.catalog.GetProduct(ctx, line.Code)
		if err != nil {
			slog.Warn("Keeping stale cart line after failed product refresh",
				slog.String("product", line.Code), slog.String("error", err.Error()))
			updated = append(updated, line)

			continue
		}

		updated = append(updated, models.NewCartLine(product, line.Quantity))
	}

	if err := s.store.Save(ctx, cartKey, updated); err != nil {
		return nil, errors.InternalError("Failed to save cart").WithError(err)
	}

	return updated, nil
}
