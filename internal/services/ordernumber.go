package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/junimomarket/junimo-market/internal/catalog"
)

const orderNumberPrefix = "SO"

// OrderNumberStrategy produces order identifiers. Implementations must
// always return a usable, very-likely-unique value; an unreachable
// sequence source degrades the quality of the number, never blocks the
// checkout.
type OrderNumberStrategy interface {
	Next(ctx context.Context) string
}

// SequentialOrderNumbers scans the existing orders for the highest numeric
// suffix and returns max+1. When the scan fails it falls back to a
// timestamp+random identifier.
type SequentialOrderNumbers struct {
	catalog catalog.Client
	now     func() time.Time
}

func NewSequentialOrderNumbers(catalogClient catalog.Client) *SequentialOrderNumbers {
	return &SequentialOrderNumbers{catalog: catalogClient, now: time.Now}
}

func (s *SequentialOrderNumbers) Next(ctx context.Context) string {

	orders, err := s.catalog.ListOrders(ctx)
	if err != nil {
		slog.Warn("Order number sequence scan failed, using fallback identifier",
			slog.String("error", err.Error()))
		return s.fallback()
	}

	var highest int64

	for _, order := range orders {

		suffix, ok := strings.CutPrefix(order.Number, orderNumberPrefix)
		if !ok {
			continue
		}

		value, parseErr := strconv.ParseInt(suffix, 10, 64)
		if parseErr != nil {
			continue
		}

		if value > highest {
			highest = value
		}
	}

	return fmt.Sprintf("%s%06d", orderNumberPrefix, highest+1)
}

func (s *SequentialOrderNumbers) fallback() string {
	return fmt.Sprintf("%s%d%03d", orderNumberPrefix, s.now().UnixMilli(), rand.Intn(1000))
}
