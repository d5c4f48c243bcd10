// Package cartstore owns the durable cart state: an ordered line list per
// user, written as a whole collection, with change notifications on every
// mutation.
package cartstore

import (
	"context"
	"log/slog"

	"github.com/junimomarket/junimo-market/internal/models"
)

// Persistence is the durable key-value substrate behind the store. Any
// implementation that supports get-all/set-all per cart key works.
type Persistence interface {
	Load(ctx context.Context, key string) ([]models.CartLine, error)
	Save(ctx context.Context, key string, lines []models.CartLine) error
	Clear(ctx context.Context, key string) error
}

type Store struct {
	persistence Persistence
	bus         *Bus
}

func NewStore(persistence Persistence, bus *Bus) *Store {
	return &Store{persistence: persistence, bus: bus}
}

// Get never fails: corrupt or unreadable persisted state is treated as an
// empty cart, not a fatal error.
func (s *Store) Get(ctx context.Context, key string) []models.CartLine {

	lines, err := s.persistence.Load(ctx, key)
	if err != nil {
		slog.Warn("Discarding unreadable cart state", slog.String("cart", key), slog.String("error", err.Error()))
		return nil
	}

	return lines
}

// Save atomically replaces the persisted cart and notifies observers. The
// notification fires even when nobody subscribed.
func (s *Store) Save(ctx context.Context, key string, lines []models.CartLine) error {

	if err := s.persistence.Save(ctx, key, lines); err != nil {
		return err
	}

	s.bus.Publish(Event{Topic: TopicCartUpdated, CartKey: key})

	return nil
}

// Clear removes the persisted cart entirely and notifies observers.
func (s *Store) Clear(ctx context.Context, key string) error {

	if err := s.persistence.Clear(ctx, key); err != nil {
		return err
	}

	s.bus.Publish(Event{Topic: TopicCartUpdated, CartKey: key})

	return nil
}
