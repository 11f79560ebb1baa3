package repositories

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"sync"
)

// MemoryFuelStopStore keeps the catalog in a map and answers radius queries by
// scanning every stop. Suitable for tests and small catalogs.
type MemoryFuelStopStore struct {
	mu    sync.RWMutex
	stops map[int64]domain.FuelStop
}

func NewMemoryFuelStopStore(stops ...domain.FuelStop) *MemoryFuelStopStore {
	m := &MemoryFuelStopStore{stops: make(map[int64]domain.FuelStop, len(stops))}
	for _, s := range stops {
		m.stops[s.ID] = s
	}
	return m
}

func (m *MemoryFuelStopStore) FindCheapest(
	ctx context.Context,
	position domain.Coordinates,
	radiusMeters float64,
) (*domain.FuelStop, error) {
	if radiusMeters <= 0 {
		return nil, errors.New("find cheapest: radius must be > 0")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]domain.FuelStop, 0, len(m.stops))
	for _, s := range m.stops {
		all = append(all, s)
	}

	return pickCheapest(all, position, radiusMeters), nil
}

func (m *MemoryFuelStopStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int64]struct{})
	for _, id := range ids {
		if _, ok := m.stops[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (m *MemoryFuelStopStore) InsertMany(ctx context.Context, stops []domain.FuelStop) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range stops {
		if _, exists := m.stops[s.ID]; exists {
			return fmt.Errorf("insert fuel stops: stop %d already exists", s.ID)
		}
	}
	for _, s := range stops {
		m.stops[s.ID] = s
	}
	return nil
}

func (m *MemoryFuelStopStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stops), nil
}
