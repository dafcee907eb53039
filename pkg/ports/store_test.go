package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/aretw0/pawtrail/pkg/ports"
)

// MockStore is a map-backed StateStore used to exercise the contract itself.
type MockStore struct {
	data map[string]*bundle.Bundle
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*bundle.Bundle),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, state *bundle.Bundle) error {
	m.data[sessionID] = state.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*bundle.Bundle, error) {
	state, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestStateStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, NewMockStore())
}
