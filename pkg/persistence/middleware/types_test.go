package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/pawtrail/pkg/adapters/memory"
	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/aretw0/pawtrail/pkg/persistence/middleware"
	"github.com/aretw0/pawtrail/pkg/ports"
	"github.com/stretchr/testify/assert"
)

type tagStore struct {
	ports.StateStore
	name  string
	trace *[]string
}

func (s tagStore) Save(ctx context.Context, id string, b *bundle.Bundle) error {
	*s.trace = append(*s.trace, s.name)
	return s.StateStore.Save(ctx, id, b)
}

func TestChain_FirstIsOutermost(t *testing.T) {
	var trace []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.StateStore) ports.StateStore {
			return tagStore{StateStore: next, name: name, trace: &trace}
		}
	}

	store := middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	assert.NoError(t, store.Save(context.Background(), "s", bundle.New()))
	assert.Equal(t, []string{"outer", "inner"}, trace)
}
