package bundle_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int64
}

func (p point) WriteBundle(b *bundle.Bundle) {
	b.PutInt("x", p.X)
	b.PutInt("y", p.Y)
}

func (p *point) ReadBundle(b *bundle.Bundle) error {
	var err error
	if p.X, err = b.GetInt("x"); err != nil {
		return err
	}
	p.Y, err = b.GetInt("y")
	return err
}

func TestBundle_RequiredLookups(t *testing.T) {
	b := bundle.New()
	b.PutString("name", "rex")
	b.PutInt("age", 3)

	name, err := b.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "rex", name)

	age, err := b.GetInt("age")
	require.NoError(t, err)
	assert.Equal(t, int64(3), age)

	_, err = b.GetString("missing")
	assert.ErrorIs(t, err, bundle.ErrKeyNotFound)

	_, err = b.GetString("age")
	assert.ErrorIs(t, err, bundle.ErrWrongKind)
}

func TestBundle_NilIsEmpty(t *testing.T) {
	var b *bundle.Bundle
	assert.True(t, b.IsEmpty())
	assert.False(t, b.Contains("x"))

	_, err := b.GetString("x")
	assert.ErrorIs(t, err, bundle.ErrKeyNotFound)
}

func TestBundle_Opaque(t *testing.T) {
	b := bundle.New()
	b.PutOpaque("p", point{X: 1, Y: 2})

	var got point
	require.NoError(t, b.GetOpaque("p", &got))
	assert.Equal(t, point{X: 1, Y: 2}, got)

	err := b.GetOpaque("q", &got)
	assert.ErrorIs(t, err, bundle.ErrKeyNotFound)
}

func TestBundle_OpaqueReadFailureIsWrapped(t *testing.T) {
	b := bundle.New()
	b.PutOpaque("p", writerFunc(func(nb *bundle.Bundle) { nb.PutInt("x", 1) }))

	var got point
	err := b.GetOpaque("p", &got)
	require.Error(t, err)
	assert.ErrorIs(t, err, bundle.ErrKeyNotFound)
	assert.Contains(t, err.Error(), `"p"`)
}

type writerFunc func(*bundle.Bundle)

func (f writerFunc) WriteBundle(b *bundle.Bundle) { f(b) }

func TestBundle_JSONPreservesOrder(t *testing.T) {
	b := bundle.New()
	b.PutString("zeta", "z")
	b.PutInt("alpha", 7)
	b.PutOpaque("mid", point{X: 4, Y: 5})

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var restored bundle.Bundle
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, restored.Keys())
	assert.True(t, bundle.Equal(b, &restored))

	var p point
	require.NoError(t, restored.GetOpaque("mid", &p))
	assert.Equal(t, point{X: 4, Y: 5}, p)
}

func TestBundle_UnmarshalRejectsUnknownKind(t *testing.T) {
	var b bundle.Bundle
	err := json.Unmarshal([]byte(`{"k":{"kind":"float"}}`), &b)
	assert.Error(t, err)
}

func TestBundle_CloneIsDeep(t *testing.T) {
	b := bundle.New()
	b.PutOpaque("p", point{X: 1, Y: 1})

	c := b.Clone()
	c.PutString("extra", "yes")
	c.Remove("p")

	assert.True(t, b.Contains("p"))
	assert.False(t, b.Contains("extra"))
	assert.Equal(t, 1, c.Len())
}
