package bundle

import (
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrKeyNotFound is returned by required lookups when the key is absent.
	ErrKeyNotFound = errors.New("bundle: key not found")

	// ErrWrongKind is returned when a key holds a value of a different kind.
	ErrWrongKind = errors.New("bundle: wrong value kind")
)

// Kind identifies the type of a stored value.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindOpaque Kind = "opaque" // nested bundle written by a Parcelable
)

// Value is a single entry of a Bundle.
type Value struct {
	Kind   Kind    `json:"kind"`
	String string  `json:"string,omitempty"`
	Int    int64   `json:"int,omitempty"`
	Opaque *Bundle `json:"opaque,omitempty"`
}

// Parcelable is implemented by payloads that can write themselves into a Bundle.
type Parcelable interface {
	WriteBundle(b *Bundle)
}

// Unparcelable is implemented by payloads that can be rebuilt from a Bundle.
type Unparcelable interface {
	ReadBundle(b *Bundle) error
}

// Bundle is an ordered mapping from string keys to a small set of value kinds.
// Insertion order is preserved, including across JSON round trips.
// A Bundle is not safe for concurrent use.
type Bundle struct {
	entries *orderedmap.OrderedMap[string, Value]
}

// New creates an empty Bundle.
func New() *Bundle {
	return &Bundle{entries: orderedmap.New[string, Value]()}
}

func (b *Bundle) init() {
	if b.entries == nil {
		b.entries = orderedmap.New[string, Value]()
	}
}

// PutString stores a string under key, replacing any previous value.
func (b *Bundle) PutString(key, value string) {
	b.init()
	b.entries.Set(key, Value{Kind: KindString, String: value})
}

// PutInt stores an integer under key.
func (b *Bundle) PutInt(key string, value int64) {
	b.init()
	b.entries.Set(key, Value{Kind: KindInt, Int: value})
}

// PutOpaque lets p serialize itself into a nested bundle stored under key.
func (b *Bundle) PutOpaque(key string, p Parcelable) {
	b.init()
	child := New()
	p.WriteBundle(child)
	b.entries.Set(key, Value{Kind: KindOpaque, Opaque: child})
}

// GetString returns the string stored under key.
// It fails with ErrKeyNotFound or ErrWrongKind instead of returning a default.
func (b *Bundle) GetString(key string) (string, error) {
	v, err := b.lookup(key, KindString)
	if err != nil {
		return "", err
	}
	return v.String, nil
}

// GetInt returns the integer stored under key.
func (b *Bundle) GetInt(key string) (int64, error) {
	v, err := b.lookup(key, KindInt)
	if err != nil {
		return 0, err
	}
	return v.Int, nil
}

// GetOpaque rebuilds into from the nested bundle stored under key.
func (b *Bundle) GetOpaque(key string, into Unparcelable) error {
	v, err := b.lookup(key, KindOpaque)
	if err != nil {
		return err
	}
	child := v.Opaque
	if child == nil {
		child = New()
	}
	if err := into.ReadBundle(child); err != nil {
		return fmt.Errorf("bundle: read %q: %w", key, err)
	}
	return nil
}

func (b *Bundle) lookup(key string, want Kind) (Value, error) {
	if b == nil || b.entries == nil {
		return Value{}, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	v, ok := b.entries.Get(key)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	if v.Kind != want {
		return Value{}, fmt.Errorf("%w: %q is %s, want %s", ErrWrongKind, key, v.Kind, want)
	}
	return v, nil
}

// Contains reports whether key is present.
func (b *Bundle) Contains(key string) bool {
	if b == nil || b.entries == nil {
		return false
	}
	_, ok := b.entries.Get(key)
	return ok
}

// Remove deletes key. It is a no-op when the key is absent.
func (b *Bundle) Remove(key string) {
	if b == nil || b.entries == nil {
		return
	}
	b.entries.Delete(key)
}

// Keys returns the keys in insertion order.
func (b *Bundle) Keys() []string {
	if b == nil || b.entries == nil {
		return nil
	}
	keys := make([]string, 0, b.entries.Len())
	for pair := b.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of entries.
func (b *Bundle) Len() int {
	if b == nil || b.entries == nil {
		return 0
	}
	return b.entries.Len()
}

// IsEmpty reports whether the bundle holds no entries.
func (b *Bundle) IsEmpty() bool {
	return b.Len() == 0
}

// Clone returns a deep copy. Nested bundles are copied too.
func (b *Bundle) Clone() *Bundle {
	out := New()
	if b == nil || b.entries == nil {
		return out
	}
	for pair := b.entries.Oldest(); pair != nil; pair = pair.Next() {
		v := pair.Value
		if v.Opaque != nil {
			v.Opaque = v.Opaque.Clone()
		}
		out.entries.Set(pair.Key, v)
	}
	return out
}

// MarshalJSON encodes the bundle as a JSON object in insertion order.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	if b == nil || b.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b.entries)
}

// UnmarshalJSON decodes a JSON object produced by MarshalJSON.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	if b == nil {
		return fmt.Errorf("bundle: UnmarshalJSON on nil pointer")
	}
	entries := orderedmap.New[string, Value]()
	if string(data) != "null" {
		if err := json.Unmarshal(data, entries); err != nil {
			return fmt.Errorf("bundle: %w", err)
		}
	}
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Value.Kind {
		case KindString, KindInt, KindOpaque:
		default:
			return fmt.Errorf("bundle: key %q has unknown kind %q", pair.Key, pair.Value.Kind)
		}
	}
	b.entries = entries
	return nil
}

// Equal reports whether two bundles hold the same entries in the same order.
func Equal(a, b *Bundle) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	pa, pb := a.entries.Oldest(), b.entries.Oldest()
	for pa != nil && pb != nil {
		if pa.Key != pb.Key {
			return false
		}
		va, vb := pa.Value, pb.Value
		if va.Kind != vb.Kind || va.String != vb.String || va.Int != vb.Int {
			return false
		}
		if (va.Opaque != nil || vb.Opaque != nil) && !Equal(va.Opaque, vb.Opaque) {
			return false
		}
		pa, pb = pa.Next(), pb.Next()
	}
	return true
}
