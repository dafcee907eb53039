package domain

import "fmt"

// ScreenTag is the persisted discriminator of a Screen variant.
// The string values are written to checkpoints and must never change.
type ScreenTag string

const (
	TagHome   ScreenTag = "HOME"
	TagDetail ScreenTag = "DETAIL"
)

// ParseScreenTag validates a raw tag read from storage.
func ParseScreenTag(raw string) (ScreenTag, error) {
	switch tag := ScreenTag(raw); tag {
	case TagHome, TagDetail:
		return tag, nil
	default:
		return "", fmt.Errorf("unknown screen tag %q", raw)
	}
}

// String implements fmt.Stringer.
func (t ScreenTag) String() string {
	return string(t)
}

// Screen is a navigation destination.
// The set of variants is closed: only Home and Detail implement it.
type Screen interface {
	// Tag returns the discriminator used when the screen is persisted.
	Tag() ScreenTag

	screen()
}

// Home is the list screen. It carries no payload and is the root of the back stack.
type Home struct{}

// Detail shows a single dog.
type Detail struct {
	Dog Dog
}

func (Home) Tag() ScreenTag   { return TagHome }
func (Detail) Tag() ScreenTag { return TagDetail }

func (Home) screen()   {}
func (Detail) screen() {}

func (Home) String() string     { return "Home" }
func (d Detail) String() string { return fmt.Sprintf("Detail(%d)", d.Dog.ID) }

// IsHome reports whether s is the root screen.
func IsHome(s Screen) bool {
	_, ok := Normalize(s).(Home)
	return ok
}

// SameScreen reports whether a and b are the same variant with the same payload.
func SameScreen(a, b Screen) bool {
	a, b = Normalize(a), Normalize(b)
	switch av := a.(type) {
	case Home:
		_, ok := b.(Home)
		return ok
	case Detail:
		bv, ok := b.(Detail)
		return ok && av.Dog == bv.Dog
	default:
		return false
	}
}

// Normalize converts pointer variants to their value form.
// It returns nil for a nil Screen or a nil pointer variant.
func Normalize(s Screen) Screen {
	switch v := s.(type) {
	case *Home:
		if v == nil {
			return nil
		}
		return Home{}
	case *Detail:
		if v == nil {
			return nil
		}
		return *v
	default:
		return s
	}
}
