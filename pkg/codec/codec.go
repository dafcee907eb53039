// Package codec maps navigation screens to and from checkpoint bundles.
//
// A screen is persisted as a flat record:
//
//	screen_name -> "HOME" | "DETAIL"
//	post        -> the Dog payload (DETAIL only)
//
// Decode either returns a complete Screen or a *domain.MalformedStateError;
// it never falls back to a default screen.
package codec

import (
	"fmt"

	"github.com/aretw0/pawtrail/pkg/bundle"
	"github.com/aretw0/pawtrail/pkg/domain"
)

// Encode writes screen into a new bundle. It cannot fail.
func Encode(screen domain.Screen) *bundle.Bundle {
	b := bundle.New()
	switch s := domain.Normalize(screen).(type) {
	case domain.Home:
		b.PutString(domain.KeyScreenName, domain.TagHome.String())
	case domain.Detail:
		b.PutString(domain.KeyScreenName, domain.TagDetail.String())
		b.PutOpaque(domain.KeyPost, s.Dog)
	default:
		// Screen is sealed; nil is the only other value.
		panic(fmt.Sprintf("codec: cannot encode screen %T", screen))
	}
	return b
}

// Decode rebuilds the screen stored in b.
func Decode(b *bundle.Bundle) (domain.Screen, error) {
	raw, err := b.GetString(domain.KeyScreenName)
	if err != nil {
		return nil, &domain.MalformedStateError{Key: domain.KeyScreenName, Reason: "missing screen tag", Err: err}
	}

	tag, err := domain.ParseScreenTag(raw)
	if err != nil {
		return nil, &domain.MalformedStateError{Key: domain.KeyScreenName, Reason: "unrecognized screen tag", Err: err}
	}

	switch tag {
	case domain.TagHome:
		return domain.Home{}, nil
	case domain.TagDetail:
		var dog domain.Dog
		if err := b.GetOpaque(domain.KeyPost, &dog); err != nil {
			return nil, &domain.MalformedStateError{Key: domain.KeyPost, Reason: "unreadable dog payload", Err: err}
		}
		return domain.Detail{Dog: dog}, nil
	}

	return nil, &domain.MalformedStateError{Key: domain.KeyScreenName, Reason: fmt.Sprintf("no decoder for tag %s", tag)}
}
