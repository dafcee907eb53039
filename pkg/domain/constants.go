package domain

// Bundle keys of a persisted screen record.
const (
	// KeyScreenName holds the ScreenTag of the current screen.
	KeyScreenName = "screen_name"

	// KeyPost holds the Dog payload. Present only when the tag is DETAIL.
	KeyPost = "post"
)
