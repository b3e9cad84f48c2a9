package models

import "time"

const (
	// Wish text limits, applied to the trimmed text at submission time.
	MinWishLength = 5
	MaxWishLength = 100
)

// PresetName is a registered participant allowed to submit one wish.
type PresetName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Wish is a single participant's submitted entry. The name is copied at
// submission time, not a reference to a PresetName. Wishes are never
// mutated after creation.
type Wish struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"wish"`
	CreatedAt time.Time `json:"createdAt"`
}

// NameStatus is a preset name together with its submission state.
type NameStatus struct {
	PresetName
	Submitted bool `json:"submitted"`
}

// Stats summarizes the wishlist for the admin view.
type Stats struct {
	Names     int `json:"names"`
	Submitted int `json:"submitted"`
	Pending   int `json:"pending"`
}

// DeletionOutcome reports what a committed destructive operation removed.
type DeletionOutcome struct {
	DeletedNames  int `json:"deleted_names"`
	DeletedWishes int `json:"deleted_wishes"`
}

// NameCreateRequest is the payload for adding a single preset name.
type NameCreateRequest struct {
	Name string `json:"name"`
}

// WishCreateRequest is the payload for the wish submission flow.
type WishCreateRequest struct {
	NameID string `json:"name_id"`
	Text   string `json:"text"`
}
