package models

// JoinCodeLength is the number of characters in a group join code.
const JoinCodeLength = 6

// Group represents a gift circle that users join via a shareable code.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Family", "Office 2026").
	Name string `json:"name"`

	// Description is an optional blurb shown on the group page.
	Description string `json:"description,omitempty"`

	// JoinCode is the 6-character uppercase code members use to join.
	// Globally unique and immutable after creation.
	JoinCode string `json:"joinCode"`

	// CreatedBy is the ID of the user who created the group. The creator
	// is always a member and is the only one who may start the exchange.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`

	// HasGiftExchange reports whether the secret gift exchange has been
	// started. Flips false to true exactly once, together with the bulk
	// insert of assignments.
	HasGiftExchange bool `json:"hasGiftExchange"`
}

// Membership records that a user belongs to a group.
type Membership struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`

	// JoinedAt is the Unix timestamp when the user joined.
	JoinedAt int64 `json:"joinedAt"`
}
