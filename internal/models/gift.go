package models

// GiftItem represents a wish-list entry owned by one member of one group.
//
// Claim state invariant: ClaimerID is non-empty iff IsClaimed is true, and
// ClaimerID is never the owner's ID. Both fields are always updated together
// under a conditional write so two members cannot both claim the same item.
type GiftItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// GroupID is the group this item belongs to.
	GroupID string `json:"groupId"`

	// OwnerID is the member whose wish list contains this item.
	OwnerID string `json:"ownerId"`

	// Name is the item name (e.g., "Bike").
	Name string `json:"name"`

	// Description is an optional free-text note.
	Description string `json:"description,omitempty"`

	// Link is an optional URL to the product page.
	Link string `json:"link,omitempty"`

	// IsClaimed reports whether another member has reserved this item.
	IsClaimed bool `json:"isClaimed"`

	// ClaimerID is the member who claimed the item; empty when unclaimed.
	ClaimerID string `json:"claimerId,omitempty"`

	// CreatedAt is the Unix timestamp when the item was added.
	CreatedAt int64 `json:"createdAt"`
}
