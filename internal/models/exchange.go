package models

// ExchangeAssignment pairs a giver with a receiver in a group's secret gift
// exchange. Assignments for a group are created in bulk, exactly once, as a
// derangement of the member set: every member gives to exactly one other
// member, every member receives from exactly one other member, and nobody is
// assigned to themselves.
type ExchangeAssignment struct {
	// ID is the unique identifier for the assignment (UUID format).
	ID string `json:"id"`

	// GroupID is the group the exchange belongs to.
	GroupID string `json:"groupId"`

	// GiverID is the member who gives a gift.
	GiverID string `json:"giverId"`

	// ReceiverID is the member GiverID gives to. Never equal to GiverID.
	ReceiverID string `json:"receiverId"`

	// CreatedAt is the Unix timestamp when the exchange was started.
	CreatedAt int64 `json:"createdAt"`
}
