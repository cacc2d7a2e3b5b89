package service

import "errors"

// Authorization and validation failures are distinguishable sentinels so the
// handler layer can map each to the right status and message instead of
// collapsing everything into a generic failure.
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrItemNotFound  = errors.New("gift item not found")

	// ErrInvalidJoinCode is returned when no group matches the join code.
	ErrInvalidJoinCode = errors.New("invalid join code")

	// ErrNotAMember gates every group-scoped read and mutation.
	ErrNotAMember = errors.New("not a member of this group")

	// ErrNotOwner is returned when someone other than the item's owner
	// tries to delete it.
	ErrNotOwner = errors.New("not authorized to modify this item")

	// ErrNotClaimer is returned when someone other than the current
	// claimer tries to unclaim an item.
	ErrNotClaimer = errors.New("item was not claimed by you")

	// ErrSelfClaim is returned when an owner tries to claim their own item.
	ErrSelfClaim = errors.New("cannot claim your own item")

	// ErrAlreadyClaimed is returned when claiming an item another member
	// got to first.
	ErrAlreadyClaimed = errors.New("item has already been claimed")

	// ErrNotCreator gates starting the exchange.
	ErrNotCreator = errors.New("only the group creator can start the exchange")

	// ErrExchangeStarted is returned when starting an exchange twice.
	ErrExchangeStarted = errors.New("gift exchange has already been started")

	// ErrExchangeNotStarted is returned when asking for an assignment
	// before the exchange exists.
	ErrExchangeNotStarted = errors.New("gift exchange has not been started")

	// ErrNameRequired is returned when a group or item name is blank.
	ErrNameRequired = errors.New("name is required")
)
