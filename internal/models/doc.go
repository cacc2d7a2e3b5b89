// Package models defines the core domain models for Giftster.
//
// # Models
//
//   - User: Registered account identified by a unique email
//   - Group: A gift circle users join with a shareable join code
//   - GiftItem: A wish-list entry owned by one member of one group
//   - ExchangeAssignment: A giver/receiver pair from a secret gift exchange
//
// # Design Principles
//
//  1. **Opaque IDs**: All entities use string UUIDs; nothing may depend on
//     ID ordering or range.
//  2. **Avoid circular references**: Relationships are expressed as ID strings,
//     not pointers.
//  3. **Explicit claim state**: A gift is claimed iff IsClaimed is true and
//     ClaimerID is set; the two fields always change together.
package models
