// Package exchange implements the secret gift exchange pairing algorithm.
package exchange

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrInsufficientMembers is returned when fewer than two members are
	// available to pair.
	ErrInsufficientMembers = errors.New("gift exchange requires at least two members")
)

// Pair assigns one giver to one receiver.
type Pair struct {
	GiverID    string
	ReceiverID string
}

// Assigner produces random derangements of a member set: every member gives
// to exactly one other member, every member receives exactly once, nobody
// draws themselves.
//
// The construction samples a uniformly random cyclic permutation (Sattolo's
// algorithm). A cycle over all n members has no fixed points, so a valid
// pairing always exists on the first try; there is no rejection loop and no
// failure mode beyond the size check. For n=2 the only cycle is the swap, so
// the result is deterministic regardless of seed.
type Assigner struct {
	rng *rand.Rand
}

// New creates an Assigner seeded from crypto/rand.
func New() *Assigner {
	return NewSeeded(cryptoSeed(), cryptoSeed())
}

// NewSeeded creates an Assigner with a fixed seed, for deterministic tests.
func NewSeeded(seed1, seed2 uint64) *Assigner {
	return &Assigner{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Assign pairs the given member IDs. The input order, combined with the
// seed, fully determines the result; callers pass members in the store's
// stable order. Member IDs must be distinct.
func (a *Assigner) Assign(memberIDs []string) ([]Pair, error) {
	n := len(memberIDs)
	if n < 2 {
		return nil, ErrInsufficientMembers
	}

	seen := make(map[string]struct{}, n)
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate member id %q", id)
		}
		seen[id] = struct{}{}
	}

	// Sattolo's variant of Fisher-Yates: drawing j strictly below i yields
	// a uniformly random permutation consisting of a single n-cycle.
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := a.rng.IntN(i)
		perm[i], perm[j] = perm[j], perm[i]
	}

	pairs := make([]Pair, n)
	for i, giver := range memberIDs {
		pairs[i] = Pair{GiverID: giver, ReceiverID: memberIDs[perm[i]]}
	}
	return pairs, nil
}

func cryptoSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to fall back to.
		panic(fmt.Sprintf("exchange: reading random seed: %v", err))
	}
	return binary.LittleEndian.Uint64(b[:])
}
