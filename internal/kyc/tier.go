package kyc

import "time"

// Status is the resolved state of a verification attempt as reported by the
// identity provider.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusFailed   Status = "failed"
)

// Verification categories. Identity covers biographic checks (BVN/NIN),
// document covers government-issued ID uploads.
const (
	CategoryIdentity = "identity"
	CategoryDocument = "document"
)

// Tier is a user's verification level. Every user starts at the basic tier;
// higher tiers unlock higher transfer and balance limits.
type Tier int

const (
	TierBasic    Tier = 1
	TierIdentity Tier = 2
	TierFull     Tier = 3
)

// Record is the slice of a verification record the resolver consults.
type Record struct {
	Status    Status
	CreatedAt time.Time
}

// ResolveTier derives a user's verification tier from their most recent
// identity record and most recent document record. A nil record means the
// user has not attempted that category yet, which is valid input rather than
// an error. The result depends only on the two inputs, so re-running it on
// the same snapshots always yields the same tier.
//
// The resolver trusts whatever "latest" records the caller supplies; it
// makes no claim about how fresh they are.
func ResolveTier(identity, document *Record) Tier {
	if identity == nil || identity.Status != StatusVerified {
		return TierBasic
	}

	if document == nil || document.Status != StatusVerified {
		return TierIdentity
	}

	return TierFull
}
