// Package proposal implements the unified proposal state machine: one
// proposal per Station operation, at-most-once auto-creation, weighted
// voting, and threshold-driven early termination. Grounded directly on
// original_source/src/daopad/admin/src/proposals/unified.rs, the Rust
// source this subsystem was distilled from.
package proposal

import (
	"time"

	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/station"
)

// ID is a proposal's unique identifier: a monotone counter, per the
// REDESIGN FLAG in spec §9 ("prefer a monotone counter persisted in stable
// storage" over time+principal entropy, which can collide).
type ID uint64

// Status is a proposal's lifecycle state. Terminal statuses are never
// persisted: a proposal transitioning to one is removed from the store in
// the same synchronous step (spec §3 invariant 4).
type Status int

const (
	Active Status = iota
	Executed
	Rejected
	Expired
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Executed:
		return "Executed"
	case Rejected:
		return "Rejected"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// VoteChoice is a single ballot's recorded choice.
type VoteChoice int

const (
	No VoteChoice = iota
	Yes
)

func (c VoteChoice) String() string {
	if c == Yes {
		return "Yes"
	}
	return "No"
}

// TransferDetails carries optional transfer-specific fields for a Transfer
// proposal. EnsureProposal does not set it, so proposals created through
// this module carry nil.
type TransferDetails struct {
	FromAccountID string
	FromAssetID   string
	To            string
	Amount        string
	Memo          string
}

// Key identifies a proposal by the pair spec §3 specifies: the token it
// governs and the Station request it mirrors. At most one live proposal
// exists per Key at any time (invariant 2).
type Key struct {
	Token     identity.Principal
	RequestID string
}

// Proposal is the DAO's mirror of a single Station request.
type Proposal struct {
	ID                       ID
	Token                    identity.Principal
	StationRequestID         string
	Operation                station.OperationKind
	Proposer                 identity.Principal
	CreatedAt                time.Time
	ExpiresAt                time.Time
	YesVotes                 uint64
	NoVotes                  uint64
	TotalVotingPowerSnapshot uint64
	VoterCount               uint64
	Status                   Status
	TransferDetails          *TransferDetails
}

// Clone returns a value copy safe to hand to callers outside the store's
// lock (TransferDetails, the only pointer field, is copied too).
func (p Proposal) Clone() Proposal {
	if p.TransferDetails != nil {
		td := *p.TransferDetails
		p.TransferDetails = &td
	}
	return p
}

// key computes this proposal's store key.
func (p Proposal) key() Key {
	return Key{Token: p.Token, RequestID: p.StationRequestID}
}
