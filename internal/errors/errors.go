// Package errors defines the single closed error taxonomy used across the
// governance core, so every boundary function returns a typed, inspectable
// error instead of an ad-hoc string.
package errors

import "fmt"

// Sentinel errors for conditions that carry no extra data. Use errors.Is to
// test for them.
var (
	ErrAuthRequired         = sentinel("auth required: anonymous or unauthorized caller")
	ErrNotActive            = sentinel("proposal is not active")
	ErrExpired              = sentinel("proposal has expired")
	ErrActiveProposalExists = sentinel("an active proposal already exists for this key")
	ErrNoVotingPower        = sentinel("caller has zero voting power")
	ErrZeroVotingPower      = sentinel("total voting power for this token is zero")
	ErrNotRegistered        = sentinel("caller has no registered lock canister")
	ErrNoPositions          = sentinel("lock canister holds no LP positions for this token")
)

type sentinel string

func (s sentinel) Error() string { return string(s) }

// NoStationLinked is returned when a token has no Station binding.
type NoStationLinked struct {
	Token string
}

func (e *NoStationLinked) Error() string {
	return fmt.Sprintf("no station linked for token %s", e.Token)
}

// NotFound is returned when a proposal lookup misses.
type NotFound struct {
	ProposalID uint64
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("proposal %d not found", e.ProposalID)
}

// AlreadyVoted is returned on a duplicate ballot for the same proposal.
type AlreadyVoted struct {
	ProposalID uint64
}

func (e *AlreadyVoted) Error() string {
	return fmt.Sprintf("caller already voted on proposal %d", e.ProposalID)
}

// InsufficientVotingPowerToPropose reports a proposer whose voting power is
// below a required minimum. No code path in this module returns it.
type InsufficientVotingPowerToPropose struct {
	Current  uint64
	Required uint64
}

func (e *InsufficientVotingPowerToPropose) Error() string {
	return fmt.Sprintf("insufficient voting power to propose: have %d, need %d", e.Current, e.Required)
}

// InvalidTransferDetails is returned by transfer-request validation.
type InvalidTransferDetails struct {
	Reason string
}

func (e *InvalidTransferDetails) Error() string {
	return fmt.Sprintf("invalid transfer details: %s", e.Reason)
}

// StationError wraps an error surfaced by the Station canister itself.
type StationError struct {
	Code    string
	Message string
	Details map[string]string
}

func (e *StationError) Error() string {
	return fmt.Sprintf("station error %s: %s", e.Code, e.Message)
}

// RemoteCallFailed wraps a transport-level failure calling another service
// (Station, swap venue, factory, or the Backend/Admin sibling).
type RemoteCallFailed struct {
	Code    string
	Message string
}

func (e *RemoteCallFailed) Error() string {
	return fmt.Sprintf("remote call failed (%s): %s", e.Code, e.Message)
}

// Custom is the catch-all for contexts where a typed variant is not worth
// adding.
type Custom struct {
	Message string
}

func (e *Custom) Error() string {
	return e.Message
}
