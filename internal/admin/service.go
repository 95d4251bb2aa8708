// Package admin implements the Admin service: proposal and voting
// authority. It owns the voting-power oracle, the proposal store, and the
// per-voter ballot store, and is the only caller the Backend trusts to
// mirror Station requests as proposals. Grounded on dao/dao.go's DAO
// struct-of-managers composition root, split here into this service's
// half of the two-canister topology.
package admin

import (
	"context"

	"github.com/go-kit/log"

	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/proposal"
)

// Service is the Admin's composition root: a thin wrapper over
// proposal.Store exposing the operations the HTTP surface needs.
type Service struct {
	Store  *proposal.Store
	logger log.Logger
}

// NewService builds an Admin service over an already-constructed
// proposal.Store (itself built from an oracle.Oracle, a station.Client,
// and a StationResolver — see cmd/admin).
func NewService(store *proposal.Store, logger log.Logger) *Service {
	return &Service{Store: store, logger: logger}
}

func (s *Service) EnsureProposal(ctx context.Context, caller, token identity.Principal, stationRequestID, opKind string) (proposal.ID, error) {
	return s.Store.EnsureProposal(ctx, caller, token, stationRequestID, opKind)
}

func (s *Service) Vote(ctx context.Context, caller, token identity.Principal, stationRequestID string, choice proposal.VoteChoice) error {
	return s.Store.Vote(ctx, caller, token, stationRequestID, choice)
}

func (s *Service) Get(token identity.Principal, stationRequestID string) (proposal.Proposal, bool) {
	return s.Store.Get(token, stationRequestID)
}

func (s *Service) ListActive(token identity.Principal) []proposal.Proposal {
	return s.Store.ListActive(token)
}

func (s *Service) HasVoted(user, token identity.Principal, stationRequestID string) bool {
	return s.Store.HasVoted(user, token, stationRequestID)
}

func (s *Service) GetVote(user, token identity.Principal, stationRequestID string) (proposal.VoteChoice, bool) {
	return s.Store.GetVote(user, token, stationRequestID)
}
