package proposal

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/log"

	goverrors "github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/metrics"
	"github.com/lpdao/govcore/internal/obslog"
	"github.com/lpdao/govcore/internal/station"
)

// Oracle is the subset of the voting-power oracle the proposal store
// depends on. Defined here (consumer side) so this package does not import
// internal/oracle directly.
type Oracle interface {
	UserVotingPower(ctx context.Context, user, token identity.Principal) (uint64, error)
	TotalVotingPower(ctx context.Context, token identity.Principal) (uint64, error)
}

// StationResolver resolves the Station principal bound to a token. In the
// two-service topology this is a call from Admin back into Backend (spec
// §4.3.2 step 9: "resolve station principal by looking up the token
// binding (call Backend if this lives in the Admin service)").
type StationResolver interface {
	StationForToken(ctx context.Context, token identity.Principal) (identity.Principal, error)
}

// Config holds the store's fixed policy knobs.
type Config struct {
	// BackendPrincipal is the only caller permitted to invoke EnsureProposal
	// directly (spec §4.3.1 caller gate).
	BackendPrincipal identity.Principal
	// VPFallbackSentinel is substituted for total_voting_power_snapshot
	// when the oracle's total-VP computation fails at proposal creation
	// (spec §9 Open Question 2 — kept, not removed, per SPEC_FULL.md §9).
	VPFallbackSentinel uint64
	// MinimumQuorumUnits guards against the truncating-division trivial-pass
	// case (spec §9 Open Question 3): EnsureProposal refuses to create a
	// proposal whose snapshot is below this floor.
	MinimumQuorumUnits uint64
}

// Store is the proposal and ballot authority: a single mutex-guarded pair
// of maps, touched only in synchronous critical sections with no
// cross-service call in flight, per spec §5.
type Store struct {
	cfg     Config
	oracle  Oracle
	station station.Client
	resolve StationResolver
	sink    Sink
	logger  log.Logger

	mu       sync.Mutex
	byKey    map[Key]*Proposal
	ballots  map[ID]map[identity.Principal]VoteChoice
	nextID   ID
}

// NewStore builds a Store over its collaborators.
func NewStore(cfg Config, oracle Oracle, stationClient station.Client, resolver StationResolver, sink Sink, logger log.Logger) *Store {
	if sink == nil {
		sink = noopSink{}
	}
	return &Store{
		cfg:     cfg,
		oracle:  oracle,
		station: stationClient,
		resolve: resolver,
		sink:    sink,
		logger:  logger,
		byKey:   make(map[Key]*Proposal),
		ballots: make(map[ID]map[identity.Principal]VoteChoice),
		nextID:  1,
	}
}

// EnsureProposal implements spec §4.3.1. It is idempotent per (token,
// requestID): the first call creates the proposal, every subsequent call
// returns the existing ID.
func (s *Store) EnsureProposal(ctx context.Context, caller, token identity.Principal, requestID, opKindRaw string) (ID, error) {
	if caller.IsAnonymous() || !caller.Equal(s.cfg.BackendPrincipal) {
		return 0, goverrors.ErrAuthRequired
	}

	key := Key{Token: token, RequestID: requestID}

	// Fast path: already exists. Checked before the (possibly slow) oracle
	// call so a repeated ensure never pays for a fresh snapshot.
	s.mu.Lock()
	if existing, ok := s.byKey[key]; ok {
		id := existing.ID
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	opKind := station.ParseOperationKind(opKindRaw)
	classification := station.Classify(opKind)

	snapshot, err := s.oracle.TotalVotingPower(ctx, token)
	if err != nil {
		obslog.Warn(s.logger, "total voting power computation failed, using fallback sentinel",
			"token", token.String(), "sentinel", s.cfg.VPFallbackSentinel, "err", err)
		snapshot = s.cfg.VPFallbackSentinel
	}
	if snapshot < s.cfg.MinimumQuorumUnits {
		return 0, goverrors.ErrZeroVotingPower
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the lock: another caller may have won the race
	// between our fast-path check and this point (both suspended on the
	// oracle call above).
	if existing, ok := s.byKey[key]; ok {
		return existing.ID, nil
	}

	id := s.nextID
	s.nextID++

	p := &Proposal{
		ID:                       id,
		Token:                    token,
		StationRequestID:         requestID,
		Operation:                opKind,
		Proposer:                 caller,
		CreatedAt:                now,
		ExpiresAt:                now.Add(classification.Duration),
		TotalVotingPowerSnapshot: snapshot,
		Status:                   Active,
	}
	s.byKey[key] = p
	s.ballots[id] = make(map[identity.Principal]VoteChoice)

	metrics.ProposalsCreated.WithLabelValues(opKind.String()).Inc()
	s.sink.Publish(Event{Kind: EventProposalCreated, Token: token.String(), Proposal: p.Clone()})

	return id, nil
}

// Vote implements spec §4.3.2 exactly, in order, with early exit on each
// failure.
func (s *Store) Vote(ctx context.Context, caller, token identity.Principal, requestID string, choice VoteChoice) error {
	// 1. Reject anonymous caller.
	if caller.IsAnonymous() {
		return goverrors.ErrAuthRequired
	}

	key := Key{Token: token, RequestID: requestID}

	// 2. Look up proposal; auto-create on first vote with an empty op-kind
	// (classified as Other) if missing.
	s.mu.Lock()
	_, exists := s.byKey[key]
	s.mu.Unlock()
	if !exists {
		if _, err := s.EnsureProposal(ctx, caller, token, requestID, ""); err != nil {
			return err
		}
	}

	s.mu.Lock()
	p, ok := s.byKey[key]
	if !ok {
		s.mu.Unlock()
		return &goverrors.NotFound{ProposalID: 0}
	}

	// 3. Check status.
	if p.Status != Active {
		s.mu.Unlock()
		return goverrors.ErrNotActive
	}

	// 4. Lazy expiration: the only sweep path, performed here and nowhere
	// else.
	now := time.Now()
	if now.After(p.ExpiresAt) {
		s.terminateLocked(p, Expired)
		s.mu.Unlock()
		return goverrors.ErrExpired
	}

	// 5. Reject duplicate ballot.
	if _, voted := s.ballots[p.ID][caller]; voted {
		s.mu.Unlock()
		return &goverrors.AlreadyVoted{ProposalID: uint64(p.ID)}
	}
	proposalID := p.ID
	tokenCopy := p.Token
	s.mu.Unlock()

	// 6. Compute voter VP. This is the suspension point: no lock held
	// across it, per spec §5 ("re-read state after resuming").
	vp, err := s.oracle.UserVotingPower(ctx, caller, tokenCopy)
	if err != nil {
		return err
	}
	if vp == 0 {
		return goverrors.ErrNoVotingPower
	}

	// Synchronous tail: re-acquire the lock, re-read the proposal by key
	// (never hold a stale reference across the suspension above), and
	// mutate it.
	s.mu.Lock()
	p, ok = s.byKey[key]
	if !ok || p.ID != proposalID {
		s.mu.Unlock()
		return &goverrors.NotFound{ProposalID: uint64(proposalID)}
	}
	if p.Status != Active {
		s.mu.Unlock()
		return goverrors.ErrNotActive
	}
	if now2 := time.Now(); now2.After(p.ExpiresAt) {
		s.terminateLocked(p, Expired)
		s.mu.Unlock()
		return goverrors.ErrExpired
	}
	if _, voted := s.ballots[p.ID][caller]; voted {
		s.mu.Unlock()
		return &goverrors.AlreadyVoted{ProposalID: uint64(p.ID)}
	}

	// 7. Record vote.
	if choice == Yes {
		p.YesVotes += vp
	} else {
		p.NoVotes += vp
	}
	p.VoterCount++
	s.ballots[p.ID][caller] = choice
	metrics.VotesCast.WithLabelValues(choice.String()).Inc()
	s.sink.Publish(Event{Kind: EventVoteCast, Token: tokenCopy.String(), Proposal: p.Clone(), Voter: caller.String(), Choice: choice})

	// 8. Threshold check (strict >, never >=).
	classification := station.Classify(p.Operation)
	required := p.TotalVotingPowerSnapshot * uint64(classification.ThresholdPercent) / 100

	switch {
	case p.YesVotes > required:
		s.mu.Unlock()
		return s.finalizeAcceptance(ctx, p, key)

	case p.NoVotes > p.TotalVotingPowerSnapshot-required:
		s.mu.Unlock()
		s.finalizeRejection(ctx, p, key)
		return nil

	default:
		// Still active; tallies already updated in place above.
		s.mu.Unlock()
		return nil
	}
}

// finalizeAcceptance calls the Station to approve the mirrored request.
// A failed approval call is fatal to this transition: the error is
// returned, the proposal stays Active, and the vote recorded above stays
// counted. The threshold check runs again only when another voter casts a
// ballot; a repeat vote by the same voter is rejected as AlreadyVoted.
func (s *Store) finalizeAcceptance(ctx context.Context, p *Proposal, key Key) error {
	stationID, err := s.resolve.StationForToken(ctx, p.Token)
	if err != nil {
		return err
	}
	if err := s.station.SubmitRequestApproval(ctx, stationID, p.StationRequestID, station.Approved, ""); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byKey[key]
	if !ok || current.ID != p.ID {
		// Already terminated by a concurrent path; nothing left to do.
		return nil
	}
	s.terminateLocked(current, Executed)
	return nil
}

// finalizeRejection calls the Station to reject the mirrored request.
// Station call failures here are logged and swallowed (spec §7): the local
// view of governance does not depend on the Station's acknowledgement of a
// rejection.
func (s *Store) finalizeRejection(ctx context.Context, p *Proposal, key Key) {
	stationID, err := s.resolve.StationForToken(ctx, p.Token)
	if err != nil {
		obslog.Warn(s.logger, "could not resolve station to submit rejection, proceeding with local terminal state",
			"token", p.Token.String(), "request_id", p.StationRequestID, "err", err)
	} else if err := s.station.SubmitRequestApproval(ctx, stationID, p.StationRequestID, station.Rejected, ""); err != nil {
		obslog.Warn(s.logger, "station rejection call failed, proceeding with local terminal state",
			"token", p.Token.String(), "request_id", p.StationRequestID, "err", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byKey[key]
	if !ok || current.ID != p.ID {
		return
	}
	s.terminateLocked(current, Rejected)
}

// terminateLocked removes a proposal and its ballots from the active store
// in the same step as the status change (spec §3 invariant 4). Callers
// must hold s.mu.
func (s *Store) terminateLocked(p *Proposal, status Status) {
	p.Status = status
	key := p.key()
	clone := p.Clone()
	delete(s.byKey, key)
	delete(s.ballots, p.ID)

	metrics.ProposalsTerminated.WithLabelValues(status.String()).Inc()

	var kind EventKind
	switch status {
	case Executed:
		kind = EventProposalExecuted
	case Rejected:
		kind = EventProposalRejected
	default:
		kind = EventProposalExpired
	}
	s.sink.Publish(Event{Kind: kind, Token: p.Token.String(), Proposal: clone})
}

// Get returns a snapshot of the proposal for (token, requestID), if it is
// still active.
func (s *Store) Get(token identity.Principal, requestID string) (Proposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byKey[Key{Token: token, RequestID: requestID}]
	if !ok {
		return Proposal{}, false
	}
	return p.Clone(), true
}

// ListActive returns every active proposal for a token.
func (s *Store) ListActive(token identity.Principal) []Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Proposal
	for key, p := range s.byKey {
		if key.Token.Equal(token) && p.Status == Active {
			out = append(out, p.Clone())
		}
	}
	return out
}

// HasVoted reports whether user has a recorded ballot on (token, requestID).
func (s *Store) HasVoted(user, token identity.Principal, requestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byKey[Key{Token: token, RequestID: requestID}]
	if !ok {
		return false
	}
	_, voted := s.ballots[p.ID][user]
	return voted
}

// GetVote returns the user's recorded choice on (token, requestID), if any.
func (s *Store) GetVote(user, token identity.Principal, requestID string) (VoteChoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byKey[Key{Token: token, RequestID: requestID}]
	if !ok {
		return 0, false
	}
	choice, voted := s.ballots[p.ID][user]
	return choice, voted
}
