// Package backend implements the Backend service: request constructor and
// read projector. It owns the token↔station binding and, for every
// governable operation, builds a typed Station request and asks the Admin
// service to mirror it as a proposal. Grounded on dao/dao.go's DAO
// struct-of-managers composition root, split here into this service's
// half of the two-canister topology.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"

	"github.com/lpdao/govcore/internal/agreement"
	"github.com/lpdao/govcore/internal/binding"
	goverrors "github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/metadata"
	"github.com/lpdao/govcore/internal/security"
	"github.com/lpdao/govcore/internal/station"
)

// AdminClient is the narrow view of the Admin service the Backend depends
// on: proposal creation (spec §4.4 step 4). Defined on the consumer side
// so this package never imports internal/admin.
type AdminClient interface {
	EnsureProposal(ctx context.Context, caller, token identity.Principal, stationRequestID, opKind string) (uint64, error)
}

// Service is the Backend's composition root.
type Service struct {
	Self     identity.Principal // this service's own principal; the caller identity presented to Admin
	bindings *binding.Store
	station  station.Client
	admin    AdminClient
	metadata *metadata.Client
	logger   log.Logger
}

// NewService builds a Backend service. metadataClient may be nil, in which
// case UploadProposalMetadata/RetrieveProposalMetadata are unavailable
// (development without an IPFS node reachable).
func NewService(self identity.Principal, bindings *binding.Store, stationClient station.Client, admin AdminClient, metadataClient *metadata.Client, logger log.Logger) *Service {
	return &Service{Self: self, bindings: bindings, station: stationClient, admin: admin, metadata: metadataClient, logger: logger}
}

// LinkStation records a token↔station binding. Binding creation is
// orthogonal to this core (spec §3 lifecycle: "created by a separate
// binding-proposal mechanism, treated as external"); this method is the
// narrow seam that mechanism calls into.
func (s *Service) LinkStation(caller, token, stationID identity.Principal) error {
	if caller.IsAnonymous() {
		return goverrors.ErrAuthRequired
	}
	return s.bindings.Bind(token, stationID)
}

// StationForToken resolves a token's bound station. It backs both the
// Backend's own request constructors and the HTTP endpoint the Admin
// service calls to implement proposal.StationResolver remotely.
func (s *Service) StationForToken(ctx context.Context, token identity.Principal) (identity.Principal, error) {
	st, ok := s.bindings.StationFor(token)
	if !ok {
		return identity.Principal{}, &goverrors.NoStationLinked{Token: token.String()}
	}
	return st, nil
}

// ConstructInput is the generic request-constructor payload: every
// governable operation reduces to one of these before being mirrored as a
// proposal (spec §4.4).
type ConstructInput struct {
	Tag          station.OperationTag
	OperationRaw map[string]any
	Title        *string
	Summary      *string
	Plan         station.ExecutionPlan
	ExpiresAt    *time.Time
}

// Construct implements the full Station-executor sequence shared by every
// governable operation (spec §4.4): resolve the station, build and submit
// the typed request, then immediately mirror it as a proposal. A failure
// to mirror after the Station has already accepted the request is a
// governance violation — the request now exists without a paired
// proposal — and is surfaced distinctly so an operator can reconcile it
// by hand.
func (s *Service) Construct(ctx context.Context, caller, token identity.Principal, in ConstructInput) (station.CreateRequestResponse, error) {
	if caller.IsAnonymous() {
		return station.CreateRequestResponse{}, goverrors.ErrAuthRequired
	}
	stationID, err := s.StationForToken(ctx, token)
	if err != nil {
		return station.CreateRequestResponse{}, err
	}

	resp, err := s.station.CreateRequest(ctx, stationID, station.RequestInput{
		OperationTag: in.Tag,
		OperationRaw: in.OperationRaw,
		Title:        in.Title,
		Summary:      in.Summary,
		Plan:         in.Plan,
		ExpiresAt:    in.ExpiresAt,
	})
	if err != nil {
		return station.CreateRequestResponse{}, err
	}

	opKind := station.OperationKind{Tag: in.Tag}
	if _, err := s.admin.EnsureProposal(ctx, s.Self, token, resp.RequestID, opKind.String()); err != nil {
		return resp, &goverrors.Custom{Message: fmt.Sprintf(
			"governance violation: station request %s created but proposal mirror failed: %v", resp.RequestID, err)}
	}
	return resp, nil
}

// Transfer is the typed convenience wrapper around Construct for the
// highest-traffic governable operation: a treasury transfer. Every other
// of the ~33 recognized operation kinds is reachable through Construct
// directly with the matching OperationTag and a raw payload map — spec
// §4.4 describes one thin constructor shape shared by all of them, not 33
// independent code paths.
func (s *Service) Transfer(ctx context.Context, caller, token identity.Principal, fromAccountID, fromAssetID, to, amount, memo string, title, summary *string) (station.CreateRequestResponse, error) {
	return s.Construct(ctx, caller, token, ConstructInput{
		Tag: station.TagTransfer,
		OperationRaw: map[string]any{
			"from_account_id": fromAccountID,
			"from_asset_id":   fromAssetID,
			"to":              to,
			"amount":          amount,
			"memo":            memo,
		},
		Title:   title,
		Summary: summary,
		Plan:    station.ExecutionPlan{Immediate: true},
	})
}

// SecurityDashboard runs the read-only decentralization analyzer against
// the station bound to token.
func (s *Service) SecurityDashboard(ctx context.Context, token identity.Principal) (*security.Dashboard, error) {
	stationID, err := s.StationForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return security.Analyze(ctx, s.station, stationID, s.Self)
}

// OperatingAgreement runs the full operating-agreement projection for
// token's bound station.
func (s *Service) OperatingAgreement(ctx context.Context, token identity.Principal) (*agreement.Data, error) {
	stationID, err := s.StationForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return agreement.Project(ctx, s.station, stationID, s.Self)
}

// TreasuryAccounts returns the Station's accounts, with balances, for
// token's bound station.
func (s *Service) TreasuryAccounts(ctx context.Context, token identity.Principal) ([]station.AccountDTO, error) {
	stationID, err := s.StationForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.station.ListAccounts(ctx, stationID)
}

// UploadProposalMetadata pins a proposal's off-chain supporting material
// (title, description, linked documents) to IPFS and returns its CID, so a
// Construct caller can reference it from the Station request's summary.
func (s *Service) UploadProposalMetadata(m *metadata.ProposalMetadata) (string, error) {
	if s.metadata == nil {
		return "", &goverrors.Custom{Message: "metadata store not configured"}
	}
	return s.metadata.UploadProposalMetadata(m)
}

// RetrieveProposalMetadata fetches and checksum-verifies proposal metadata
// previously uploaded under cid.
func (s *Service) RetrieveProposalMetadata(cid string) (*metadata.ProposalMetadata, error) {
	if s.metadata == nil {
		return nil, &goverrors.Custom{Message: "metadata store not configured"}
	}
	return s.metadata.RetrieveProposalMetadata(cid)
}
