package station

import (
	"context"
	"time"

	"github.com/lpdao/govcore/internal/identity"
)

// Decision is the outcome submitted back to the Station for a mirrored
// request.
type Decision string

const (
	Approved Decision = "Approved"
	Rejected Decision = "Rejected"
)

// ExecutionPlan mirrors the Station's request execution schedule.
type ExecutionPlan struct {
	Immediate bool
	At        *time.Time
}

// RequestInput is the typed request envelope built by each governance
// constructor and handed to the Station's create_request call.
type RequestInput struct {
	OperationTag OperationTag
	OperationRaw map[string]any // operation-specific payload fields
	Title        *string
	Summary      *string
	Plan         ExecutionPlan
	ExpiresAt    *time.Time
}

// CreateRequestResponse is the Station's reply to create_request.
type CreateRequestResponse struct {
	RequestID string
}

// Client is the external Station collaborator: an opaque third-party
// service whose Candid interface this core only ever reads from or submits
// typed requests/approvals to. Every method suspends (may block on a
// network round trip), hence context.Context and no guarantee of ordering
// relative to other calls in flight.
type Client interface {
	CreateRequest(ctx context.Context, stationID identity.Principal, input RequestInput) (CreateRequestResponse, error)
	SubmitRequestApproval(ctx context.Context, stationID identity.Principal, requestID string, decision Decision, reason string) error

	ListUsers(ctx context.Context, stationID identity.Principal) ([]UserDTO, error)
	ListUserGroups(ctx context.Context, stationID identity.Principal) ([]UserGroupDTO, error)
	ListPermissions(ctx context.Context, stationID identity.Principal) ([]PermissionDTO, error)
	ListRequestPolicies(ctx context.Context, stationID identity.Principal) ([]RequestPolicyDTO, error)
	ListAccounts(ctx context.Context, stationID identity.Principal) ([]AccountDTO, error)
	ListExternalCanisters(ctx context.Context, stationID identity.Principal) ([]ExternalCanisterDTO, error)
	CanisterSnapshots(ctx context.Context, stationID identity.Principal, canister identity.Principal) ([]SnapshotDTO, error)
	Me(ctx context.Context, stationID identity.Principal) (UserDTO, error)
	SystemInfo(ctx context.Context, stationID identity.Principal) (SystemInfoDTO, error)
}
