// Package stationsim is an in-memory reference implementation of
// station.Client, standing in for a real Station canister in tests and
// local development. Grounded on the UUID-format request-id validation in
// original_source's daopad_backend/src/proposals/treasury.rs
// (validate_transfer_details), which is the only place the original
// constrains what a request id looks like: this simulator generates ids
// the same shape a real Station would.
package stationsim

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/station"
)

// request is the simulator's stored view of one created request.
type request struct {
	input    station.RequestInput
	decision *station.Decision
}

// Station is a single simulated Station instance: its own users, groups,
// permissions, request policies, accounts, external canisters, and
// requests, all addressable by a caller-supplied principal.
type Station struct {
	mu sync.Mutex

	requests map[string]*request

	users             []station.UserDTO
	groups            []station.UserGroupDTO
	permissions       []station.PermissionDTO
	requestPolicies   []station.RequestPolicyDTO
	accounts          []station.AccountDTO
	externalCanisters []station.ExternalCanisterDTO
	snapshots         map[string][]station.SnapshotDTO
	systemInfo        station.SystemInfoDTO
	me                station.UserDTO
}

// New builds an empty simulated Station seeded with a single admin user.
func New() *Station {
	admin := station.UserDTO{
		ID:       uuid.NewString(),
		Name:     "admin",
		GroupIDs: []string{station.AdminGroupID},
		Status:   "Active",
	}
	return &Station{
		requests: make(map[string]*request),
		users:    []station.UserDTO{admin},
		groups: []station.UserGroupDTO{
			{ID: station.AdminGroupID, Name: "Admin"},
		},
		snapshots:  make(map[string][]station.SnapshotDTO),
		systemInfo: station.SystemInfoDTO{Version: "simulated-0.1.0"},
		me:         admin,
	}
}

// SeedUser appends a user record, for test setup.
func (s *Station) SeedUser(u station.UserDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// SeedGroup appends a user group record, for test setup.
func (s *Station) SeedGroup(g station.UserGroupDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append(s.groups, g)
}

// SeedPermission appends a permission record, for test setup.
func (s *Station) SeedPermission(p station.PermissionDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permissions = append(s.permissions, p)
}

// SeedRequestPolicy appends a request policy record, for test setup.
func (s *Station) SeedRequestPolicy(p station.RequestPolicyDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestPolicies = append(s.requestPolicies, p)
}

// SeedAccount appends an account record with a balance, for test setup.
func (s *Station) SeedAccount(a station.AccountDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, a)
}

// SeedExternalCanister appends an external canister record, for test setup.
func (s *Station) SeedExternalCanister(c station.ExternalCanisterDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externalCanisters = append(s.externalCanisters, c)
}

// SeedSnapshot appends a snapshot under a canister id, for test setup.
func (s *Station) SeedSnapshot(canisterID string, snap station.SnapshotDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[canisterID] = append(s.snapshots[canisterID], snap)
}

// DecisionFor returns the recorded decision for a request id, if any —
// used by tests to assert an acceptance or rejection actually reached the
// simulated Station.
func (s *Station) DecisionFor(requestID string) (station.Decision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok || r.decision == nil {
		return "", false
	}
	return *r.decision, true
}

// Registry resolves principals to simulated Station instances, fulfilling
// the HTTP client's role (resolveBaseURL) without any network transport —
// the in-process stand-in for the fixed-gateway resolver that
// station.NewHTTPClient sets up.
type Registry struct {
	mu        sync.Mutex
	stations  map[identity.Principal]*Station
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{stations: make(map[identity.Principal]*Station)}
}

// Register associates a principal with a simulated Station.
func (r *Registry) Register(id identity.Principal, st *Station) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stations[id] = st
}

func (r *Registry) resolve(id identity.Principal) (*Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stations[id]
	if !ok {
		return nil, &errors.NoStationLinked{Token: id.String()}
	}
	return st, nil
}

// Client adapts a Registry to the station.Client interface, so the same
// proposal.Store and backend/admin services that drive a real HTTPClient
// can drive this simulator unmodified.
type Client struct {
	registry *Registry
}

// NewClient builds a simulated station.Client over a Registry.
func NewClient(registry *Registry) *Client {
	return &Client{registry: registry}
}

var _ station.Client = (*Client)(nil)

func (c *Client) CreateRequest(ctx context.Context, stationID identity.Principal, input station.RequestInput) (station.CreateRequestResponse, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return station.CreateRequestResponse{}, err
	}
	id := uuid.NewString()

	st.mu.Lock()
	st.requests[id] = &request{input: input}
	st.mu.Unlock()

	return station.CreateRequestResponse{RequestID: id}, nil
}

func (c *Client) SubmitRequestApproval(ctx context.Context, stationID identity.Principal, requestID string, decision station.Decision, reason string) error {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.requests[requestID]
	if !ok {
		return &errors.NotFound{ProposalID: 0}
	}
	d := decision
	r.decision = &d
	return nil
}

func (c *Client) ListUsers(ctx context.Context, stationID identity.Principal) ([]station.UserDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]station.UserDTO(nil), st.users...), nil
}

func (c *Client) ListUserGroups(ctx context.Context, stationID identity.Principal) ([]station.UserGroupDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]station.UserGroupDTO(nil), st.groups...), nil
}

func (c *Client) ListPermissions(ctx context.Context, stationID identity.Principal) ([]station.PermissionDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]station.PermissionDTO(nil), st.permissions...), nil
}

func (c *Client) ListRequestPolicies(ctx context.Context, stationID identity.Principal) ([]station.RequestPolicyDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]station.RequestPolicyDTO(nil), st.requestPolicies...), nil
}

func (c *Client) ListAccounts(ctx context.Context, stationID identity.Principal) ([]station.AccountDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]station.AccountDTO(nil), st.accounts...), nil
}

func (c *Client) ListExternalCanisters(ctx context.Context, stationID identity.Principal) ([]station.ExternalCanisterDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]station.ExternalCanisterDTO(nil), st.externalCanisters...), nil
}

func (c *Client) CanisterSnapshots(ctx context.Context, stationID identity.Principal, canister identity.Principal) ([]station.SnapshotDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]station.SnapshotDTO(nil), st.snapshots[canister.String()]...), nil
}

func (c *Client) Me(ctx context.Context, stationID identity.Principal) (station.UserDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return station.UserDTO{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.me, nil
}

func (c *Client) SystemInfo(ctx context.Context, stationID identity.Principal) (station.SystemInfoDTO, error) {
	st, err := c.registry.resolve(stationID)
	if err != nil {
		return station.SystemInfoDTO{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.systemInfo, nil
}
