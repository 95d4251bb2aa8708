package station

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
)

// HTTPClient is the production Client implementation: it talks to a
// station over HTTP+JSON, the Go rendering of a Candid inter-canister call
// (no idiomatic Go Candid codec exists in this module's dependency
// corpus — see DESIGN.md). Every outbound call is a potential suspension
// point per spec §5 and carries the caller's context for cancellation.
type HTTPClient struct {
	httpClient *http.Client
	baseURLFor func(station identity.Principal) string
}

// NewHTTPClient builds a Client that resolves each station's base URL via
// resolveBaseURL (typically a registry keyed by station principal text, or
// a single fixed gateway in development).
func NewHTTPClient(resolveBaseURL func(identity.Principal) string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURLFor: resolveBaseURL,
	}
}

func (c *HTTPClient) call(ctx context.Context, station identity.Principal, method, path string, in, out any) error {
	var body bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &errors.Custom{Message: fmt.Sprintf("station: encoding request: %v", err)}
		}
		body = *bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURLFor(station)+path, &body)
	if err != nil {
		return &errors.RemoteCallFailed{Code: "request_build", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &errors.RemoteCallFailed{Code: "transport", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var stationErr struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&stationErr)
		return &errors.StationError{Code: stationErr.Code, Message: stationErr.Message, Details: stationErr.Details}
	}
	if out == nil {
		return nil
	}
	// Decoding policy (spec §9): tolerate unknown/optional fields the
	// Station may omit, rather than failing strict decode.
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return &errors.RemoteCallFailed{Code: "decode", Message: err.Error()}
	}
	return nil
}

func (c *HTTPClient) CreateRequest(ctx context.Context, stationID identity.Principal, input RequestInput) (CreateRequestResponse, error) {
	var out CreateRequestResponse
	err := c.call(ctx, stationID, http.MethodPost, "/requests", input, &out)
	return out, err
}

func (c *HTTPClient) SubmitRequestApproval(ctx context.Context, stationID identity.Principal, requestID string, decision Decision, reason string) error {
	in := struct {
		RequestID string   `json:"request_id"`
		Decision  Decision `json:"decision"`
		Reason    string   `json:"reason,omitempty"`
	}{requestID, decision, reason}
	return c.call(ctx, stationID, http.MethodPost, "/requests/"+requestID+"/approvals", in, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context, stationID identity.Principal) ([]UserDTO, error) {
	var out []UserDTO
	err := c.call(ctx, stationID, http.MethodGet, "/users", nil, &out)
	return out, err
}

func (c *HTTPClient) ListUserGroups(ctx context.Context, stationID identity.Principal) ([]UserGroupDTO, error) {
	var out []UserGroupDTO
	err := c.call(ctx, stationID, http.MethodGet, "/user-groups", nil, &out)
	return out, err
}

func (c *HTTPClient) ListPermissions(ctx context.Context, stationID identity.Principal) ([]PermissionDTO, error) {
	var out []PermissionDTO
	err := c.call(ctx, stationID, http.MethodGet, "/permissions", nil, &out)
	return out, err
}

func (c *HTTPClient) ListRequestPolicies(ctx context.Context, stationID identity.Principal) ([]RequestPolicyDTO, error) {
	var out []RequestPolicyDTO
	err := c.call(ctx, stationID, http.MethodGet, "/request-policies", nil, &out)
	return out, err
}

func (c *HTTPClient) ListAccounts(ctx context.Context, stationID identity.Principal) ([]AccountDTO, error) {
	var out []AccountDTO
	err := c.call(ctx, stationID, http.MethodGet, "/accounts", nil, &out)
	return out, err
}

func (c *HTTPClient) ListExternalCanisters(ctx context.Context, stationID identity.Principal) ([]ExternalCanisterDTO, error) {
	var out []ExternalCanisterDTO
	err := c.call(ctx, stationID, http.MethodGet, "/external-canisters", nil, &out)
	return out, err
}

func (c *HTTPClient) CanisterSnapshots(ctx context.Context, stationID identity.Principal, canister identity.Principal) ([]SnapshotDTO, error) {
	var out []SnapshotDTO
	err := c.call(ctx, stationID, http.MethodGet, "/external-canisters/"+canister.String()+"/snapshots", nil, &out)
	return out, err
}

func (c *HTTPClient) Me(ctx context.Context, stationID identity.Principal) (UserDTO, error) {
	var out UserDTO
	err := c.call(ctx, stationID, http.MethodGet, "/me", nil, &out)
	return out, err
}

func (c *HTTPClient) SystemInfo(ctx context.Context, stationID identity.Principal) (SystemInfoDTO, error) {
	var out SystemInfoDTO
	err := c.call(ctx, stationID, http.MethodGet, "/system-info", nil, &out)
	return out, err
}
