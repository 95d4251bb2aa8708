package backend

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

// HTTPAdminClient is the production AdminClient: it calls the Admin
// service's ensure-proposal endpoint over HTTP+JSON, the same rendering
// internal/station/httpclient.go uses for the Station leg (no third-party
// HTTP client exists anywhere in the retrieved dependency corpus — see
// DESIGN.md).
type HTTPAdminClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPAdminClient builds an AdminClient against the Admin service's
// base URL.
func NewHTTPAdminClient(baseURL string, timeout time.Duration) *HTTPAdminClient {
	return &HTTPAdminClient{httpClient: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (c *HTTPAdminClient) EnsureProposal(ctx context.Context, caller, token identity.Principal, stationRequestID, opKind string) (uint64, error) {
	in := struct {
		Caller    string `json:"caller"`
		Token     string `json:"token"`
		RequestID string `json:"station_request_id"`
		OpKind    string `json:"op_kind"`
	}{caller.String(), token.String(), stationRequestID, opKind}

	data, err := json.Marshal(in)
	if err != nil {
		return 0, &errors.Custom{Message: fmt.Sprintf("encoding ensure-proposal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/proposals/ensure", bytes.NewReader(data))
	if err != nil {
		return 0, &errors.RemoteCallFailed{Code: "request_build", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &errors.RemoteCallFailed{Code: "transport", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return 0, &errors.RemoteCallFailed{Code: body.Code, Message: body.Message}
	}

	var out struct {
		ProposalID uint64 `json:"proposal_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, &errors.RemoteCallFailed{Code: "decode", Message: err.Error()}
	}
	return out.ProposalID, nil
}
