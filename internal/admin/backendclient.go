package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
)

// HTTPBackendClient implements proposal.StationResolver by calling back
// into the Backend service's binding lookup endpoint (spec §4.3.2 step 9:
// "resolve station principal by looking up the token binding — call
// Backend if this lives in the Admin service").
type HTTPBackendClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPBackendClient builds a StationResolver against the Backend
// service's base URL.
func NewHTTPBackendClient(baseURL string, timeout time.Duration) *HTTPBackendClient {
	return &HTTPBackendClient{httpClient: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (c *HTTPBackendClient) StationForToken(ctx context.Context, token identity.Principal) (identity.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bindings/"+token.String(), nil)
	if err != nil {
		return identity.Principal{}, &errors.RemoteCallFailed{Code: "request_build", Message: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Principal{}, &errors.RemoteCallFailed{Code: "transport", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return identity.Principal{}, &errors.NoStationLinked{Token: token.String()}
	}
	if resp.StatusCode >= 400 {
		return identity.Principal{}, &errors.RemoteCallFailed{Code: "backend_error", Message: resp.Status}
	}

	var out struct {
		Station string `json:"station"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return identity.Principal{}, &errors.RemoteCallFailed{Code: "decode", Message: err.Error()}
	}
	return identity.FromText(out.Station)
}
