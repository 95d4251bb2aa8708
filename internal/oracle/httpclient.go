package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
)

// HTTPVenue is the production Venue implementation: it talks to the swap
// venue over HTTP+JSON, the same inter-canister-call rendering used for
// station.HTTPClient (see DESIGN.md).
type HTTPVenue struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPVenue builds a Venue against the swap venue's base URL.
func NewHTTPVenue(baseURL string, timeout time.Duration) *HTTPVenue {
	return &HTTPVenue{httpClient: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (v *HTTPVenue) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path, nil)
	if err != nil {
		return &errors.RemoteCallFailed{Code: "request_build", Message: err.Error()}
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return &errors.RemoteCallFailed{Code: "transport", Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &errors.RemoteCallFailed{Code: "venue_error", Message: resp.Status}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (v *HTTPVenue) UserBalances(ctx context.Context, lockCanister identity.Principal) ([]LPPosition, error) {
	var out []struct {
		SymbolA    string          `json:"symbol_a"`
		AddressA   string          `json:"address_a"`
		AmountA    decimal.Decimal `json:"amount_a"`
		SymbolB    string          `json:"symbol_b"`
		AddressB   string          `json:"address_b"`
		AmountB    decimal.Decimal `json:"amount_b"`
		USDBalance decimal.Decimal `json:"usd_balance"`
	}
	if err := v.get(ctx, "/user-balances/"+lockCanister.String(), &out); err != nil {
		return nil, err
	}
	positions := make([]LPPosition, 0, len(out))
	for _, p := range out {
		addrA, err := identity.FromText(p.AddressA)
		if err != nil {
			return nil, &errors.RemoteCallFailed{Code: "decode", Message: err.Error()}
		}
		addrB, err := identity.FromText(p.AddressB)
		if err != nil {
			return nil, &errors.RemoteCallFailed{Code: "decode", Message: err.Error()}
		}
		positions = append(positions, LPPosition{
			SymbolA: p.SymbolA, AddressA: addrA, AmountA: p.AmountA,
			SymbolB: p.SymbolB, AddressB: addrB, AmountB: p.AmountB,
			USDBalance: p.USDBalance,
		})
	}
	return positions, nil
}

func (v *HTTPVenue) SwapAmounts(ctx context.Context, paySymbol string, amount decimal.Decimal, receiveSymbol string) (SwapQuote, error) {
	var out SwapQuote
	path := fmt.Sprintf("/swap-amounts?pay=%s&amount=%s&receive=%s", paySymbol, amount.String(), receiveSymbol)
	err := v.get(ctx, path, &out)
	return out, err
}

// HTTPFactory is the production Factory implementation: it talks to the
// lock-canister factory over HTTP+JSON.
type HTTPFactory struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPFactory builds a Factory against the lock-canister factory's base
// URL.
func NewHTTPFactory(baseURL string, timeout time.Duration) *HTTPFactory {
	return &HTTPFactory{httpClient: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (f *HTTPFactory) GetAllLockCanisters(ctx context.Context) (map[identity.Principal]identity.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/lock-canisters", nil)
	if err != nil {
		return nil, &errors.RemoteCallFailed{Code: "request_build", Message: err.Error()}
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &errors.RemoteCallFailed{Code: "transport", Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, &errors.RemoteCallFailed{Code: "factory_error", Message: resp.Status}
	}

	var out []struct {
		User         string `json:"user"`
		LockCanister string `json:"lock_canister"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &errors.RemoteCallFailed{Code: "decode", Message: err.Error()}
	}

	bindings := make(map[identity.Principal]identity.Principal, len(out))
	for _, b := range out {
		user, err := identity.FromText(b.User)
		if err != nil {
			return nil, &errors.RemoteCallFailed{Code: "decode", Message: err.Error()}
		}
		lc, err := identity.FromText(b.LockCanister)
		if err != nil {
			return nil, &errors.RemoteCallFailed{Code: "decode", Message: err.Error()}
		}
		bindings[user] = lc
	}
	return bindings, nil
}
