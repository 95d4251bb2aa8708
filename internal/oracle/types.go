package oracle

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lpdao/govcore/internal/identity"
)

// LPPosition is a single locked liquidity-provider position as reported by
// the swap venue for one lock canister.
type LPPosition struct {
	SymbolA    string
	AddressA   identity.Principal
	AmountA    decimal.Decimal
	SymbolB    string
	AddressB   identity.Principal
	AmountB    decimal.Decimal
	USDBalance decimal.Decimal
}

// Venue is the liquidity venue external collaborator: it enumerates the LP
// positions held by a lock canister and, separately, quotes swap prices
// (unused by voting-power computation but part of the interface the spec
// names in full).
type Venue interface {
	UserBalances(ctx context.Context, lockCanister identity.Principal) ([]LPPosition, error)
	SwapAmounts(ctx context.Context, paySymbol string, amount decimal.Decimal, receiveSymbol string) (SwapQuote, error)
}

// SwapQuote is the venue's price/slippage quote for a hypothetical swap.
type SwapQuote struct {
	Price    decimal.Decimal
	Slippage decimal.Decimal
}

// Factory is the lock-canister factory external collaborator: it lists the
// user→lock-canister bindings the oracle needs to resolve a user (or to
// enumerate everyone, for the total-VP aggregate).
type Factory interface {
	GetAllLockCanisters(ctx context.Context) (map[identity.Principal]identity.Principal, error)
}
