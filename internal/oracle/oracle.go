// Package oracle computes per-user and aggregate voting power from locked
// liquidity-provider positions, for a given underlying token. It is pure
// with respect to its inputs at call time: it performs I/O but never writes,
// and it never caches the computed voting power itself (only the much
// slower-changing user→lock-canister binding list is cached — see cache.go).
package oracle

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	"github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/metrics"
	"github.com/lpdao/govcore/internal/obslog"
)

// half is the 50/50 LP attribution factor: each two-sided pool position
// credits half of its usd_balance toward the side matching the governed
// token. Coarse and deliberate, per spec.
var half = decimal.NewFromFloat(0.5)

// Oracle computes voting power. It holds no mutable vote-relevant state;
// the factoryCache only memoizes the binding list, not any VP value.
type Oracle struct {
	venue  Venue
	cache  *factoryCache
	logger log.Logger
}

// New builds an Oracle over the given external collaborators.
func New(venue Venue, factory Factory, factoryCacheTTL time.Duration, logger log.Logger) *Oracle {
	return &Oracle{
		venue:  venue,
		cache:  newFactoryCache(factory, factoryCacheTTL),
		logger: logger,
	}
}

// UserVotingPower resolves user→lock-canister via the cached factory
// lookup, enumerates the lock canister's LP positions from the swap venue,
// and sums half of usd_balance for every position whose pair includes
// token.
func (o *Oracle) UserVotingPower(ctx context.Context, user, token identity.Principal) (vp uint64, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.OracleCallDuration.WithLabelValues("user_voting_power", outcome).Observe(time.Since(start).Seconds())
	}()

	lockCanister, ok, lookupErr := o.cache.lookup(ctx, user)
	if lookupErr != nil {
		return 0, lookupErr
	}
	if !ok {
		return 0, errors.ErrNotRegistered
	}

	positions, posErr := o.venue.UserBalances(ctx, lockCanister)
	if posErr != nil {
		return 0, posErr
	}
	if len(positions) == 0 {
		return 0, errors.ErrNoPositions
	}

	total := decimal.Zero
	matched := false
	for _, pos := range positions {
		if !pos.AddressA.Equal(token) && !pos.AddressB.Equal(token) {
			continue
		}
		matched = true
		total = total.Add(pos.USDBalance.Mul(half))
	}
	if !matched {
		return 0, errors.ErrNoPositions
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Truncate(0).BigInt().Uint64(), nil
}

// TotalVotingPower enumerates every registered user→lock-canister binding
// and sums UserVotingPower for each, for the given token. Per-user failures
// are absorbed (that user contributes 0 to the aggregate) so a single
// unregistered or empty-position user cannot fail the whole computation.
func (o *Oracle) TotalVotingPower(ctx context.Context, token identity.Principal) (total uint64, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.OracleCallDuration.WithLabelValues("total_voting_power", outcome).Observe(time.Since(start).Seconds())
	}()

	bindings, bindErr := o.cache.all(ctx)
	if bindErr != nil {
		return 0, bindErr
	}

	var sum uint64
	for user := range bindings {
		vp, userErr := o.UserVotingPower(ctx, user, token)
		if userErr != nil {
			obslog.Warn(o.logger, "voting power unavailable for user, contributing zero",
				"user", user.String(), "token", token.String(), "err", userErr)
			continue
		}
		sum += vp
	}
	return sum, nil
}
