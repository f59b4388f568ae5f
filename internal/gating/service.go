package gating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/loslabs/launchpad-gateway/internal/chain"
)

var (
	ErrInvalidAddress     = chain.ErrInvalidAddress
	ErrBalanceUnavailable = errors.New("balance unavailable")
)

// Tier is the eligibility bucket derived from gating token holdings.
type Tier string

const (
	TierFree       Tier = "free"
	TierDiscounted Tier = "discounted"
	TierFullPrice  Tier = "full-price"
)

// Source records which lookup satisfied a balance request.
type Source string

const (
	SourceRPC   Source = "rpc"
	SourceCache Source = "cache"
)

// Holding thresholds. Lower bounds are inclusive: exactly at the threshold
// qualifies for the higher tier.
const (
	FreeMintThreshold  = 1_000_000
	DiscountThreshold  = 100_000
	FreeMintDiscount   = 100
	DiscountedDiscount = 50
)

// EligibilityResult is produced fresh on every request and never persisted.
type EligibilityResult struct {
	Eligible     bool    `json:"eligible"`
	TokenBalance float64 `json:"tokenBalance"`
	Discount     int     `json:"discount"`
	Tier         Tier    `json:"tier"`
	Reason       string  `json:"reason"`
	Source       Source  `json:"source"`
}

// BalanceFetcher resolves an owner's gating token balance on-chain.
type BalanceFetcher interface {
	TokenBalance(ctx context.Context, owner solana.PublicKey) (float64, error)
}

// HolderCache is the secondary balance source consulted when the chain
// lookup fails. The bool return reports whether an entry existed.
type HolderCache interface {
	HolderBalance(ctx context.Context, wallet string) (float64, bool, error)
}

// Service evaluates token-gated eligibility and pricing.
type Service struct {
	fetcher BalanceFetcher
	cache   HolderCache // may be nil
	log     *slog.Logger
}

func NewService(fetcher BalanceFetcher, cache HolderCache, log *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		log:     log,
	}
}

// CheckEligibility resolves the wallet's gating token balance and maps it to
// a tier. The chain is the primary source; on failure the holder cache is
// consulted. Both failing surfaces ErrBalanceUnavailable.
func (s *Service) CheckEligibility(ctx context.Context, walletAddress string) (*EligibilityResult, error) {
	owner, err := chain.ParsePubkey(walletAddress)
	if err != nil {
		return nil, err
	}

	balance, err := s.fetcher.TokenBalance(ctx, owner)
	if err == nil {
		return evaluate(balance, SourceRPC), nil
	}

	s.log.Warn("on-chain balance lookup failed, trying holder cache",
		"wallet", walletAddress,
		"error", err,
	)

	if s.cache != nil {
		cached, found, cerr := s.cache.HolderBalance(ctx, walletAddress)
		if cerr != nil {
			s.log.Error("holder cache lookup failed", "wallet", walletAddress, "error", cerr)
		} else if found {
			return evaluate(cached, SourceCache), nil
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrBalanceUnavailable, err)
}

// TierOf maps a decimal-adjusted balance to its tier and discount percent.
func TierOf(balance float64) (Tier, int) {
	switch {
	case balance >= FreeMintThreshold:
		return TierFree, FreeMintDiscount
	case balance >= DiscountThreshold:
		return TierDiscounted, DiscountedDiscount
	default:
		return TierFullPrice, 0
	}
}

func evaluate(balance float64, source Source) *EligibilityResult {
	tier, discount := TierOf(balance)

	res := &EligibilityResult{
		TokenBalance: balance,
		Discount:     discount,
		Tier:         tier,
		Source:       source,
	}

	switch tier {
	case TierFree:
		res.Eligible = true
		res.Reason = fmt.Sprintf("You hold %s gating tokens. Free mint unlocked.", formatAmount(balance))
	case TierDiscounted:
		res.Eligible = true
		res.Reason = fmt.Sprintf("You hold %s gating tokens. 50%% discount applied.", formatAmount(balance))
	default:
		if balance > 0 {
			res.Reason = fmt.Sprintf("You hold %s gating tokens. Need %s for a discount or %s for a free mint.",
				formatAmount(balance), formatAmount(DiscountThreshold), formatAmount(FreeMintThreshold))
		} else {
			res.Reason = "Hold gating tokens to unlock discounts."
		}
	}

	return res
}

func formatAmount(num float64) string {
	abs := num
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", num/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.2fM", num/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.2fK", num/1_000)
	default:
		return fmt.Sprintf("%.2f", num)
	}
}
