package gating

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "So11111111111111111111111111111111111111112"

type stubFetcher struct {
	balance float64
	err     error
	calls   int
}

func (s *stubFetcher) TokenBalance(_ context.Context, _ solana.PublicKey) (float64, error) {
	s.calls++
	return s.balance, s.err
}

type stubCache struct {
	balance float64
	found   bool
	err     error
}

func (s *stubCache) HolderBalance(_ context.Context, _ string) (float64, bool, error) {
	return s.balance, s.found, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		name             string
		balance          float64
		expectedTier     Tier
		expectedDiscount int
	}{
		{name: "exactly at free threshold", balance: 1_000_000, expectedTier: TierFree, expectedDiscount: 100},
		{name: "above free threshold", balance: 1_500_000, expectedTier: TierFree, expectedDiscount: 100},
		{name: "just below free threshold", balance: 999_999, expectedTier: TierDiscounted, expectedDiscount: 50},
		{name: "exactly at discount threshold", balance: 100_000, expectedTier: TierDiscounted, expectedDiscount: 50},
		{name: "just below discount threshold", balance: 99_999, expectedTier: TierFullPrice, expectedDiscount: 0},
		{name: "zero balance", balance: 0, expectedTier: TierFullPrice, expectedDiscount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, discount := TierOf(tt.balance)
			assert.Equal(t, tt.expectedTier, tier)
			assert.Equal(t, tt.expectedDiscount, discount)
		})
	}
}

func TestTierOfDiscountMonotonic(t *testing.T) {
	balances := []float64{2_000_000, 1_000_000, 999_999, 500_000, 100_000, 99_999, 1, 0}
	prev := 101
	for _, b := range balances {
		_, discount := TierOf(b)
		assert.LessOrEqual(t, discount, prev, "discount must not increase as balance decreases (balance=%v)", b)
		prev = discount
	}
}

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name           string
		fetcher        *stubFetcher
		cache          *stubCache
		expectedErr    error
		expectedTier   Tier
		expectedSource Source
	}{
		{
			name:           "chain lookup succeeds",
			fetcher:        &stubFetcher{balance: 1_500_000},
			expectedTier:   TierFree,
			expectedSource: SourceRPC,
		},
		{
			name:           "chain fails, cache hit",
			fetcher:        &stubFetcher{err: errors.New("rpc down")},
			cache:          &stubCache{balance: 250_000, found: true},
			expectedTier:   TierDiscounted,
			expectedSource: SourceCache,
		},
		{
			name:        "chain fails, cache miss",
			fetcher:     &stubFetcher{err: errors.New("rpc down")},
			cache:       &stubCache{found: false},
			expectedErr: ErrBalanceUnavailable,
		},
		{
			name:        "chain fails, cache errors",
			fetcher:     &stubFetcher{err: errors.New("rpc down")},
			cache:       &stubCache{err: errors.New("redis down")},
			expectedErr: ErrBalanceUnavailable,
		},
		{
			name:        "chain fails, no cache configured",
			fetcher:     &stubFetcher{err: errors.New("rpc down")},
			expectedErr: ErrBalanceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cache HolderCache
			if tt.cache != nil {
				cache = tt.cache
			}
			svc := NewService(tt.fetcher, cache, testLogger())

			res, err := svc.CheckEligibility(context.Background(), testWallet)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedTier, res.Tier)
			assert.Equal(t, tt.expectedSource, res.Source)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestCheckEligibilityInvalidAddress(t *testing.T) {
	svc := NewService(&stubFetcher{balance: 1}, nil, testLogger())

	_, err := svc.CheckEligibility(context.Background(), "not-a-wallet!!")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestQuoteFreeTier(t *testing.T) {
	// Wallet holds 1.5M gating tokens, four character username.
	svc := NewService(&stubFetcher{balance: 1_500_000}, nil, testLogger())

	quote, err := svc.Quote(context.Background(), testWallet, "abcd")
	require.NoError(t, err)

	assert.Equal(t, int64(6414), quote.BasePrice)
	assert.Equal(t, 100, quote.Discount)
	assert.Equal(t, int64(0), quote.FinalPrice)
	assert.True(t, quote.IsFree)
	assert.Equal(t, "4-digit", quote.PriceTier)
	assert.Equal(t, float64(1_500_000), quote.TokenBalance)
}

func TestQuoteDiscountedTier(t *testing.T) {
	// Wallet holds 250k gating tokens, three character username.
	svc := NewService(&stubFetcher{balance: 250_000}, nil, testLogger())

	quote, err := svc.Quote(context.Background(), testWallet, "abc")
	require.NoError(t, err)

	assert.Equal(t, int64(16035), quote.BasePrice)
	assert.Equal(t, 50, quote.Discount)
	assert.Equal(t, int64(8017), quote.FinalPrice)
	assert.False(t, quote.IsFree)
}

func TestQuoteIdempotent(t *testing.T) {
	svc := NewService(&stubFetcher{balance: 250_000}, nil, testLogger())

	first, err := svc.Quote(context.Background(), testWallet, "abcde")
	require.NoError(t, err)
	second, err := svc.Quote(context.Background(), testWallet, "abcde")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
