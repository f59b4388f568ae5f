package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrNoBalance      = errors.New("token balance unavailable")
)

// Token2022ProgramID is the SPL Token-2022 program. The gating token lives
// under Token-2022, not the legacy token program.
var Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

const (
	balanceFetchAttempts = 3
)

// Client wraps the Solana JSON-RPC client for token balance lookups.
type Client struct {
	rpc        *rpc.Client
	mint       solana.PublicKey
	retryDelay time.Duration
	log        *slog.Logger
}

// NewClient creates a chain client for one gating token mint.
func NewClient(rpcURL string, mint solana.PublicKey, log *slog.Logger) *Client {
	return &Client{
		rpc:        rpc.New(rpcURL),
		mint:       mint,
		retryDelay: time.Second,
		log:        log,
	}
}

// ParsePubkey parses a base58 wallet address.
func ParsePubkey(addr string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(addr)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return pk, nil
}

// AssociatedTokenAccount derives the owner's associated token account for the
// gating mint under the Token-2022 program.
func (c *Client) AssociatedTokenAccount(owner solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindProgramAddress(
		[][]byte{
			owner.Bytes(),
			Token2022ProgramID.Bytes(),
			c.mint.Bytes(),
		},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive associated token account: %w", err)
	}
	return ata, nil
}

// TokenBalance fetches the decimal-adjusted gating token balance held by
// owner. The RPC can be flaky, so the fetch is attempted up to three times
// with one-second spacing before giving up.
func (c *Client) TokenBalance(ctx context.Context, owner solana.PublicKey) (float64, error) {
	ata, err := c.AssociatedTokenAccount(owner)
	if err != nil {
		return 0, err
	}

	var lastErr error
	for attempt := 1; attempt <= balanceFetchAttempts; attempt++ {
		res, err := c.rpc.GetTokenAccountBalance(ctx, ata, rpc.CommitmentConfirmed)
		if err == nil && res != nil && res.Value != nil {
			if res.Value.UiAmount != nil {
				return *res.Value.UiAmount, nil
			}
			return 0, nil
		}
		if err == nil {
			err = ErrNoBalance
		}
		lastErr = err
		c.log.Warn("fetch token account",
			"attempt", attempt,
			"of", balanceFetchAttempts,
			"account", ata.String(),
			"error", err,
		)
		if attempt == balanceFetchAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}

	return 0, fmt.Errorf("%w: %v", ErrNoBalance, lastErr)
}

// AccountData fetches raw account data for a public key.
func (c *Client) AccountData(ctx context.Context, pk solana.PublicKey) ([]byte, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, pk, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("get account info: %w", err)
	}
	if res == nil || res.Value == nil {
		return nil, fmt.Errorf("account %s not found", pk)
	}
	return res.Value.Data.GetBinary(), nil
}
