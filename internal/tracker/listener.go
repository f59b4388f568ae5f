package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"

	"github.com/loslabs/launchpad-gateway/internal/chain"
)

// MintNotifier receives one event per newly seen mint.
type MintNotifier interface {
	NotifyMint(ctx context.Context, ev MintEvent) error
}

// Listener subscribes to launchpad program account changes and announces
// new mints exactly once per account key.
type Listener struct {
	wsURL     string
	programID solana.PublicKey
	chain     *chain.Client
	dedupe    Deduper
	notifier  MintNotifier
	log       *slog.Logger
}

func NewListener(wsURL string, programID solana.PublicKey, chainClient *chain.Client, dedupe Deduper, notifier MintNotifier, log *slog.Logger) *Listener {
	return &Listener{
		wsURL:     wsURL,
		programID: programID,
		chain:     chainClient,
		dedupe:    dedupe,
		notifier:  notifier,
		log:       log,
	}
}

// Run keeps a program subscription alive until ctx is cancelled,
// reconnecting after stream errors.
func (l *Listener) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := l.subscribeAndListen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.log.Error("subscription error, reconnecting", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
		}
	}
}

func (l *Listener) subscribeAndListen(ctx context.Context) error {
	client, err := ws.Connect(ctx, l.wsURL)
	if err != nil {
		return fmt.Errorf("ws connect: %w", err)
	}
	defer client.Close()

	sub, err := client.ProgramSubscribeWithOpts(
		l.programID,
		rpc.CommitmentConfirmed,
		solana.EncodingBase64,
		nil,
	)
	if err != nil {
		return fmt.Errorf("program subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	l.log.Info("subscribed to program accounts", "program", l.programID.String())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := sub.Recv(ctx)
		if err != nil {
			return fmt.Errorf("recv: %w", err)
		}
		if msg == nil || msg.Value.Account == nil {
			continue
		}

		l.handleAccountChange(ctx, msg.Value.Pubkey, msg.Value.Account.Data.GetBinary())
	}
}

func (l *Listener) handleAccountChange(ctx context.Context, pubkey solana.PublicKey, data []byte) {
	rec, err := DecodeNFTRecord(data)
	if err != nil {
		// Not a mint record; the program owns other account types too.
		return
	}

	key := pubkey.String()
	if !l.dedupe.FirstSeen(ctx, key) {
		return
	}

	ev := MintEvent{
		Collection:       l.collectionName(ctx, rec.CollectionConfig),
		Mint:             rec.NFTMint.String(),
		Owner:            rec.Owner.String(),
		MintIndex:        rec.MintIndex,
		RarityTier:       rec.RarityTier,
		RarityMultiplier: rec.RarityMultiplier,
		TokensClaimed:    rec.TokensClaimed,
		IsStaked:         rec.IsStaked,
	}

	l.log.Info("new mint",
		"account", key,
		"collection", ev.Collection,
		"mint", ev.Mint,
		"index", ev.MintIndex,
	)

	if err := l.notifier.NotifyMint(ctx, ev); err != nil {
		l.log.Error("send mint notification", "mint", ev.Mint, "error", err)
	}
}

// collectionName resolves the display name from the CollectionConfig
// account, falling back to a shortened address.
func (l *Listener) collectionName(ctx context.Context, configKey solana.PublicKey) string {
	data, err := l.chain.AccountData(ctx, configKey)
	if err != nil {
		l.log.Warn("fetch collection config", "account", configKey.String(), "error", err)
		return ShortAddr(configKey.String(), 4)
	}

	name, err := DecodeCollectionName(data)
	if err != nil {
		return ShortAddr(configKey.String(), 4)
	}
	return name
}
