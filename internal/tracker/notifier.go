package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const explorerBase = "https://explorer.analos.io/address/"

// MintEvent is one decoded, deduplicated mint ready to announce.
type MintEvent struct {
	Collection       string
	Mint             string
	Owner            string
	MintIndex        uint64
	RarityTier       uint8
	RarityMultiplier uint16
	TokensClaimed    bool
	IsStaked         bool
}

// Notifier sends mint announcements to the configured chat.
type Notifier struct {
	bot    *bot.Bot
	chatID string
}

func NewNotifier(b *bot.Bot, chatID string) *Notifier {
	return &Notifier{bot: b, chatID: chatID}
}

// NotifyMint sends one HTML-formatted announcement for a mint event.
func (n *Notifier) NotifyMint(ctx context.Context, ev MintEvent) error {
	disablePreview := true
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      formatMintMessage(ev),
		ParseMode: models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: &disablePreview,
		},
	})
	return err
}

func formatMintMessage(ev MintEvent) string {
	lines := []string{
		"🔥 New NFT Mint on Analos",
		fmt.Sprintf("• Collection: <code>%s</code>", ev.Collection),
		fmt.Sprintf("• Mint: <code>%s</code>", ev.Mint),
		fmt.Sprintf("• Owner: <code>%s</code>", ev.Owner),
		fmt.Sprintf("• Index: <b>#%d</b>", ev.MintIndex),
		fmt.Sprintf("• Rarity: <b>%d</b>", ev.RarityTier),
		fmt.Sprintf("• Multiplier: <b>%dx</b>", ev.RarityMultiplier),
		fmt.Sprintf("• Tokens Claimed: <b>%s</b>", yesNo(ev.TokensClaimed)),
		fmt.Sprintf("• Staked: <b>%s</b>", yesNo(ev.IsStaked)),
		fmt.Sprintf("• Explorer: <a href=\"%s%s\">view</a>", explorerBase, ev.Mint),
	}
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ShortAddr returns a shortened address for display
func ShortAddr(addr string, n int) string {
	if addr == "" {
		return "unknown"
	}
	if len(addr) < n*2+3 {
		return addr
	}
	return addr[:n] + "..." + addr[len(addr)-n:]
}
