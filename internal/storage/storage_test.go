package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testBot(slug string) *Bot {
	return &Bot{
		Slug:           slug,
		CreatorWallet:  "86xCnPeV69n6t3DnyGvkKobf9FdN2H9oiVDdaMpo2MMY",
		BotID:          "123456",
		BotUsername:    "launchbot",
		BotName:        "Launch Bot",
		EncryptedToken: "ZW5jcnlwdGVk",
		TokenIV:        "aXZpdml2aXZpdg==",
		WebhookSecret:  "s3cret",
		WebhookURL:     "https://example.com/api/tg/" + slug,
	}
}

func TestUpsertAndGetBot(t *testing.T) {
	s := newTestStorage(t)

	created, err := s.UpsertBot(testBot("launch"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, BotStatusActive, created.Status)

	got, err := s.GetBotBySlug("launch")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "launchbot", got.BotUsername)
	assert.Equal(t, "s3cret", got.WebhookSecret)
}

func TestUpsertBotReplacesOnSlugConflict(t *testing.T) {
	s := newTestStorage(t)

	first, err := s.UpsertBot(testBot("launch"))
	require.NoError(t, err)

	updated := testBot("launch")
	updated.BotUsername = "newbot"
	updated.WebhookSecret = "rotated"

	second, err := s.UpsertBot(updated)
	require.NoError(t, err)

	// Same record, new contents: the id from the first registration survives.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "newbot", second.BotUsername)
	assert.Equal(t, "rotated", second.WebhookSecret)
}

func TestGetBotBySlugNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetBotBySlug("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetBotStatus(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.UpsertBot(testBot("launch"))
	require.NoError(t, err)

	require.NoError(t, s.SetBotStatus("launch", BotStatusInactive))

	got, err := s.GetBotBySlug("launch")
	require.NoError(t, err)
	assert.Equal(t, BotStatusInactive, got.Status)

	assert.ErrorIs(t, s.SetBotStatus("missing", BotStatusInactive), ErrNotFound)
}

func TestRecordInteraction(t *testing.T) {
	s := newTestStorage(t)

	in := &Interaction{
		BotSlug:   "launch",
		UserID:    "42",
		Username:  "alice",
		FirstName: "Alice",
		ChatID:    "42",
		ChatType:  "private",
	}
	require.NoError(t, s.RecordInteraction(in))
	require.NoError(t, s.RecordInteraction(in))

	count, err := s.CountInteractions("launch")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = s.CountInteractions("other")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
