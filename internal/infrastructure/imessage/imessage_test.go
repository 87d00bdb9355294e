package imessage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/domain/message"
)

// fixtureDB builds a minimal chat.db with one chat for the given identifier.
func fixtureDB(t *testing.T, chatIdentifier string) (path string, insert func(text string, at time.Time)) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "chat.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE message (ROWID INTEGER PRIMARY KEY AUTOINCREMENT, text TEXT, date INTEGER);
		CREATE TABLE chat (ROWID INTEGER PRIMARY KEY AUTOINCREMENT, chat_identifier TEXT);
		CREATE TABLE chat_message_join (chat_id INTEGER, message_id INTEGER);
		INSERT INTO chat (chat_identifier) VALUES (?);
	`, chatIdentifier)
	require.NoError(t, err)

	insert = func(text string, at time.Time) {
		res, err := db.Exec(`INSERT INTO message (text, date) VALUES (?, ?)`,
			text, at.UnixNano()-appleEpoch*int64(time.Second))
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO chat_message_join (chat_id, message_id) VALUES (1, ?)`, id)
		require.NoError(t, err)
	}
	return path, insert
}

func TestPollForReply(t *testing.T) {
	sentAt := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	t.Run("returns latest reply after the prompt", func(t *testing.T) {
		path, insert := fixtureDB(t, "+15551234567")
		insert("old news", sentAt.Add(-time.Hour))
		insert("saturday 7am", sentAt.Add(time.Minute))
		insert("tomorrow 2pm 1 player", sentAt.Add(2*time.Minute))

		m := New(path, zap.NewNop())
		text, ok, err := m.PollForReply(context.Background(), "+15551234567", sentAt)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "tomorrow 2pm 1 player", text, "a burst of replies resolves to the latest")
	})

	t.Run("never returns a message sent before the prompt", func(t *testing.T) {
		path, insert := fixtureDB(t, "+15551234567")
		insert("tomorrow 2pm", sentAt.Add(-time.Second))

		m := New(path, zap.NewNop())
		_, ok, err := m.PollForReply(context.Background(), "+15551234567", sentAt)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("never returns the engine's own prompt", func(t *testing.T) {
		path, insert := fixtureDB(t, "+15551234567")
		insert(message.PromptPrefix+" ready! Reply with...", sentAt.Add(time.Minute))

		m := New(path, zap.NewNop())
		_, ok, err := m.PollForReply(context.Background(), "+15551234567", sentAt)
		require.NoError(t, err)
		assert.False(t, ok, "a self-authored echo must not count as a reply")
	})

	t.Run("matches the recipient by digit suffix", func(t *testing.T) {
		path, insert := fixtureDB(t, "+15551234567")
		insert("saturday 7am", sentAt.Add(time.Minute))

		m := New(path, zap.NewNop())
		text, ok, err := m.PollForReply(context.Background(), "(555) 123-4567", sentAt)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "saturday 7am", text)
	})

	t.Run("other chats are invisible", func(t *testing.T) {
		path, insert := fixtureDB(t, "+19998887777")
		insert("saturday 7am", sentAt.Add(time.Minute))

		m := New(path, zap.NewNop())
		_, ok, err := m.PollForReply(context.Background(), "+15551234567", sentAt)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing store is an error not a panic", func(t *testing.T) {
		m := New(filepath.Join(t.TempDir(), "missing.db"), zap.NewNop())
		_, ok, err := m.PollForReply(context.Background(), "+15551234567", sentAt)
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestLastDigits(t *testing.T) {
	assert.Equal(t, "5551234567", lastDigits("+1 (555) 123-4567", 10))
	assert.Equal(t, "5551234567", lastDigits("5551234567", 10))
	assert.Equal(t, "1234567", lastDigits("123-4567", 10))
}

func TestEscapeAppleScript(t *testing.T) {
	assert.Equal(t, `say \"hi\" \\now`, escapeAppleScript(`say "hi" \now`))
}
