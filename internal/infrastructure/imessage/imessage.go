// Package imessage implements the messaging channel on top of the local
// Messages app: sends go out through AppleScript, replies are read straight
// from the chat.db history store.
package imessage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/domain/message"
)

// appleEpoch is 2001-01-01 00:00:00 UTC; chat.db stores message dates as
// nanoseconds since then.
const appleEpoch = 978307200

const sendTimeout = 15 * time.Second

// Messenger reads and writes iMessages for a single local account.
type Messenger struct {
	ChatDBPath string
	Log        *zap.Logger
}

func New(chatDBPath string, log *zap.Logger) *Messenger {
	return &Messenger{ChatDBPath: chatDBPath, Log: log}
}

// Send delivers text over iMessage via osascript. A non-zero exit from the
// script is a delivery failure.
func (m *Messenger) Send(ctx context.Context, recipient, text string) error {
	script := fmt.Sprintf(`
	tell application "Messages"
		set targetService to 1st account whose service type = iMessage
		set targetBuddy to participant "%s" of targetService
		send "%s" to targetBuddy
	end tell
	`, recipient, escapeAppleScript(text))

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		return &message.DeliveryError{
			Recipient: recipient,
			Err:       fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out))),
		}
	}
	m.Log.Info("sent iMessage", zap.String("to", recipient))
	return nil
}

// PollForReply reads the most recent inbound message from recipient strictly
// after since. The live chat.db plus its WAL/SHM sidecars are copied to a
// temp path first: recent rows live in the WAL, and the copy gives a stable
// snapshot of a store Messages writes concurrently.
//
// There is no is_from_me filter; it can be inverted when both devices share
// one Apple ID. Messages starting with the engine's own prompt prefix are
// excluded instead.
func (m *Messenger) PollForReply(ctx context.Context, recipient string, since time.Time) (string, bool, error) {
	snap, cleanup, err := m.snapshot()
	if err != nil {
		return "", false, err
	}
	defer cleanup()

	db, err := sql.Open("sqlite3", snap+"?mode=ro")
	if err != nil {
		return "", false, fmt.Errorf("open chat snapshot: %w", err)
	}
	defer db.Close()

	appleNanos := since.UnixNano() - appleEpoch*int64(time.Second)
	pattern := "%" + lastDigits(recipient, 10)

	var text string
	err = db.QueryRowContext(ctx, `
		SELECT m.text
		FROM message m
		JOIN chat_message_join cmj ON m.ROWID = cmj.message_id
		JOIN chat c ON cmj.chat_id = c.ROWID
		WHERE m.date > ?
		  AND c.chat_identifier LIKE ?
		  AND m.text IS NOT NULL
		  AND m.text NOT LIKE ?
		ORDER BY m.date DESC
		LIMIT 1
	`, appleNanos, pattern, message.PromptPrefix+"%").Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query chat history: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", false, nil
	}
	return text, true, nil
}

// snapshot copies chat.db and its sidecars into a temp dir and returns the
// copy's path with a cleanup func.
func (m *Messenger) snapshot() (string, func(), error) {
	dir, err := os.MkdirTemp("", "golfbook-chat")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	dst := filepath.Join(dir, "chat.db")
	if err := copyFile(m.ChatDBPath, dst); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("snapshot chat.db: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		src := m.ChatDBPath + suffix
		if _, err := os.Stat(src); err == nil {
			if err := copyFile(src, dst+suffix); err != nil {
				cleanup()
				return "", nil, fmt.Errorf("snapshot chat.db%s: %w", suffix, err)
			}
		}
	}
	return dst, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// lastDigits strips everything but digits and keeps at most the trailing n,
// so "+1 (555) 123-4567" and "5551234567" match the same chat.
func lastDigits(s string, n int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > n {
		digits = digits[len(digits)-n:]
	}
	return digits
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
