package telegram

import (
	"crypto/subtle"
	"fmt"
	"strings"
)

// Command is a parsed bot command.
type Command struct {
	Cmd  string
	Args string
}

// ParseCommand extracts a command from raw message text. The first
// whitespace-separated token must start with '/'; it is lowercased and any
// "@botname" suffix is stripped. Remaining tokens are rejoined as the
// argument string. Non-command text returns nil, not an error.
func ParseCommand(text string) *Command {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return nil
	}

	fields := strings.Fields(trimmed)
	head := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if at := strings.Index(head, "@"); at >= 0 {
		head = head[:at]
	}
	if head == "" {
		return nil
	}

	return &Command{
		Cmd:  head,
		Args: strings.Join(fields[1:], " "),
	}
}

// ValidSecret reports whether an inbound webhook's secret token header
// matches the bot's registered secret. Comparison is constant-time; a
// missing header or missing expected secret rejects.
func ValidSecret(header, expected string) bool {
	if header == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}

var commandReplies = map[string]string{
	"start":  "Welcome! Use /verify to link your wallet.",
	"help":   "Commands: /start, /help, /verify",
	"verify": "Please open the app and connect your wallet to complete verification.",
}

// Reply returns the canned reply for a command. Unknown commands get a
// generic reply echoing the command name.
func Reply(cmd string) string {
	if reply, ok := commandReplies[cmd]; ok {
		return reply
	}
	return fmt.Sprintf("Unknown command: %s", cmd)
}
