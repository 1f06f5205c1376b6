// Package notify delivers user-facing notifications. The engine decides
// when to notify; this package only presents.
package notify

import (
	"log/slog"
	"os/exec"
)

// Notifier presents a short message to the user.
type Notifier interface {
	Notify(title, message string)
}

// Nop discards notifications. Used in tests and headless runs.
type Nop struct{}

func (Nop) Notify(string, string) {}

// Command shells out to notify-send when present, falling back to the log.
type Command struct {
	Logger *slog.Logger

	path string
}

// NewCommand probes for notify-send once.
func NewCommand(logger *slog.Logger) *Command {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		path = ""
	}
	return &Command{Logger: logger, path: path}
}

func (c *Command) Notify(title, message string) {
	if c.path == "" {
		if c.Logger != nil {
			c.Logger.Info("notification", "title", title, "message", message)
		}
		return
	}
	cmd := exec.Command(c.path, "--app-name=cssgnomme", title, message)
	if err := cmd.Run(); err != nil && c.Logger != nil {
		c.Logger.Warn("notify-send failed", "err", err)
	}
}
