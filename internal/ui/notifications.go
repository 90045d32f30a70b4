package ui

import (
	"fmt"
	"strings"

	"github.com/redcliffe/strum/internal/notify"
)

// renderNotifications renders the notification stack, oldest first, as an
// overlay block above the active view.
func renderNotifications(stack []notify.Notification) string {
	if len(stack) == 0 {
		return ""
	}

	var b strings.Builder
	for _, n := range stack {
		var line string
		switch n.Severity {
		case notify.Success:
			line = styles.ok.Render(fmt.Sprintf("✓ %s", n.Message))
		case notify.Error:
			line = styles.err.Render(fmt.Sprintf("✗ %s", n.Message))
		default:
			line = styles.warn.Render(fmt.Sprintf("• %s", n.Message))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
