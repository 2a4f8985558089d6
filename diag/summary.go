package diag

import (
	"fmt"
	"log/slog"
	"strings"
)

// Attribute keys used for callback diagnostics.
const (
	KeyCallback = "callback"
	KeyGroup    = "group"
	KeyStatus   = "status"
	KeyTotal    = "total"
)

// CallbackAttrs identifies a registered callback in log output.
func CallbackAttrs(name string, group int) []any {
	return []any{slog.String(KeyCallback, name), slog.Int(KeyGroup, group)}
}

// ReleaseSummary describes a callback as it's released.
// The last status is only included once the callback has been executed at least once, since it's meaningless before that.
func ReleaseSummary(name string, group, total, status int) string {
	var buf strings.Builder
	_, _ = fmt.Fprintf(&buf, "Releasing Callback[%s] ID[%d] Total Executions[%d]", name, group, total)
	if total > 0 {
		_, _ = fmt.Fprintf(&buf, " Last ExitStatus[%d]", status)
	}
	return buf.String()
}
