package safe

import (
	"log/slog"
	"runtime/debug"
)

// Run executes fn and logs any panic with the stack trace.
// Background goroutines should go through here: `go safe.Run(fn)`.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.Run"),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn()
}
