//go:build !econdebug

package economy

import "log/slog"

// invariant reports a broken economic invariant. Release builds log and
// continue; build with -tags econdebug to panic instead.
func invariant(ok bool, msg string, args ...any) {
	if ok {
		return
	}
	slog.Error("economy invariant violated: "+msg, args...)
}
