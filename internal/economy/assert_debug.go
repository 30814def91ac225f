//go:build econdebug

package economy

import "fmt"

func invariant(ok bool, msg string, args ...any) {
	if ok {
		return
	}
	panic(fmt.Sprintf("economy invariant violated: %s %v", msg, args))
}
