package motion

import (
	"fmt"
	"os"
)

// warnf prints a non-fatal diagnostic to stderr. Used for conditions the
// error taxonomy treats as signals rather than failures: an unsupported
// compositor probe, or a recovered panic at the renderer boundary.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[motion] warning: "+format+"\n", args...)
}
