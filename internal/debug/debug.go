// Package debug writes diagnostics to stderr when debugging is enabled,
// either with the --debug flag or JSONTRAIT_DEBUG=1.
package debug

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

// EnvVar enables debugging when set to a true value.
const EnvVar = "JSONTRAIT_DEBUG"

var (
	enabled atomic.Bool

	mu  sync.Mutex
	out io.Writer = os.Stderr

	prefix = color.New(color.FgMagenta, color.Bold).SprintFunc()

	dumper = spew.ConfigState{
		Indent:                  "  ",
		SortKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
)

func init() {
	enabled.Store(boolEnv(EnvVar))
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Enable turns debugging on or off.
func Enable(on bool) {
	enabled.Store(on)
}

func Enabled() bool {
	return enabled.Load()
}

// SetOutput redirects diagnostics and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func Logf(msg string, args ...any) {
	if !Enabled() {
		return
	}
	line := fmt.Sprintf(msg, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(out, prefix("debug:")+" "+line)
}

// Dump writes a spew dump of v under label.
func Dump(label string, v any) {
	if !Enabled() {
		return
	}
	d := dumper.Sdump(v)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s %s:\n%s", prefix("debug:"), label, d)
}
