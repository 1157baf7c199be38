package analyzer

import (
	"regexp"

	"github.com/mcncl/jsontrait/internal/document"
	"github.com/mcncl/jsontrait/jsontype"
	"github.com/mcncl/jsontrait/pointer"
)

// Hints attached to scalar values that look like well known formats.
const (
	HintUUID        = "uuid"
	HintTime        = "time"
	HintDate        = "date"
	HintUnixSeconds = "unix-seconds"
	HintUnixMillis  = "unix-millis"
)

// Regex patterns for special types
var (
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// Time format patterns (ordered by specificity - most specific first)
	rfc3339Regex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)            // 2006-01-02T15:04:05Z
	iso8601Regex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`) // ISO8601 variants
	dateTimeRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`)                               // 2006-01-02 15:04:05
	dateOnlyRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)                                                         // 2006-01-02
	unixTimestampRegex = regexp.MustCompile(`^1[0-9]{9}$`)                                                                 // Unix timestamp (seconds since 1970)
	unixMilliRegex     = regexp.MustCompile(`^1[0-9]{12}$`)                                                                // Unix timestamp in milliseconds
)

// Entry describes one value of a document.
type Entry struct {
	Pointer string
	Kind    jsontype.Kind
	// Size is the number of elements or entries of a container.
	Size  int
	Depth int
	Hint  string
}

// Report is the result of walking a document.
type Report struct {
	Entries  []Entry
	Counts   map[jsontype.Kind]int
	MaxDepth int
	// Truncated is set when containers below the depth limit were not entered.
	Truncated bool
}

// Analyzer walks documents and describes every value in them
type Analyzer struct {
	// maxDepth stops the walk below this depth; 0 means no limit
	maxDepth int
	// hints enables format detection on scalars
	hints bool
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{hints: true}
}

// WithMaxDepth limits how deep the walk descends.
func (a *Analyzer) WithMaxDepth(depth int) *Analyzer {
	a.maxDepth = depth
	return a
}

// WithHints turns scalar format detection on or off.
func (a *Analyzer) WithHints(on bool) *Analyzer {
	a.hints = on
	return a
}

// Analyze walks root depth first, objects in sorted key order, and returns
// an entry per value starting with the root itself.
func (a *Analyzer) Analyze(root document.Node) Report {
	report := Report{Counts: make(map[jsontype.Kind]int)}
	a.analyzeNode(root, "", 0, &report)
	return report
}

func (a *Analyzer) analyzeNode(node document.Node, ptr string, depth int, report *Report) {
	kind := node.Kind()
	entry := Entry{
		Pointer: ptr,
		Kind:    kind,
		Depth:   depth,
	}
	switch kind {
	case jsontype.Array, jsontype.Object:
		entry.Size = node.Len()
	case jsontype.String, jsontype.Integer:
		if a.hints {
			entry.Hint = analyzeScalar(node)
		}
	}

	report.Entries = append(report.Entries, entry)
	report.Counts[kind]++
	report.MaxDepth = max(report.MaxDepth, depth)

	if a.maxDepth > 0 && depth >= a.maxDepth {
		if entry.Size > 0 {
			report.Truncated = true
		}
		return
	}
	for component, child := range node.Children() {
		a.analyzeNode(child, pointer.Append(ptr, component), depth+1, report)
	}
}

func analyzeScalar(node document.Node) string {
	v := node.Canonical()
	if s, ok := v.AsString(); ok {
		return StringHint(s)
	}
	if i, ok := v.AsInteger(); ok {
		return analyzeInteger(i.String())
	}
	return ""
}

// StringHint names the format s looks like, or returns "" when none matches.
func StringHint(s string) string {
	if uuidRegex.MatchString(s) {
		return HintUUID
	}
	if rfc3339Regex.MatchString(s) || iso8601Regex.MatchString(s) || dateTimeRegex.MatchString(s) {
		return HintTime
	}
	if dateOnlyRegex.MatchString(s) {
		return HintDate
	}
	return ""
}

func analyzeInteger(digits string) string {
	if unixTimestampRegex.MatchString(digits) {
		return HintUnixSeconds
	}
	if unixMilliRegex.MatchString(digits) {
		return HintUnixMillis
	}
	return ""
}
