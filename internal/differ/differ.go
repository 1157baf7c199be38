// Package differ compares two canonical documents, producing a line diff
// of their JSON renderings and an RFC 7386 merge patch.
package differ

import (
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mcncl/jsontrait/internal/config"
	"github.com/mcncl/jsontrait/internal/debug"
	"github.com/mcncl/jsontrait/internal/formatter"
	"github.com/mcncl/jsontrait/jsontype"
	"github.com/mcncl/jsontrait/value"
)

// Result describes how two documents differ.
type Result struct {
	Equal bool
	// Diff holds the changed lines of the indented JSON renderings, prefixed
	// with "-", "+" or " ". It is empty when the documents are equal.
	Diff string
	// Patch is a merge patch turning the first document into the second.
	Patch []byte
}

// Differ compares canonical values.
type Differ struct {
	render  *formatter.Formatter
	compact *formatter.Formatter
	removed func(a ...any) string
	added   func(a ...any) string
}

// NewDiffer creates a Differ; colored enables red and green diff lines.
func NewDiffer(colored bool) *Differ {
	mk := func(attr color.Attribute) func(a ...any) string {
		c := color.New(attr)
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &Differ{
		render:  formatter.NewFormatterWithOptions(formatter.Options{Format: config.OutputJSON, Indent: 2}),
		compact: formatter.NewFormatterWithOptions(formatter.Options{Format: config.OutputJSON}),
		removed: mk(color.FgRed),
		added:   mk(color.FgGreen),
	}
}

// Compare diffs a against b.
func (d *Differ) Compare(a, b value.Value) (Result, error) {
	if a.Equal(b) {
		return Result{Equal: true, Patch: []byte("{}")}, nil
	}
	left, err := d.render.Format(a)
	if err != nil {
		return Result{}, fmt.Errorf("rendering first document: %w", err)
	}
	right, err := d.render.Format(b)
	if err != nil {
		return Result{}, fmt.Errorf("rendering second document: %w", err)
	}
	patch, err := d.mergePatch(a, b)
	if err != nil {
		return Result{}, err
	}
	debug.Logf("merge patch: %s", patch)
	return Result{
		Diff:  d.lineDiff(left, right),
		Patch: patch,
	}, nil
}

func (d *Differ) lineDiff(left, right string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(left+"\n", right+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, diff := range diffs {
		text := strings.TrimSuffix(diff.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			switch diff.Type {
			case diffpatch.DiffDelete:
				sb.WriteString(d.removed("-" + line))
			case diffpatch.DiffInsert:
				sb.WriteString(d.added("+" + line))
			default:
				sb.WriteString(" " + line)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// mergePatch builds the merge patch from a to b. Merge patches can only
// describe changes inside objects; any other pair is replaced wholesale by
// b.
func (d *Differ) mergePatch(a, b value.Value) ([]byte, error) {
	left, err := d.compact.Format(a)
	if err != nil {
		return nil, err
	}
	right, err := d.compact.Format(b)
	if err != nil {
		return nil, err
	}
	if !jsontype.IsObject(a) || !jsontype.IsObject(b) {
		return []byte(right), nil
	}
	patch, err := jsonpatch.CreateMergePatch([]byte(left), []byte(right))
	if err != nil {
		return nil, fmt.Errorf("creating merge patch: %w", err)
	}
	return patch, nil
}

// Apply applies a merge patch to the JSON rendering of a and returns the
// patched JSON document. A patch that is not an object replaces a, and a
// target that is not an object is patched as if it were empty.
func Apply(a value.Value, patch []byte) ([]byte, error) {
	if len(patch) == 0 || patch[0] != '{' {
		return patch, nil
	}
	doc := "{}"
	if jsontype.IsObject(a) {
		rendered, err := formatter.NewFormatterWithOptions(formatter.Options{Format: config.OutputJSON}).Format(a)
		if err != nil {
			return nil, err
		}
		doc = rendered
	}
	out, err := jsonpatch.MergePatch([]byte(doc), patch)
	if err != nil {
		return nil, fmt.Errorf("applying merge patch: %w", err)
	}
	return out, nil
}
