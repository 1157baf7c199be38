package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontrait/internal/analyzer"
	"github.com/mcncl/jsontrait/internal/config"
	"github.com/mcncl/jsontrait/jsontype"
	"github.com/mcncl/jsontrait/value"
)

// Options controls rendering
type Options struct {
	// Format is one of config.OutputCanonical, OutputJSON or OutputYAML
	Format string
	Indent int
	Color  bool
	ASCII  bool
}

// palette holds one color per token class
type palette struct {
	key, str, num, lit, null, punct, kind func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		key:   mk(color.FgBlue, color.Bold),
		str:   mk(color.FgGreen),
		num:   mk(color.FgCyan),
		lit:   mk(color.FgYellow),
		null:  mk(color.FgHiBlack),
		punct: mk(color.Reset),
		kind:  mk(color.FgMagenta),
	}
}

// Formatter renders canonical values, kinds, keys and walk reports
type Formatter struct {
	opts   Options
	colors palette
}

// NewFormatter creates a Formatter producing uncolored canonical output
func NewFormatter() *Formatter {
	return NewFormatterWithOptions(Options{Format: config.OutputCanonical, Indent: 2})
}

// NewFormatterWithOptions creates a Formatter with explicit options
func NewFormatterWithOptions(opts Options) *Formatter {
	if opts.Format == "" {
		opts.Format = config.OutputCanonical
	}
	return &Formatter{opts: opts, colors: newPalette(opts.Color)}
}

// NewFormatterWithConfig creates a Formatter from the output section of
// cfg. Whether to color is decided by the caller, since it depends on the
// terminal.
func NewFormatterWithConfig(cfg *config.Config, colored bool) *Formatter {
	return NewFormatterWithOptions(Options{
		Format: cfg.Output.Format,
		Indent: cfg.Output.Indent,
		Color:  colored,
		ASCII:  cfg.Output.ASCII,
	})
}

// Format renders v followed by no trailing newline
func (f *Formatter) Format(v value.Value) (string, error) {
	switch f.opts.Format {
	case config.OutputCanonical:
		var sb strings.Builder
		if err := f.write(&sb, v, false, 0); err != nil {
			return "", err
		}
		return sb.String(), nil
	case config.OutputJSON:
		var sb strings.Builder
		if err := f.write(&sb, v, true, 0); err != nil {
			return "", err
		}
		return sb.String(), nil
	case config.OutputYAML:
		return f.formatYAML(v)
	}
	return "", fmt.Errorf("unsupported output format %q", f.opts.Format)
}

// FormatKind renders a classification name
func (f *Formatter) FormatKind(k jsontype.Kind) string {
	return f.colors.kind(k.String())
}

// FormatKeys renders one key per line
func (f *Formatter) FormatKeys(keys []string) string {
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(f.colors.key(k))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatReport renders a walk report, one value per line:
// pointer, kind, size for containers and a format hint when one was found.
func (f *Formatter) FormatReport(report analyzer.Report) string {
	var sb strings.Builder
	for _, e := range report.Entries {
		ptr := e.Pointer
		if ptr == "" {
			ptr = "(root)"
		}
		sb.WriteString(f.colors.key(ptr))
		sb.WriteByte('\t')
		sb.WriteString(f.FormatKind(e.Kind))
		switch e.Kind {
		case jsontype.Array, jsontype.Object:
			fmt.Fprintf(&sb, "\t%d", e.Size)
		}
		if e.Hint != "" {
			sb.WriteString("\t" + f.colors.null(e.Hint))
		}
		sb.WriteByte('\n')
	}
	if report.Truncated {
		sb.WriteString(f.colors.null("(truncated)") + "\n")
	}
	return sb.String()
}

// write renders v as compact canonical text, or as indented JSON when
// pretty is set.
func (f *Formatter) write(sb *strings.Builder, v value.Value, pretty bool, depth int) error {
	c := f.colors
	switch v.Kind() {
	case jsontype.Null:
		sb.WriteString(c.null("null"))
	case jsontype.Boolean:
		b, _ := v.AsBoolean()
		sb.WriteString(c.lit(strconv.FormatBool(b)))
	case jsontype.Integer:
		i, _ := v.AsInteger()
		sb.WriteString(c.num(i.String()))
	case jsontype.Number:
		n, _ := v.AsNumber()
		text, err := f.number(n, pretty)
		if err != nil {
			return err
		}
		sb.WriteString(c.num(text))
	case jsontype.String:
		s, _ := v.AsString()
		sb.WriteString(c.str(f.quote(s, pretty)))
	case jsontype.Array:
		arr, _ := v.AsArray()
		if arr.Len() == 0 {
			sb.WriteString(c.punct("[]"))
			return nil
		}
		sb.WriteString(c.punct("["))
		for i, elem := range arr.All() {
			if i > 0 {
				sb.WriteString(c.punct(","))
			}
			f.newline(sb, pretty, depth+1)
			if err := f.write(sb, elem, pretty, depth+1); err != nil {
				return err
			}
		}
		f.newline(sb, pretty, depth)
		sb.WriteString(c.punct("]"))
	case jsontype.Object:
		obj, _ := v.AsObject()
		if obj.Len() == 0 {
			sb.WriteString(c.punct("{}"))
			return nil
		}
		sb.WriteString(c.punct("{"))
		for i, k := range obj.SortedKeys() {
			if i > 0 {
				sb.WriteString(c.punct(","))
			}
			f.newline(sb, pretty, depth+1)
			sb.WriteString(c.key(f.quote(k, pretty)))
			sb.WriteString(c.punct(":"))
			if pretty {
				sb.WriteByte(' ')
			}
			child, _ := v.Attribute(k)
			if err := f.write(sb, child, pretty, depth+1); err != nil {
				return err
			}
		}
		f.newline(sb, pretty, depth)
		sb.WriteString(c.punct("}"))
	}
	return nil
}

func (f *Formatter) newline(sb *strings.Builder, pretty bool, depth int) {
	if !pretty || f.opts.Indent == 0 {
		return
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", depth*f.opts.Indent))
}

// number renders a float. JSON has no spelling for NaN or the infinities,
// and integral numbers keep a fraction so they read back as numbers.
func (f *Formatter) number(n float64, pretty bool) (string, error) {
	text := strconv.FormatFloat(n, 'g', -1, 64)
	if !pretty {
		return text, nil
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "", fmt.Errorf("number %s cannot be represented in JSON", text)
	}
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	return text, nil
}

func (f *Formatter) quote(s string, pretty bool) string {
	var q string
	if pretty {
		q = jsonQuote(s)
	} else {
		q = strconv.Quote(s)
	}
	if f.opts.ASCII {
		q = escapeNonASCII(q)
	}
	return q
}

func jsonQuote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// escapeNonASCII rewrites every rune above U+007F as \uXXXX, using a
// surrogate pair outside the basic multilingual plane.
func escapeNonASCII(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r < 0x80:
			sb.WriteRune(r)
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&sb, `\u%04x\u%04x`, r1, r2)
		default:
			fmt.Fprintf(&sb, `\u%04x`, r)
		}
	}
	return sb.String()
}

func (f *Formatter) formatYAML(v value.Value) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := f.opts.Indent
	if indent < 1 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// yamlNode builds a node tree with explicit tags, so integers wider than
// 64 bits and special floats keep their kind.
func yamlNode(v value.Value) *yaml.Node {
	switch v.Kind() {
	case jsontype.Boolean:
		b, _ := v.AsBoolean()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
	case jsontype.Integer:
		i, _ := v.AsInteger()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: i.String()}
	case jsontype.Number:
		n, _ := v.AsNumber()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(n)}
	case jsontype.String:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case jsontype.Array:
		arr, _ := v.AsArray()
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for elem := range arr.Values() {
			n.Content = append(n.Content, yamlNode(elem))
		}
		return n
	case jsontype.Object:
		obj, _ := v.AsObject()
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range obj.SortedKeys() {
			child, _ := v.Attribute(k)
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				yamlNode(child),
			)
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func yamlFloat(n float64) string {
	switch {
	case math.IsNaN(n):
		return ".nan"
	case math.IsInf(n, 1):
		return ".inf"
	case math.IsInf(n, -1):
		return "-.inf"
	}
	text := strconv.FormatFloat(n, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	return text
}
