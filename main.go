package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/mcncl/jsontrait/internal/analyzer"
	"github.com/mcncl/jsontrait/internal/config"
	"github.com/mcncl/jsontrait/internal/debug"
	"github.com/mcncl/jsontrait/internal/differ"
	"github.com/mcncl/jsontrait/internal/document"
	"github.com/mcncl/jsontrait/internal/errors"
	"github.com/mcncl/jsontrait/internal/evaluator"
	"github.com/mcncl/jsontrait/internal/formatter"
	"github.com/mcncl/jsontrait/internal/parser"
	"github.com/mcncl/jsontrait/internal/schema"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Config string `help:"Path to config file. Defaults to the nearest .jsontrait.yml." short:"c" type:"path"`
	Format string `help:"Input format: auto, json, yaml or goyaml." short:"f"`
	Output string `help:"Output format: canonical, json or yaml." short:"o"`
	Color  string `help:"Colorize output: auto, always or never."`
	Debug  bool   `help:"Enable debug logging." short:"d"`

	Get     GetCmd     `cmd:"" help:"Print the value a pointer addresses."`
	Type    TypeCmd    `cmd:"" help:"Print the kind of the value a pointer addresses."`
	Keys    KeysCmd    `cmd:"" help:"Print the sorted keys of an object."`
	Walk    WalkCmd    `cmd:"" help:"Print every pointer in a document with its kind."`
	Diff    DiffCmd    `cmd:"" help:"Compare two documents, in any formats."`
	Eval    EvalCmd    `cmd:"" help:"Evaluate an expression against a document."`
	Schema  SchemaCmd  `cmd:"" help:"Infer a JSON Schema describing a value."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Context holds the runtime context shared by every command
type Context struct {
	Config  *config.Config
	Colored bool
	Stdin   io.Reader
	Stdout  io.Writer
}

// GetCmd prints the addressed value
type GetCmd struct {
	File    string `arg:"" help:"Document to read, or - for stdin."`
	Pointer string `arg:"" optional:"" help:"JSON pointer, or @alias from the config file."`
}

func (c *GetCmd) Run(ctx *Context) error {
	node, err := ctx.resolve(c.File, c.Pointer)
	if err != nil {
		return err
	}
	return ctx.print(node)
}

// TypeCmd prints the kind of the addressed value
type TypeCmd struct {
	File    string `arg:"" help:"Document to read, or - for stdin."`
	Pointer string `arg:"" optional:"" help:"JSON pointer, or @alias from the config file."`
}

func (c *TypeCmd) Run(ctx *Context) error {
	node, err := ctx.resolve(c.File, c.Pointer)
	if err != nil {
		return err
	}
	return ctx.writeln(ctx.formatter().FormatKind(node.Kind()))
}

// KeysCmd prints object keys
type KeysCmd struct {
	File    string `arg:"" help:"Document to read, or - for stdin."`
	Pointer string `arg:"" optional:"" help:"JSON pointer, or @alias from the config file."`
}

func (c *KeysCmd) Run(ctx *Context) error {
	node, err := ctx.resolve(c.File, c.Pointer)
	if err != nil {
		return err
	}
	keys, ok := node.Keys()
	if !ok {
		return errors.NewResolveError(fmt.Sprintf("value at '%s' is %s, not an object", c.Pointer, node.Kind()), nil)
	}
	return ctx.write(ctx.formatter().FormatKeys(keys))
}

// WalkCmd prints a line per value in a document
type WalkCmd struct {
	File     string `arg:"" help:"Document to read, or - for stdin."`
	MaxDepth int    `help:"Stop descending below this depth; 0 walks everything." default:"0"`
	NoHints  bool   `help:"Skip detecting formats such as dates and UUIDs in scalars."`
}

func (c *WalkCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	report := analyzer.NewAnalyzer().WithMaxDepth(c.MaxDepth).WithHints(!c.NoHints).Analyze(doc)
	debug.Dump("kind counts", report.Counts)
	return ctx.write(ctx.formatter().FormatReport(report))
}

// DiffCmd compares two documents after canonicalizing them
type DiffCmd struct {
	First  string `arg:"" help:"First document, or - for stdin."`
	Second string `arg:"" help:"Second document, or - for stdin."`
	Patch  bool   `help:"Also print a merge patch turning the first document into the second."`
}

func (c *DiffCmd) Run(ctx *Context) error {
	if c.First == "-" && c.Second == "-" {
		return errors.NewInputError("only one document can be read from stdin", errors.ErrNoInput)
	}
	a, err := ctx.load(c.First)
	if err != nil {
		return err
	}
	b, err := ctx.load(c.Second)
	if err != nil {
		return err
	}

	result, err := differ.NewDiffer(ctx.Colored).Compare(a.Canonical(), b.Canonical())
	if err != nil {
		return errors.NewOutputError("failed to compare documents", err)
	}
	if result.Equal {
		return ctx.writeln("documents are equal")
	}
	if err := ctx.write(result.Diff); err != nil {
		return err
	}
	if c.Patch {
		return ctx.writeln(string(result.Patch))
	}
	return nil
}

// EvalCmd evaluates an expression
type EvalCmd struct {
	File       string `arg:"" help:"Document to read, or - for stdin."`
	Expression string `arg:"" help:"Expression; doc is the document, get, kind and has take pointers."`
}

func (c *EvalCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	result, err := evaluator.NewEvaluator(doc, ctx.Config.ExpandPointer).Evaluate(c.Expression)
	if err != nil {
		return errors.NewExpressionError("failed to evaluate expression", err)
	}
	out, err := ctx.formatter().Format(result)
	if err != nil {
		return errors.NewOutputError("failed to render result", err)
	}
	return ctx.writeln(out)
}

// SchemaCmd infers a JSON Schema from the addressed value
type SchemaCmd struct {
	File      string `arg:"" help:"Document to read, or - for stdin."`
	Pointer   string `arg:"" optional:"" help:"JSON pointer, or @alias from the config file."`
	Title     string `help:"Title of the generated schema."`
	NoFormats bool   `help:"Do not add string formats such as date-time and uuid."`
}

func (c *SchemaCmd) Run(ctx *Context) error {
	node, err := ctx.resolve(c.File, c.Pointer)
	if err != nil {
		return err
	}
	s := schema.NewInferrer().WithFormats(!c.NoFormats).WithTitle(c.Title).Infer(node.Canonical())

	data, err := json.Marshal(s)
	if err != nil {
		return errors.NewOutputError("failed to encode schema", err)
	}
	out, err := parser.ParseBytes(data, "schema", config.FormatJSON)
	if err != nil {
		return errors.NewOutputError("failed to encode schema", err)
	}
	return ctx.print(out)
}

// VersionCmd shows version information
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *Context) error {
	return ctx.writeln(fmt.Sprintf("jsontrait version %s", Version))
}

func main() {
	var cli CLI
	// Parse CLI arguments with Kong
	parser := kong.Must(&cli,
		kong.Name("jsontrait"),
		kong.Description("Inspect JSON and YAML documents through JSON pointers"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, err := newContext(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := kctx.Run(ctx); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// newContext loads the configuration and sets up the output streams.
func newContext(cli *CLI) (*Context, error) {
	configPath := cli.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, cli.Format, cli.Output, cli.Color, cli.Debug)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}
	if cfg.Dev.Debug {
		debug.Enable(true)
	}
	debug.Dump("configuration", cfg)

	ctx := &Context{
		Config:  cfg,
		Colored: useColor(cfg.Output.Color, os.Stdout),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
	}
	if ctx.Colored {
		ctx.Stdout = colorable.NewColorableStdout()
	}
	return ctx, nil
}

func useColor(mode string, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
}

// load reads one document from a file, or from stdin when path is "-"
func (ctx *Context) load(path string) (document.Node, error) {
	format := ctx.Config.Input.Format
	if path == "-" {
		return parser.Parse(ctx.Stdin, "stdin", format)
	}
	return parser.ParseFile(path, format)
}

// resolve loads a document and follows arg, a pointer or an @alias
func (ctx *Context) resolve(path, arg string) (document.Node, error) {
	doc, err := ctx.load(path)
	if err != nil {
		return nil, err
	}
	ptr, err := ctx.Config.ExpandPointer(arg)
	if err != nil {
		return nil, errors.NewConfigError("failed to expand pointer", err)
	}
	debug.Logf("resolving %q", ptr)
	node, ok := doc.Resolve(ptr)
	if !ok {
		return nil, errors.NewResolveError(fmt.Sprintf("nothing at '%s'", ptr), errors.ErrNotFound)
	}
	return node, nil
}

func (ctx *Context) formatter() *formatter.Formatter {
	return formatter.NewFormatterWithConfig(ctx.Config, ctx.Colored)
}

func (ctx *Context) print(node document.Node) error {
	out, err := ctx.formatter().Format(node.Canonical())
	if err != nil {
		return errors.NewOutputError("failed to render value", err)
	}
	return ctx.writeln(out)
}

func (ctx *Context) write(s string) error {
	if _, err := io.WriteString(ctx.Stdout, s); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func (ctx *Context) writeln(s string) error {
	return ctx.write(s + "\n")
}
