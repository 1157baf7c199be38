package parser

import (
	"bytes"
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goyamlparser "github.com/goccy/go-yaml/parser"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontrait/adapter/dynamic"
	"github.com/mcncl/jsontrait/adapter/goyaml"
	"github.com/mcncl/jsontrait/adapter/yamlv3"
	"github.com/mcncl/jsontrait/internal/config"
	"github.com/mcncl/jsontrait/internal/debug"
	"github.com/mcncl/jsontrait/internal/document"
	"github.com/mcncl/jsontrait/internal/errors" // Custom errors package
)

// DetectFormat picks a decoder for a document. The file extension decides
// when it is known; otherwise content opening with { or [ is JSON and
// anything else is YAML.
func DetectFormat(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return config.FormatJSON
	case ".yml", ".yaml":
		return config.FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return config.FormatJSON
	}
	return config.FormatYAML
}

// Parse reads a whole document from reader and decodes it in format. The
// name is used for format detection and messages.
func Parse(reader io.Reader, name, format string) (document.Node, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to read '%s'", name), err)
	}
	return ParseBytes(data, name, format)
}

// ParseBytes decodes a single document held in data.
func ParseBytes(data []byte, name, format string) (document.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if format == "" || format == config.FormatAuto {
		format = DetectFormat(name, data)
	}
	debug.Logf("decoding %s as %s (%d bytes)", name, format, len(data))

	switch format {
	case config.FormatJSON:
		return parseJSON(data)
	case config.FormatYAML:
		return parseYAML(data)
	case config.FormatGoYAML:
		return parseGoYAML(data)
	}
	return nil, errors.NewInputError(fmt.Sprintf("format '%s'", format), errors.ErrUnsupportedFormat)
}

func parseJSON(data []byte) (document.Node, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Keep integers apart from numbers

	var root any
	if err := decoder.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	// Only whitespace may follow the first value
	if decoder.More() {
		var trailingValue any
		if err := decoder.Decode(&trailingValue); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return nil, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
			}
		} else {
			return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleDocuments)
		}
	}

	return document.Wrap(dynamic.Of(root)), nil
}

func parseYAML(data []byte) (document.Node, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var root yaml.Node
	if err := decoder.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input contains no YAML document", errors.ErrEmptyInput)
		}
		return nil, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}

	var trailing yaml.Node
	if err := decoder.Decode(&trailing); err == nil {
		return nil, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleDocuments)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}

	return document.Wrap(yamlv3.Of(&root)), nil
}

func parseGoYAML(data []byte) (document.Node, error) {
	file, err := goyamlparser.ParseBytes(data, 0)
	if err != nil {
		return nil, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}
	if len(file.Docs) > 1 {
		return nil, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleDocuments)
	}
	return document.Wrap(goyaml.OfFile(file)), nil
}

// ParseString parses a document from a string
func ParseString(input, format string) (document.Node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(input), "<string>", format)
}

// ParseFile parses a document from a file path
func ParseFile(filePath, format string) (document.Node, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrNoInput)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return ParseBytes(data, filePath, format)
}
