package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the command line tool with stdin and returns stdout, stderr
// and the run error
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestCLI_FileInput tests reading a document from a file
func TestCLI_FileInput(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"name": "John Doe",
		"age": 30,
		"address": {
			"street": "123 Main St",
			"zip": "12345"
		},
		"phones": [
			{"type": "home", "number": "555-1234"},
			{"type": "work", "number": "555-5678"}
		]
	}`
	jsonFile := filepath.Join(tempDir, "test.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))

	stdout, stderr, err := runCLI(t, "", "get", jsonFile, "/phones/1/number")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "\"555-5678\"\n", stdout)

	stdout, stderr, err = runCLI(t, "", "type", jsonFile, "/age")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "integer\n", stdout)

	stdout, stderr, err = runCLI(t, "", "keys", jsonFile, "/address")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "street\nzip\n", stdout)
}

// TestCLI_StdinStdout tests reading a YAML document from stdin
func TestCLI_StdinStdout(t *testing.T) {
	yamlContent := "name: Jane Smith\nage: 25\nactive: true\n"

	stdout, stderr, err := runCLI(t, yamlContent, "--output", "json", "get", "-")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "{\n  \"active\": true,\n  \"age\": 25,\n  \"name\": \"Jane Smith\"\n}\n", stdout)
}

// TestCLI_Walk tests the walk report with the goccy decoder
func TestCLI_Walk(t *testing.T) {
	yamlContent := "items:\n  - id: 1\n  - id: 2\n"

	stdout, stderr, err := runCLI(t, yamlContent, "--format", "goyaml", "walk", "-")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t,
		"(root)\tobject\t1\n/items\tarray\t2\n/items/0\tobject\t1\n/items/0/id\tinteger\n/items/1\tobject\t1\n/items/1/id\tinteger\n",
		stdout)
}

// TestCLI_Diff tests comparing a JSON file with a YAML file
func TestCLI_Diff(t *testing.T) {
	tempDir := t.TempDir()
	first := filepath.Join(tempDir, "a.json")
	second := filepath.Join(tempDir, "b.yaml")
	require.NoError(t, os.WriteFile(first, []byte(`{"a": 1, "b": [true]}`), 0644))
	require.NoError(t, os.WriteFile(second, []byte("a: 2\nb: [true]\n"), 0644))

	stdout, stderr, err := runCLI(t, "", "--color", "never", "diff", "--patch", first, second)
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Contains(t, stdout, "-  \"a\": 1,\n+  \"a\": 2,\n")
	assert.Contains(t, stdout, "{\"a\":2}\n")
}

// TestCLI_Eval tests expression evaluation
func TestCLI_Eval(t *testing.T) {
	stdout, stderr, err := runCLI(t, `{"items": [{"price": 2}, {"price": 3}]}`,
		"eval", "-", `doc.items[0].price + get("/items/1/price") + len(get("/items"))`)
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "7\n", stdout)
}

// TestCLI_Schema tests schema inference from a YAML document
func TestCLI_Schema(t *testing.T) {
	yamlContent := "users:\n  - id: 1\n    name: a\n  - id: 2.5\n    email: b@example.com\n"

	stdout, stderr, err := runCLI(t, yamlContent, "--output", "json", "schema", "-", "/users", "--title", "Users")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"title": "Users",
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"id": {"type": "number"},
				"name": {"type": "string"},
				"email": {"type": "string"}
			},
			"required": ["id"]
		}
	}`, stdout)
}

// TestCLI_Config tests aliases and output settings from a config file
func TestCLI_Config(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "custom.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("output:\n  format: yaml\naliases:\n  firstItem: /items/0\n"), 0644))

	stdout, stderr, err := runCLI(t, `{"items": [{"id": 1, "tags": ["x"]}]}`, "--config", configFile, "get", "-", "@first_item")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "id: 1\ntags:\n  - x\n", stdout)
}

// TestCLI_InvalidJSON tests the CLI with invalid JSON input
func TestCLI_InvalidJSON(t *testing.T) {
	_, stderr, err := runCLI(t, `{"name": "Invalid JSON, "age": 30}`, "get", "-")
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr, "Parsing error: JSON syntax error")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	_, stderr, err := runCLI(t, "", "get", "-")
	assert.Error(t, err, "CLI should fail with empty input")
	assert.Contains(t, stderr, "input is empty")
}

// TestCLI_NotFound tests a pointer that addresses nothing
func TestCLI_NotFound(t *testing.T) {
	stdout, stderr, err := runCLI(t, `{"a": [1]}`, "get", "-", "/a/1")
	assert.Error(t, err, "CLI should fail when nothing is addressed")
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Pointer error: nothing at '/a/1'")
}

// TestCLI_Version tests the version command
func TestCLI_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "jsontrait version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "-c, --config")
	assert.Contains(t, helpOutput, "-f, --format")
	assert.Contains(t, helpOutput, "-o, --output")
	assert.Contains(t, helpOutput, "--color")
	assert.Contains(t, helpOutput, "get")
	assert.Contains(t, helpOutput, "eval")
}
