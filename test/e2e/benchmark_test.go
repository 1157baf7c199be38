package e2e_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontrait/adapter/reflected"
	"github.com/mcncl/jsontrait/internal/analyzer"
	"github.com/mcncl/jsontrait/internal/config"
	"github.com/mcncl/jsontrait/internal/parser"
	"github.com/mcncl/jsontrait/pointer"
	"github.com/mcncl/jsontrait/value"
)

// generateNestedJSON creates a deeply nested structure for benchmarking
func generateNestedJSON(depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"timestamp":  time.Now().Format(time.RFC3339),
			"count":      rand.Intn(100),
			"enabled":    rand.Intn(2) == 1,
		}
	}

	result := make(map[string]interface{})
	for i := range width {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(depth-1, width)
	}
	return result
}

// generateWideJSON creates an object with many fields at the same level
func generateWideJSON(fieldCount int) map[string]interface{} {
	result := make(map[string]interface{})

	for i := range fieldCount {
		// Mix different types of fields
		switch i % 5 {
		case 0:
			result[fmt.Sprintf("string_field_%d", i)] = fmt.Sprintf("value_%d", i)
		case 1:
			result[fmt.Sprintf("int_field_%d", i)] = i
		case 2:
			result[fmt.Sprintf("bool_field_%d", i)] = i%2 == 0
		case 3:
			result[fmt.Sprintf("float_field_%d", i)] = float64(i) + 0.5
		case 4:
			result[fmt.Sprintf("object_field_%d", i)] = map[string]interface{}{
				"id":    i,
				"name":  fmt.Sprintf("Object %d", i),
				"value": i * 10,
			}
		}
	}
	return result
}

// encodings renders data in every input format the parser accepts
func encodings(b *testing.B, data any) map[string][]byte {
	b.Helper()
	jsonData, err := json.MarshalIndent(data, "", "  ")
	require.NoError(b, err)
	yamlData, err := yaml.Marshal(data)
	require.NoError(b, err)
	return map[string][]byte{
		config.FormatJSON:   jsonData,
		config.FormatYAML:   yamlData,
		config.FormatGoYAML: yamlData,
	}
}

// BenchmarkDeepNesting parses and walks deeply nested documents
func BenchmarkDeepNesting(b *testing.B) {
	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},   // Moderate nesting
		{"Depth5Width2", 5, 2},   // Deep nesting
		{"Depth2Width10", 2, 10}, // Wide but shallow
	}

	for _, depth := range depths {
		data := generateNestedJSON(depth.depth, depth.width)
		for format, encoded := range encodings(b, data) {
			b.Run(depth.name+"/"+format, func(b *testing.B) {
				for b.Loop() {
					doc, err := parser.ParseBytes(encoded, "", format)
					require.NoError(b, err)
					report := analyzer.NewAnalyzer().Analyze(doc)
					require.NotEmpty(b, report.Entries)
				}
			})
		}
	}
}

// BenchmarkWideStructures canonicalizes objects with many fields
func BenchmarkWideStructures(b *testing.B) {
	widths := []struct {
		name       string
		fieldCount int
	}{
		{"Fields10", 10},     // Small structure
		{"Fields100", 100},   // Large structure
		{"Fields1000", 1000}, // Extreme case
	}

	for _, width := range widths {
		data := generateWideJSON(width.fieldCount)
		for format, encoded := range encodings(b, data) {
			b.Run(width.name+"/"+format, func(b *testing.B) {
				for b.Loop() {
					doc, err := parser.ParseBytes(encoded, "", format)
					require.NoError(b, err)
					require.Equal(b, width.fieldCount, doc.Canonical().Len())
				}
			})
		}
		b.Run(width.name+"/reflected", func(b *testing.B) {
			for b.Loop() {
				v := value.From(reflected.Of(data))
				require.Equal(b, width.fieldCount, v.Len())
			}
		})
	}
}

// BenchmarkArrayProcessing resolves pointers into large arrays
func BenchmarkArrayProcessing(b *testing.B) {
	sizes := []struct {
		name      string
		arraySize int
	}{
		{"Array100", 100},
		{"Array1000", 1000},
		{"Array5000", 5000},
	}

	for _, size := range sizes {
		array := make([]map[string]interface{}, size.arraySize)
		for i := range size.arraySize {
			array[i] = map[string]interface{}{
				"id":       i,
				"name":     fmt.Sprintf("Item %d", i),
				"value":    rand.Float64() * 100,
				"active":   i%2 == 0,
				"category": fmt.Sprintf("Category %d", i%5),
			}
		}
		canonical := value.From(reflected.Of(array))
		last := pointer.Format([]string{fmt.Sprint(size.arraySize - 1), "category"})

		b.Run(size.name, func(b *testing.B) {
			for b.Loop() {
				v, ok := pointer.Resolve(canonical, last)
				require.True(b, ok)
				require.Equal(b, "string", v.Kind().String())
			}
		})
	}
}
