// internal/report/json.go
// Package report writes the summarized telemetry out as JSON and as a
// self-contained HTML chart page.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/plsummary/internal/logging"
	"github.com/mwiater/plsummary/internal/telemetry"
	"github.com/mwiater/plsummary/internal/util"
)

// summarySchema is the shape contract for the emitted JSON. The writer
// validates its own output against it before touching the filesystem so
// a regression in the summary types is caught here instead of by a
// downstream dashboard.
const summarySchema = `{
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "additionalProperties": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": {
          "type": "object",
          "required": ["values"],
          "properties": {
            "values": {
              "type": "array",
              "items": {
                "type": "array",
                "minItems": 2,
                "maxItems": 2,
                "items": [{"type": "string"}, {"type": "number"}]
              }
            }
          }
        }
      }
    }
  }
}`

// DefaultFileName is used when the output path names a directory.
const DefaultFileName = "summary.json"

// ResolveOutput interprets the --output path. A final component with a
// file suffix is treated as the desired output filename and its parent
// becomes the output directory; anything else is treated as a directory
// that will hold DefaultFileName. A pre-existing regular file at a
// directory-style path is deleted first. The directory is created if
// missing.
func ResolveOutput(path string) (dir string, file string, err error) {
	dir = path
	file = DefaultFileName

	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		logging.LogEvent("Deleting existing JSON file at: %s", dir)
		if err = os.Remove(dir); err != nil {
			return "", "", fmt.Errorf("unable to delete existing file %s: %w", dir, err)
		}
	}

	if _, statErr := os.Stat(dir); os.IsNotExist(statErr) {
		if base := filepath.Base(dir); filepath.Ext(base) != "" {
			file = base
			dir = filepath.Dir(dir)
		}
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("unable to create output directory %s: %w", dir, err)
		}
	}
	return dir, file, nil
}

// WriteSummary validates and writes the summary tree as JSON, returning
// the full path of the written file.
func WriteSummary(dir, file string, summary telemetry.Summary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to marshal summary JSON: %w", err)
	}

	if err := validateSummaryJSON(data); err != nil {
		return "", err
	}

	path := filepath.Join(dir, file)
	if err := util.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("unable to write summary JSON %s: %w", path, err)
	}
	return path, nil
}

func validateSummaryJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(summarySchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("summary schema validation failed to run: %w", err)
	}
	if !result.Valid() {
		msgs := ""
		for _, desc := range result.Errors() {
			msgs += fmt.Sprintf("\n  - %s", desc)
		}
		return fmt.Errorf("summary JSON does not match its schema:%s", msgs)
	}
	return nil
}
