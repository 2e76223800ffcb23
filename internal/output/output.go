// Package output handles formatting CLI output as table, JSON, or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Format represents an output format.
type Format int

const (
	FormatTable Format = iota
	FormatJSON
	FormatYAML
)

// Detect returns the format selected by flags, then by the configured
// default ("json", "yaml" or "table").
func Detect(jsonFlag, yamlFlag bool, configured string) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case yamlFlag:
		return FormatYAML
	}
	switch configured {
	case "json":
		return FormatJSON
	case "yaml":
		return FormatYAML
	}
	return FormatTable
}

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// YAML writes data as a YAML document to the given writer.
func YAML(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// JSONError writes a structured error to the given writer as JSON.
func JSONError(w io.Writer, code, msg string) {
	_ = JSON(w, ErrorResponse{Error: msg, Code: code})
}
