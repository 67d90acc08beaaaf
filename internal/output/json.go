// Package output renders scores, history and statistics as JSON or tables.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSON writes data as JSON to stdout
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as JSON to the given writer
func JSONTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// JSONCompactTo writes data as compact JSON to the given writer
func JSONCompactTo(w io.Writer, data any) error {
	return json.NewEncoder(w).Encode(data)
}

// Output writes data to stdout in the specified format
func Output(format string, data any) error {
	return OutputTo(os.Stdout, format, data)
}

// OutputTo writes data to w in the specified format
func OutputTo(w io.Writer, format string, data any) error {
	switch format {
	case "json":
		return JSONTo(w, data)
	case "table", "":
		return TableTo(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
