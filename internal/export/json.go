// Package export serializes a finished session into the two report
// formats: indented JSON and a multi-section CSV document.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/abhisek/lexiscreen/internal/metrics"
)

// JSON renders the full session structure with human-readable indentation.
func JSON(s metrics.SessionData) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return out, nil
}

// WriteJSON writes the JSON report to w.
func WriteJSON(w io.Writer, s metrics.SessionData) error {
	out, err := JSON(s)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}
