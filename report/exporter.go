package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ExportJSON writes data as indented JSON, creating the parent folder.
func ExportJSON(filename string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := writeJSON(file, data); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// writeJSON encodes data to w and closes it. A failed close is reported
// since buffered bytes may not have reached disk.
func writeJSON(w io.WriteCloser, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

func TimestampedFilename(baseDir, name string, now time.Time) string {
	return filepath.Join(baseDir, fmt.Sprintf("%s_%s.json", name, now.Format("20060102_150405")))
}
