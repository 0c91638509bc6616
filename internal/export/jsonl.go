package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/afterpaths/internal"
)

// JSONLExporter exports sessions in JSONL format (one entry per line)
type JSONLExporter struct{}

// Export writes each entry as one JSON object per line, in session order
func (e *JSONLExporter) Export(info internal.SessionInfo, entries []internal.SessionEntry, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("failed to encode entry %d of %s: %w", i, info.SessionID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
