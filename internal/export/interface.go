package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/afterpaths/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(info internal.SessionInfo, entries []internal.SessionEntry, w io.Writer) error
	Extension() string
}

// Document is the whole-session shape written by the structured formats
type Document struct {
	Session internal.SessionInfo    `json:"session" yaml:"session"`
	Type    internal.SessionType    `json:"type" yaml:"type"`
	Entries []internal.SessionEntry `json:"entries" yaml:"entries"`
}

// NewDocument pairs a session with its entries
func NewDocument(info internal.SessionInfo, entries []internal.SessionEntry) Document {
	if entries == nil {
		entries = []internal.SessionEntry{}
	}
	return Document{Session: info, Type: info.SessionType(), Entries: entries}
}

// Formats lists the accepted format names
var Formats = []string{"jsonl", "md", "yaml", "json"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// fileNameReplacer strips path separators and parent references from session ids
var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

// FileName returns "<source>-<session id>.<ext>". Ids come from the stores
// and may contain path separators, so the result is always a bare file name.
func FileName(info internal.SessionInfo, e Exporter) string {
	return fmt.Sprintf("%s-%s.%s", info.Source, fileNameReplacer.Replace(info.SessionID), e.Extension())
}
