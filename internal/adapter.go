package internal

// SourceAdapter is the only shape callers may assume about a data source.
//
// ListSessions and ReadSession absorb storage and parse failures and return
// empty results instead. ReadSession returns an error only when the caller
// hands it a session owned by another source.
type SourceAdapter interface {
	// Name is the stable identifier stored in SessionInfo.Source
	Name() string

	// IsAvailable reports whether the storage root exists, without reading sessions
	IsAvailable() bool

	// ListSessions enumerates session metadata. An empty projectFilter disables filtering.
	ListSessions(projectFilter string) []SessionInfo

	// ReadSession parses one session into entries, in original order
	ReadSession(info SessionInfo) ([]SessionEntry, error)
}

// checkSource returns a SourceMismatchError when info belongs to another adapter
func checkSource(a SourceAdapter, info SessionInfo) error {
	if info.Source != a.Name() {
		return &SourceMismatchError{
			Adapter:   a.Name(),
			Source:    info.Source,
			SessionID: info.SessionID,
		}
	}
	return nil
}
