package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceMismatch is matched by SourceMismatchError
	ErrSourceMismatch = errors.New("session belongs to another source")
	// ErrUnknownSource is matched by UnknownSourceError
	ErrUnknownSource = errors.New("unknown session source")
)

// StorageError represents errors accessing storage files
type StorageError struct {
	Path string
	Op   string // "open", "query", "read", "stat"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing a stored value
type ParseError struct {
	Source string // store path or session file
	Key    string // storage key or line reference
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SourceMismatchError is returned when a session is read through an adapter that does not own it
type SourceMismatchError struct {
	Adapter   string
	Source    string
	SessionID string
}

func (e *SourceMismatchError) Error() string {
	return fmt.Sprintf("adapter %q cannot read session %s from source %q", e.Adapter, e.SessionID, e.Source)
}

func (e *SourceMismatchError) Is(target error) bool {
	return target == ErrSourceMismatch
}

// UnknownSourceError is returned when no available adapter has the session's source name
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("no available adapter for source %q", e.Source)
}

func (e *UnknownSourceError) Is(target error) bool {
	return target == ErrUnknownSource
}
