// Package types defines the contract every tracker adapter implements and
// the normalized duplicate-match record shared by all of them.
package types

import (
	"context"
	"errors"

	"github.com/moistari/rls"

	"github.com/halfmoonpt/trackarr/pkg/meta"
)

// ErrUploadNotSupported is returned by adapters for sites that only
// expose credential validation and duplicate search.
var ErrUploadNotSupported = errors.New("upload is not supported for this tracker")

// Client is the per-tracker adapter contract. Implementations are
// standalone: none calls into another, and every call is a single
// attempt with a fixed deadline.
type Client interface {
	Name() string

	// ValidateCredentials issues one authenticated request and reports
	// whether the session (cookie or API key) is usable.
	ValidateCredentials(ctx context.Context, m *meta.Meta) (bool, error)

	// SearchExisting queries the site for already-uploaded releases of
	// the same work. An empty IMDb id short-circuits to an empty result
	// without a network call.
	SearchExisting(ctx context.Context, m *meta.Meta, discType string) ([]Dupe, error)

	// Upload submits the release and, on success, records the remote
	// torrent id in the meta record's tracker status.
	Upload(ctx context.Context, m *meta.Meta, discType string) (bool, error)
}

// Dupe is the normalized representation of one existing-torrent hit.
// Fields a site's response does not carry are inferred from the release
// name so the downstream comparison contract stays uniform.
type Dupe struct {
	Name       string
	Size       int64
	Resolution string
	Source     string
	FileCount  int
	Link       string
}

// Normalize fills missing Resolution and Source by parsing the release
// name. Fields the site already supplied are left untouched.
func (d Dupe) Normalize() Dupe {
	if d.Name == "" || (d.Resolution != "" && d.Source != "") {
		return d
	}
	r := rls.ParseString(d.Name)
	if d.Resolution == "" {
		d.Resolution = r.Resolution
	}
	if d.Source == "" {
		d.Source = r.Source
	}
	return d
}

// NormalizeAll applies Normalize to every record.
func NormalizeAll(dupes []Dupe) []Dupe {
	for i := range dupes {
		dupes[i] = dupes[i].Normalize()
	}
	return dupes
}
