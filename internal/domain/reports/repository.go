package reports

import (
	"context"
	"time"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/movement"
)

// Snapshot is a read-only view of the record store fixed at one point in
// time. A Snapshot is used by one goroutine at a time.
type Snapshot interface {
	movement.Source
	Catalog() catalog.Repository

	// Attach runs fn on another view observing the same point in time.
	// The attached view may be used concurrently with this one.
	Attach(ctx context.Context, fn func(ctx context.Context, view Snapshot) error) error
}

// Store opens snapshots of the record store.
type Store interface {
	// View runs fn inside one snapshot. The snapshot is released when fn
	// returns.
	View(ctx context.Context, fn func(ctx context.Context, snap Snapshot) error) error
}

// Renderer turns a report matrix into a downloadable file.
type Renderer interface {
	Render(ctx context.Context, m *Matrix) ([]byte, error)
	ContentType() string
	// Extension is the file name suffix, dot included.
	Extension() string
}

// Artifact is a stored report file.
type Artifact struct {
	ID          string
	FileName    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// ArtifactStore keeps generated files for download.
type ArtifactStore interface {
	Put(ctx context.Context, a *Artifact) error
	Get(ctx context.Context, id string) (*Artifact, error)
	// URL returns where the artifact can be downloaded from.
	URL(ctx context.Context, a *Artifact) (string, error)
}
