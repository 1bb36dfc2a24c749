// Package objectstore keeps generated report files for download, either on
// the local disk or in an S3 bucket.
package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/reports"
)

// DownloadPath is the API route serving stored reports.
const DownloadPath = "/api/v1/reports/stock-movement/%s/download"

const (
	dataFile = "data"
	metaFile = "meta.json"
)

// DownloadURL builds the API download link of an artifact.
func DownloadURL(baseURL string, a *reports.Artifact) string {
	return strings.TrimRight(baseURL, "/") + fmt.Sprintf(DownloadPath, url.PathEscape(a.ID)) +
		"?filename=" + url.QueryEscape(a.FileName)
}

type meta struct {
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Local stores artifacts under a directory, one sub-directory per id.
type Local struct {
	dir     string
	baseURL string
}

var _ reports.ArtifactStore = (*Local)(nil)

// NewLocal creates the directory if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Local{dir: dir, baseURL: baseURL}, nil
}

// Put implements reports.ArtifactStore.
func (s *Local) Put(_ context.Context, a *reports.Artifact) error {
	dir, err := s.path(a.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create artifact %s: %w", a.ID, err)
	}

	m, err := json.Marshal(meta{FileName: a.FileName, ContentType: a.ContentType, CreatedAt: a.CreatedAt})
	if err != nil {
		return fmt.Errorf("encode artifact meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataFile), a.Data, 0o640); err != nil {
		return fmt.Errorf("write artifact %s: %w", a.ID, err)
	}
	// Meta is written last so a readable meta implies complete data.
	if err := os.WriteFile(filepath.Join(dir, metaFile), m, 0o640); err != nil {
		return fmt.Errorf("write artifact %s meta: %w", a.ID, err)
	}
	return nil
}

// Get implements reports.ArtifactStore.
func (s *Local) Get(_ context.Context, id string) (*reports.Artifact, error) {
	dir, err := s.path(id)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(dir, metaFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperror.NewNotFound("report", id)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s meta: %w", id, err)
	}
	var m meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode artifact %s meta: %w", id, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, dataFile))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", id, err)
	}
	return &reports.Artifact{
		ID:          id,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		Data:        data,
		CreatedAt:   m.CreatedAt,
	}, nil
}

// URL implements reports.ArtifactStore.
func (s *Local) URL(_ context.Context, a *reports.Artifact) (string, error) {
	return DownloadURL(s.baseURL, a), nil
}

func (s *Local) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", apperror.NewNotFound("report", id)
	}
	return filepath.Join(s.dir, id), nil
}
