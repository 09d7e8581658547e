// Package status provides sync reports, the coordinator status snapshot and
// persistence of the last report.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

//go:generate mockgen -destination=mocks/mock_report_store.go -package=mocks -source=persistence.go ReportStore

const (
	// ReportFileName is the name of the last-report file
	ReportFileName = "last-sync.json"
)

// ReportStore persists the report of the last reconciliation of every domain
type ReportStore interface {
	// SaveReport replaces the stored report
	SaveReport(ctx context.Context, report *Report) error

	// LoadReport loads the stored report.
	// Returns nil without error if no report has been saved yet.
	LoadReport(ctx context.Context) (*Report, error)
}

// fileReportStore implements ReportStore using the local filesystem
type fileReportStore struct {
	basePath string
}

// NewFileReportStore creates a file-based report store.
// basePath is the directory where the report file is stored.
func NewFileReportStore(basePath string) ReportStore {
	return &fileReportStore{
		basePath: basePath,
	}
}

func (f *fileReportStore) filePath() string {
	return filepath.Join(f.basePath, ReportFileName)
}

// SaveReport writes the report to a JSON file. The write is atomic and serialized
// across processes with a file lock.
func (f *fileReportStore) SaveReport(_ context.Context, report *Report) error {
	if report == nil {
		return errors.New("report is nil")
	}
	if err := os.MkdirAll(f.basePath, 0750); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	filePath := f.filePath()
	lock := flock.New(filePath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock status file: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	// Marshal with pretty printing for readability
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sync report %s: %w", report.SyncID, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file: %w", err)
	}

	return nil
}

// LoadReport loads the report from the JSON file
func (f *fileReportStore) LoadReport(_ context.Context) (*Report, error) {
	// #nosec G304 -- path is built from the configured data directory
	data, err := os.ReadFile(f.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing synced yet
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status file: %w", err)
	}

	return &report, nil
}
