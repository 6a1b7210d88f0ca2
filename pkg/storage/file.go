package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
)

// File stores the last-purchase record as a small JSON document:
//
//	{"date": "2025-04-07T09:30:12.481516-04:00"}
type File struct {
	path string
}

// NewFile returns a file-backed store at path. The file is created on the
// first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the location of the state file.
func (f *File) Path() string { return f.path }

type fileRecord struct {
	Date string `json:"date"`
}

func (f *File) Load(_ context.Context) (model.PurchaseRecord, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.PurchaseRecord{}, ErrNoRecord
	}
	if err != nil {
		return model.PurchaseRecord{}, fmt.Errorf("read state file: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.PurchaseRecord{}, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, f.path, err)
	}
	if rec.Date == "" {
		return model.PurchaseRecord{}, fmt.Errorf("%w: %s has no date", ErrCorrupt, f.path)
	}

	t, err := parseTime(rec.Date)
	if err != nil {
		return model.PurchaseRecord{}, err
	}
	return model.PurchaseRecord{Date: t}, nil
}

func (f *File) Save(_ context.Context, record model.PurchaseRecord) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	body, err := json.Marshal(fileRecord{Date: formatTime(record.Date)})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".last_purchase-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }
