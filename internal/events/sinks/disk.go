package sinks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chargenet/internal/events"
)

// Disk appends occurrences as JSON lines to one file per event name under
// a base directory. Files open lazily on first delivery and stay open.
type Disk struct {
	dir string

	mu    sync.Mutex
	files map[string]*os.File
}

// NewDisk creates the disk sink rooted at dir.
func NewDisk(dir string) *Disk {
	return &Disk{dir: dir, files: make(map[string]*os.File)}
}

func (d *Disk) Name() string { return "disk" }

func (d *Disk) Deliver(_ context.Context, occ events.Occurrence) error {
	line, err := occ.Encode()
	if err != nil {
		return fmt.Errorf("encode occurrence: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.file(occ.Name)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append event log: %w", err)
	}
	return nil
}

// file returns the open log file for an event, creating it on first use.
// Callers hold d.mu.
func (d *Disk) file(event string) (*os.File, error) {
	if f, ok := d.files[event]; ok {
		return f, nil
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create event log dir: %w", err)
	}
	path := filepath.Join(d.dir, event+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log %s: %w", path, err)
	}
	d.files[event] = f
	return f, nil
}

// Close closes all open log files.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var firstErr error
	for _, f := range d.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.files = make(map[string]*os.File)
	return firstErr
}
