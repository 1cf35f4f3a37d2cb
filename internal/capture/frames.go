package capture

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cardbox/internal/scanner"
)

// DirectoryFrameSource feeds the scan loop from a directory of stills.
// Each image file is served exactly once, in name order, which stands in
// for a live camera on headless setups: point another device's sync at
// the directory and the loop picks frames up as they land.
type DirectoryFrameSource struct {
	dir string

	mu     sync.Mutex
	served map[string]struct{}
	closed bool
}

// NewDirectoryFrameSource builds a frame source over dir.
func NewDirectoryFrameSource(dir string) *DirectoryFrameSource {
	return &DirectoryFrameSource{
		dir:    dir,
		served: make(map[string]struct{}),
	}
}

// Frame returns the next unserved image, or scanner.ErrNoFrame when the
// directory holds nothing new.
func (d *DirectoryFrameSource) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, scanner.ErrNoFrame
	}

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		if _, done := d.served[entry.Name()]; done {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, scanner.ErrNoFrame
	}
	sort.Strings(names)

	name := names[0]
	d.served[name] = struct{}{}
	img, err := loadImage(filepath.Join(d.dir, name))
	if err != nil {
		// A half-written or non-image file; skip it and wait for the
		// next tick.
		return nil, scanner.ErrNoFrame
	}
	return img, nil
}

// Close marks the source exhausted. Safe to call repeatedly.
func (d *DirectoryFrameSource) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}
