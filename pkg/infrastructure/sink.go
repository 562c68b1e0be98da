package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes exported PDFs into a directory.
type FileSink struct {
	Dir string
}

func (s FileSink) Deliver(ctx context.Context, filename string, pdf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	// filename comes from user-entered names
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// BufferSink keeps the last delivered PDF in memory, e.g. to stream it back
// in an HTTP response.
type BufferSink struct {
	Filename string
	PDF      []byte
}

func (s *BufferSink) Deliver(ctx context.Context, filename string, pdf []byte) error {
	s.Filename = filename
	s.PDF = pdf
	return nil
}
