// Package archive reads LEGI tar archives entry by entry.
package archive

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one regular file of an archive.
type Entry struct {
	Path  string
	MTime int64 // Unix seconds, used as the document version clock
	Data  []byte
}

// Reader yields the regular files of a tar archive in archive order.
type Reader struct {
	tr      *tar.Reader
	closers []io.Closer
}

// Open opens an archive file. The compression is chosen from the file name:
// .tar, .tar.gz / .tgz and .tar.bz2 are supported.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	r, err := NewReader(f, path)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// NewReader wraps an already opened stream; name selects the decompressor.
func NewReader(src io.Reader, name string) (*Reader, error) {
	r := &Reader{}
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("gzip.NewReader failed: %w", err)
		}
		r.closers = append(r.closers, gz)
		src = gz
	case strings.HasSuffix(name, ".tar.bz2"):
		src = bzip2.NewReader(src)
	case strings.HasSuffix(name, ".tar"):
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", name)
	}
	r.tr = tar.NewReader(src)
	return r, nil
}

// Next returns the next regular file, or io.EOF at the end of the archive.
// Directories and other non-regular entries are skipped.
func (r *Reader) Next() (*Entry, error) {
	for {
		header, err := r.tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("tar reading error: %w", err)
		}
		if header.Typeflag != tar.TypeReg || strings.HasSuffix(header.Name, "/") {
			continue
		}

		data, err := io.ReadAll(r.tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return &Entry{
			Path:  header.Name,
			MTime: header.ModTime.Unix(),
			Data:  data,
		}, nil
	}
}

// Close releases the decompressor and the underlying file.
func (r *Reader) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
