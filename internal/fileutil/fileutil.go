package fileutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is selected by file extension: paths ending in .zst or .lz4
// are compressed document files, anything else is plain text.

// Compressed reports whether the path names a compressed document file.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".lz4")
}

// ReadFile reads the file at path, decompressing it when the extension
// calls for it.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("init zstd reader: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		return out, nil
	case strings.HasSuffix(path, ".lz4"):
		var out bytes.Buffer
		if _, err := io.Copy(&out, lz4.NewReader(bytes.NewReader(data))); err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		return out.Bytes(), nil
	}
	return data, nil
}

// WriteConfig controls WriteFileAtomic.
type WriteConfig struct {
	// Mode is the file mode for the written file; zero means 0o644.
	Mode os.FileMode
	// Lock guards the write with an advisory lock next to the target so
	// concurrent writers of the same document serialize.
	Lock bool
}

// WriteFileAtomic writes data to path via a temp file and rename, creating
// the parent directory if necessary and compressing when the extension
// calls for it.
func WriteFileAtomic(path string, data []byte, cfg WriteConfig) error {
	if cfg.Mode == 0 {
		cfg.Mode = 0o644
	}

	if cfg.Lock {
		lock := flock.New(path + ".lock")
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("lock %s: %w", path, err)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	encoded, err := compress(path, data)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encoded, cfg.Mode); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func compress(path string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(path, ".zst"):
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("init zstd writer: %w", err)
		}
		out := enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("close zstd writer: %w", err)
		}
		return out, nil
	case strings.HasSuffix(path, ".lz4"):
		var out bytes.Buffer
		w := lz4.NewWriter(&out)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("compress %s: %w", path, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("close lz4 writer: %w", err)
		}
		return out.Bytes(), nil
	}
	return data, nil
}
