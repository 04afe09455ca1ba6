package todo

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LoadFile reads collections from path. A missing file is created empty, and
// an empty file holds no collections.
func LoadFile(path string, dec *Decoder) (*List[*Collection], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewList[*Collection](), nil
	}

	collections, err := dec.DecodeCollections(data)
	if err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	return collections, nil
}

// SaveFile writes collections to path. The content goes to a temporary file
// in the same directory which then replaces path, so a failed save leaves the
// previous file intact. A new file gets mode 0644; an existing one keeps its
// permissions.
func SaveFile(path string, collections *List[*Collection]) error {
	data, err := EncodeCollections(collections)
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod data file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	tmpPath = ""
	return nil
}
