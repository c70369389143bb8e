// Package fileutil provides file copy helpers with integrity checks.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// SnapshotPath names the backup written alongside a file before a
// destructive rewrite.
func SnapshotPath(path string) string {
	return path + ".bak"
}

// Snapshot copies src to dst and verifies the copy by size and SHA256.
// A corrupted copy is removed before the error is returned.
func Snapshot(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat snapshot source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open snapshot source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, hasher), in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("snapshot size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}

	sum, err := hashFile(dst)
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("verify snapshot: %w", err)
	}
	if !bytes.Equal(sum, hasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("snapshot hash mismatch: copy corrupted")
	}
	return nil
}

func hashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return nil, err
	}
	return hasher.Sum(nil), nil
}
