package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readDump reads a dump file as UTF-8. A byte order mark is dropped and
// invalid byte sequences become U+FFFD instead of failing the read.
func readDump(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read dump: %w", err)
	}
	text, err := decodeDump(data)
	if err != nil {
		return "", fmt.Errorf("decode dump %s: %w", path, err)
	}
	return text, nil
}

func decodeDump(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// writeScript writes the migration script, creating the parent directory.
func writeScript(path, script string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}
