// Package seed holds the baseline dataset replayed by the reset workflow.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed dump.sql
var dump string

// Default returns the embedded seed script.
func Default() string {
	return dump
}

// Load returns the script at path, or the embedded script when path is empty.
func Load(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return dump, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read seed script: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("seed script %s is empty", path)
	}
	return string(b), nil
}
