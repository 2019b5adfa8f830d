package main

import "testing"

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"release", "v1.2.3", "abcdef123456", "v1.2.3"},
		{"dev with commit", "dev", "abcdef123456", "dev-abcdef1"},
		{"dev short commit", "dev", "abc", "dev-abc"},
		{"dev no commit", "dev", "", "dev"},
		{"dev unknown commit", "dev", "unknown", "dev"},
		{"empty version", "", "1234567890", "dev-1234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatVersion(tt.version, tt.commit); got != tt.want {
				t.Fatalf("formatVersion(%q, %q) = %q, want %q", tt.version, tt.commit, got, tt.want)
			}
		})
	}
}
