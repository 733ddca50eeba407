package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gitlanes/pkg/feed"
)

type document struct {
	Commits []feed.Commit `json:"commits"`
}

// WriteJSON encodes a commit feed as JSON and writes it to w.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(commits []feed.Commit, w io.Writer) error {
	if commits == nil {
		commits = []feed.Commit{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Commits: commits}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a commit feed to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(commits []feed.Commit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(commits, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
