package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/feed"
)

// ReadJSON decodes a JSON commit feed from r.
//
// ReadJSON returns an INVALID_FEED error if:
//   - The JSON is malformed or has no "commits" array
//   - A commit has an empty sha
//
// Duplicate SHAs and unknown parents are accepted; the layout engine
// tolerates both. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]feed.Commit, error) {
	var doc struct {
		Commits *[]feed.Commit `json:"commits"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFeed, err, "decode feed")
	}
	if doc.Commits == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidFeed, `feed has no "commits" array`)
	}
	for i, c := range *doc.Commits {
		if c.SHA == "" {
			return nil, apperr.New(apperr.ErrCodeInvalidFeed, "commit %d: empty sha", i)
		}
	}
	return *doc.Commits, nil
}

// ImportJSON reads a JSON file at path and returns the decoded feed.
func ImportJSON(path string) ([]feed.Commit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadFeed reads either a JSON feed or `git log` text output. Input whose
// first non-space byte is '{' is treated as JSON.
func ReadFeed(r io.Reader) ([]feed.Commit, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return []feed.Commit{}, nil
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidFeed, err, "read feed")
		}
		if !unicode.IsSpace(rune(b[0])) {
			break
		}
		_, _ = br.ReadByte()
	}
	if b, _ := br.Peek(1); b[0] == '{' {
		return ReadJSON(br)
	}
	return feed.ParseLog(br)
}

// ImportFeed opens path and reads it with [ReadFeed].
func ImportFeed(path string) ([]feed.Commit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadFeed(f)
}
