package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/feed"
)

func sampleFeed() []feed.Commit {
	return []feed.Commit{
		{
			SHA: "m", Parents: []string{"a", "b"}, IsHead: true, Subject: "Merge b",
			When: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Refs: []feed.Ref{{Name: "main", Kind: feed.RefBranch}},
		},
		{SHA: "b", Parents: []string{"r"}, Author: "Bea", Email: "bea@example.com"},
		{SHA: "a", Parents: []string{"r"}},
		{SHA: "r"},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	want := sampleFeed()

	if err := ExportJSON(want, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "{\n  \"commits\": []\n}" {
		t.Errorf("WriteJSON(nil) = %q", got)
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"commits": [`},
		{"missing commits", `{"nodes": []}`},
		{"empty sha", `{"commits": [{"sha": ""}]}`},
		{"wrong type", `{"commits": {"sha": "a"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !apperr.Is(err, apperr.ErrCodeInvalidFeed) {
				t.Errorf("ReadJSON(%s) error = %v, want INVALID_FEED", tt.input, err)
			}
		})
	}
}

func TestReadFeed_Sniffs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"json", "\n  {\"commits\": [{\"sha\": \"a1\"}, {\"sha\": \"b2\"}]}", []string{"a1", "b2"}},
		{"git log", "abcd1\x1f\x1f\x1fA\x1fa@x\x1f0\x1finit\n", []string{"abcd1"}},
		{"empty", "   \n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits, err := ReadFeed(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadFeed: %v", err)
			}
			if len(commits) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(commits), len(tt.want))
			}
			for i, c := range commits {
				if c.SHA != tt.want[i] {
					t.Errorf("commits[%d].SHA = %s, want %s", i, c.SHA, tt.want[i])
				}
			}
		})
	}
}
