// Package io provides JSON import and export for commit feeds.
//
// # JSON Format
//
// A feed is an object with one array, newest commit first:
//
//	{
//	  "commits": [
//	    {"sha": "9fceb02", "parents": ["7c3e1aa", "e83c516"], "is_head": true, "subject": "Merge feature"},
//	    {"sha": "e83c516", "parents": ["4a1b2c3"], "subject": "Add feature"},
//	    {"sha": "7c3e1aa", "parents": ["4a1b2c3"]},
//	    {"sha": "4a1b2c3"}
//	  ]
//	}
//
// Only sha is required. parents lists parent SHAs first parent first; a
// parent missing from the feed is allowed and is drawn running off the
// bottom of the graph. The optional fields (subject, author, email, when,
// refs) are carried through to renderers.
//
// # Import
//
// Use [ImportJSON] to read a feed from a file path, or [ReadJSON] to read
// from any io.Reader. [ReadFeed] additionally accepts `git log` output in
// [feed.LogFormat], choosing the parser from the first byte of input.
//
// # Export
//
// Use [ExportJSON] to write a feed to a file, or [WriteJSON] to write to any
// io.Writer. Output is indented and re-imports identically.
//
// [feed.LogFormat]: github.com/matzehuels/gitlanes/pkg/feed.LogFormat
package io
