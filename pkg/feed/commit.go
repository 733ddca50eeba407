package feed

import (
	"time"

	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// Default walk bounds.
const (
	DefaultLimit   = 2000
	DefaultMaxScan = 50000
)

// RefKind classifies a decoration.
type RefKind string

const (
	RefBranch RefKind = "branch"
	RefRemote RefKind = "remote"
	RefTag    RefKind = "tag"
	RefHead   RefKind = "head"
)

// Ref is a named pointer decorating a commit.
type Ref struct {
	Name string  `json:"name"`
	Kind RefKind `json:"kind"`
}

// Commit is one entry of a commit feed. Parents are ordered, first parent
// first.
type Commit struct {
	SHA     string    `json:"sha"`
	Parents []string  `json:"parents,omitempty"`
	IsHead  bool      `json:"is_head,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Author  string    `json:"author,omitempty"`
	Email   string    `json:"email,omitempty"`
	When    time.Time `json:"when,omitzero"`
	Refs    []Ref     `json:"refs,omitempty"`
}

// Options control which commits [Load] returns.
type Options struct {
	// Limit is the number of commits returned. Zero means DefaultLimit.
	Limit int `json:"limit,omitempty"`
	// All seeds the walk with every branch, remote and tag instead of HEAD.
	All bool `json:"all,omitempty"`
	// Revs seeds the walk with the given revisions instead of HEAD.
	Revs []string `json:"revs,omitempty"`
	// MaxScan bounds the number of commits visited. Zero means DefaultMaxScan.
	MaxScan int `json:"max_scan,omitempty"`
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MaxScan <= 0 {
		o.MaxScan = DefaultMaxScan
	}
	if o.MaxScan < o.Limit {
		o.MaxScan = o.Limit
	}
}

// Refs converts a feed into layout engine input.
func Refs(commits []Commit) []lanes.CommitRef {
	out := make([]lanes.CommitRef, len(commits))
	for i, c := range commits {
		out[i] = lanes.CommitRef{SHA: c.SHA, Parents: c.Parents, IsHead: c.IsHead}
	}
	return out
}
