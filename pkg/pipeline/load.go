package pipeline

import (
	"context"

	"github.com/matzehuels/gitlanes/pkg/feed"
	gio "github.com/matzehuels/gitlanes/pkg/io"
)

// Load reads the feed named by opts without caching.
func Load(ctx context.Context, opts Options) ([]feed.Commit, error) {
	switch {
	case opts.Commits != nil:
		return opts.Commits, nil
	case opts.Input == "-":
		return gio.ReadFeed(opts.Stdin)
	case opts.Input != "":
		return gio.ImportFeed(opts.Input)
	}

	repo, err := feed.Open(opts.Repo)
	if err != nil {
		return nil, err
	}
	return feed.Load(ctx, repo, opts.FeedOptions())
}
