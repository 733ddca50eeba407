package pipeline

import (
	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout runs the lanes engine over a feed and wraps the result in a
// serializable Layout. The feed must be in child-before-parent order, which
// every loader in this module guarantees.
func ComputeLayout(commits []feed.Commit, opts Options) graph.Layout {
	opts.SetLayoutDefaults()

	engineOpts := []lanes.Option{lanes.WithPaletteSize(opts.PaletteSize)}
	if opts.FirstParent {
		engineOpts = append(engineOpts, lanes.WithFirstParentOnly())
	}

	g := lanes.Build(feed.Refs(commits), engineOpts...)
	l := graph.FromLanes(commits, g, opts.PaletteSize)
	l.FirstParent = opts.FirstParent

	opts.Logger.Debug("layout computed",
		"commits", len(commits),
		"lanes", g.Lanes,
		"lines", len(g.Lines),
		"links", len(g.Links))
	return l
}
