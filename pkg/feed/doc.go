// Package feed produces commit feeds: the ordered commit lists the layout
// engine in [github.com/matzehuels/gitlanes/pkg/lanes] consumes.
//
// A feed comes from one of two places. [Load] walks a repository opened with
// go-git and emits commits in git's date order, decorated with branches,
// remote branches and tags. [ParseLog] reads the text output of
// `git log --format=LogFormat`, which lets gitlanes sit at the end of a pipe:
//
//	git log --date-order --format='%H%x1f%P%x1f%D%x1f%an%x1f%ae%x1f%ct%x1f%s' | gitlanes render -
//
// Both return [Commit] values; [Refs] strips them down to engine input.
package feed
