package feed

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
)

// Open opens the repository containing path, searching parent directories
// for the .git directory the way git does.
func Open(path string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRepoNotFound, err, "open repository %s", path)
	}
	return repo, nil
}

// Load walks the history of repo and returns up to opts.Limit commits in date
// order: every commit precedes its parents, and among commits whose children
// have all been emitted the newest committer time goes first.
//
// The walk starts at HEAD unless opts.All or opts.Revs say otherwise. Commits
// are decorated with the branches, remote branches and tags pointing at them.
func Load(ctx context.Context, repo *gogit.Repository, opts Options) ([]Commit, error) {
	opts.SetDefaults()

	head, err := repo.Head()
	if err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidRevision, err, "resolve HEAD")
	}

	decorations, seeds, err := collectRefs(repo, head)
	if err != nil {
		return nil, err
	}

	switch {
	case len(opts.Revs) > 0:
		seeds = seeds[:0]
		for _, rev := range opts.Revs {
			if err := apperr.ValidateRevision(rev); err != nil {
				return nil, err
			}
			h, err := repo.ResolveRevision(plumbing.Revision(rev))
			if err != nil {
				return nil, apperr.Wrap(apperr.ErrCodeInvalidRevision, err, "unknown revision %s", rev)
			}
			seeds = append(seeds, *h)
		}
	case !opts.All:
		seeds = seeds[:0]
		if head != nil {
			seeds = append(seeds, head.Hash())
		}
	}
	if len(seeds) == 0 {
		return []Commit{}, nil
	}

	objs, err := walk(ctx, repo, seeds, opts.MaxScan)
	if err != nil {
		return nil, err
	}
	ordered := dateOrder(objs, opts.Limit)

	var headHash plumbing.Hash
	if head != nil {
		headHash = head.Hash()
	}
	out := make([]Commit, len(ordered))
	for i, c := range ordered {
		out[i] = fromObject(c)
		out[i].IsHead = c.Hash == headHash
		out[i].Refs = decorations[c.Hash]
	}
	return out, nil
}

// walk collects up to maxScan commits reachable from seeds.
func walk(ctx context.Context, repo *gogit.Repository, seeds []plumbing.Hash, maxScan int) (map[plumbing.Hash]*object.Commit, error) {
	seen := make(map[plumbing.Hash]*object.Commit)
	queue := append([]plumbing.Hash(nil), seeds...)

	for len(queue) > 0 && len(seen) < maxScan {
		if len(seen)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		h := queue[0]
		queue = queue[1:]
		if _, ok := seen[h]; ok {
			continue
		}
		c, err := repo.CommitObject(h)
		if err != nil {
			// Shallow clones and partial fetches leave parents unreachable.
			continue
		}
		seen[h] = c
		queue = append(queue, c.ParentHashes...)
	}
	return seen, nil
}

// collectRefs maps commits to their decorations and returns every ref target
// as a walk seed for --all.
func collectRefs(repo *gogit.Repository, head *plumbing.Reference) (map[plumbing.Hash][]Ref, []plumbing.Hash, error) {
	decorations := make(map[plumbing.Hash][]Ref)
	var seeds []plumbing.Hash

	if head != nil {
		decorations[head.Hash()] = append(decorations[head.Hash()], Ref{Name: "HEAD", Kind: RefHead})
		seeds = append(seeds, head.Hash())
	}

	iter, err := repo.References()
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.ErrCodeRepoNotFound, err, "list references")
	}
	err = iter.ForEach(func(r *plumbing.Reference) error {
		if r.Type() != plumbing.HashReference {
			return nil
		}
		name := r.Name()
		var kind RefKind
		switch {
		case name.IsBranch():
			kind = RefBranch
		case name.IsRemote():
			if strings.HasSuffix(name.Short(), "/HEAD") {
				return nil
			}
			kind = RefRemote
		case name.IsTag():
			kind = RefTag
		default:
			return nil
		}

		target := r.Hash()
		if kind == RefTag {
			if tag, err := repo.TagObject(target); err == nil {
				c, err := tag.Commit()
				if err != nil {
					return nil
				}
				target = c.Hash
			}
		}
		decorations[target] = append(decorations[target], Ref{Name: name.Short(), Kind: kind})
		seeds = append(seeds, target)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for _, refs := range decorations {
		sortRefs(refs)
	}
	return decorations, seeds, nil
}

var kindRank = map[RefKind]int{RefHead: 0, RefBranch: 1, RefRemote: 2, RefTag: 3}

// sortRefs orders decorations the way git prints them: HEAD, local branches,
// remote branches, then tags.
func sortRefs(refs []Ref) {
	slices.SortFunc(refs, func(a, b Ref) int {
		if c := cmp.Compare(kindRank[a.Kind], kindRank[b.Kind]); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

func fromObject(c *object.Commit) Commit {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return Commit{
		SHA:     c.Hash.String(),
		Parents: parents,
		Subject: strings.TrimSpace(subject),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		When:    c.Committer.When,
	}
}

// State describes the refs of repo as sorted "name hash" lines, HEAD first.
// Two calls return the same string exactly when no ref moved, which makes it
// a cache key for Load results.
func State(repo *gogit.Repository) (string, error) {
	var lines []string
	iter, err := repo.References()
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeRepoNotFound, err, "list references")
	}
	err = iter.ForEach(func(r *plumbing.Reference) error {
		if r.Type() == plumbing.HashReference && r.Name() != plumbing.HEAD {
			lines = append(lines, r.Name().String()+" "+r.Hash().String())
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	slices.Sort(lines)

	head := "HEAD -"
	if ref, err := repo.Head(); err == nil {
		head = "HEAD " + ref.Hash().String()
	}
	return strings.Join(append([]string{head}, lines...), "\n"), nil
}
