package feed

import (
	"bytes"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// dateOrder sorts commits the way `git log --date-order` does and keeps the
// first limit. A commit becomes ready once all of its children inside the set
// have been emitted; ready commits come out newest first.
func dateOrder(commits map[plumbing.Hash]*object.Commit, limit int) []*object.Commit {
	children := make(map[plumbing.Hash]int, len(commits))
	for _, c := range commits {
		for _, p := range uniqueParents(c) {
			if _, ok := commits[p]; ok {
				children[p]++
			}
		}
	}

	ready := binaryheap.NewWith(newerFirst)
	for h, c := range commits {
		if children[h] == 0 {
			ready.Push(c)
		}
	}

	out := make([]*object.Commit, 0, min(limit, len(commits)))
	for len(out) < limit {
		v, ok := ready.Pop()
		if !ok {
			break
		}
		c := v.(*object.Commit)
		out = append(out, c)
		for _, p := range uniqueParents(c) {
			pc, ok := commits[p]
			if !ok {
				continue
			}
			children[p]--
			if children[p] == 0 {
				ready.Push(pc)
			}
		}
	}
	return out
}

// newerFirst orders by committer time descending, then by hash for stability.
func newerFirst(a, b interface{}) int {
	ca, cb := a.(*object.Commit), b.(*object.Commit)
	ta, tb := ca.Committer.When, cb.Committer.When
	switch {
	case ta.After(tb):
		return -1
	case tb.After(ta):
		return 1
	}
	return bytes.Compare(ca.Hash[:], cb.Hash[:])
}

// uniqueParents drops repeated parent hashes, which git allows in merges
// created by plumbing commands.
func uniqueParents(c *object.Commit) []plumbing.Hash {
	if len(c.ParentHashes) < 2 {
		return c.ParentHashes
	}
	out := make([]plumbing.Hash, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		dup := false
		for _, q := range out {
			if q == p {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}
