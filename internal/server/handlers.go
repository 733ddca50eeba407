package server

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gitlanes/pkg/cache"
	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/pipeline"
	"github.com/matzehuels/gitlanes/pkg/store"
)

// graphFormats are the formats GET /api/repos/{name}/graph serves.
var graphFormats = []string{pipeline.FormatJSON, pipeline.FormatSVG, pipeline.FormatText}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Repositories
// =============================================================================

func (s *Server) handleListRepos(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.repos))
	for name := range s.repos {
		names = append(names, name)
	}
	slices.Sort(names)
	writeJSON(w, http.StatusOK, map[string][]string{"repos": names})
}

func (s *Server) handleRepoGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := s.repoPath(name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if !slices.Contains(graphFormats, format) {
		writeError(w, r, apperr.New(apperr.ErrCodeInvalidFormat, "format must be json, svg or text, got %q", format))
		return
	}

	opts := pipeline.Options{
		Repo:        path,
		All:         q.Get("all") == "true",
		FirstParent: q.Get("first_parent") == "true",
		NoMessages:  q.Get("messages") == "false",
		Formats:     []string{format},
	}
	if rev := q.Get("rev"); rev != "" {
		opts.Revs = []string{rev}
	}
	for name, dst := range map[string]*int{"limit": &opts.Limit, "top": &opts.Top, "rows": &opts.Rows} {
		n, err := intParam(q.Get(name), name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		*dst = n
	}

	res, err := s.repoRunner(name).Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Feed-Hash", res.FeedHash)
	writeArtifact(w, format, res.Artifacts[format])
}

func (s *Server) repoPath(name string) (string, error) {
	if err := apperr.ValidateRepoName(name); err != nil {
		return "", err
	}
	path, ok := s.repos[name]
	if !ok {
		return "", apperr.New(apperr.ErrCodeRepoNotFound, "unknown repository %q", name)
	}
	return path, nil
}

// repoRunner shares the server's cache but keeps each repository's keys under
// their own prefix.
func (s *Server) repoRunner(name string) *pipeline.Runner {
	r := *s.runner
	r.Keyer = cache.NewScopedKeyer(s.runner.Keyer, "repo:"+name+":")
	return &r
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("%s must be a non-negative integer, got %q", name, v)
	}
	return n, nil
}

// =============================================================================
// Layout
// =============================================================================

type layoutRequest struct {
	Commits     []feed.Commit `json:"commits"`
	PaletteSize int           `json:"palette_size,omitempty"`
	FirstParent bool          `json:"first_parent,omitempty"`
}

// handleLayout runs the lane engine over a posted feed.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Commits == nil {
		writeError(w, r, badRequest("commits is required"))
		return
	}
	if len(req.Commits) > apperr.MaxLimit {
		writeError(w, r, badRequest("too many commits: %d (max %d)", len(req.Commits), apperr.MaxLimit))
		return
	}

	l, err := s.runner.Layout(r.Context(), req.Commits, pipeline.Options{
		PaletteSize: req.PaletteSize,
		FirstParent: req.FirstParent,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := graph.MarshalLayout(l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeArtifact(w, pipeline.FormatJSON, data)
}

// =============================================================================
// Snapshots
// =============================================================================

// snapshotRequest either carries a layout or names a configured repository
// whose current layout is computed and stored.
type snapshotRequest struct {
	Repo   string        `json:"repo"`
	Layout *graph.Layout `json:"layout,omitempty"`
	Limit  int           `json:"limit,omitempty"`
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var l graph.Layout
	switch {
	case req.Layout != nil:
		if err := req.Layout.Validate(); err != nil {
			writeError(w, r, err)
			return
		}
		l = *req.Layout
	case req.Repo != "":
		path, err := s.repoPath(req.Repo)
		if err != nil {
			writeError(w, r, err)
			return
		}
		res, err := s.repoRunner(req.Repo).Execute(r.Context(), pipeline.Options{
			Repo:    path,
			Limit:   req.Limit,
			Formats: []string{pipeline.FormatJSON},
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		l = res.Layout
	default:
		writeError(w, r, badRequest("one of layout or repo is required"))
		return
	}

	snap, err := s.store.Save(r.Context(), store.Snapshot{Repo: req.Repo, Layout: l})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Debug("snapshot saved", "id", snap.ID, "repo", snap.Repo, "rows", l.Rows)
	writeJSON(w, http.StatusCreated, map[string]string{"id": snap.ID})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// snapshotSummary is a listing entry; layouts are fetched one at a time.
type snapshotSummary struct {
	ID        string `json:"id"`
	Repo      string `json:"repo"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"), "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	snaps, err := s.store.List(r.Context(), r.URL.Query().Get("repo"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]snapshotSummary, len(snaps))
	for i, snap := range snaps {
		out[i] = snapshotSummary{ID: snap.ID, Repo: snap.Repo, CreatedAt: snap.CreatedAt.Format(time.RFC3339)}
	}
	writeJSON(w, http.StatusOK, map[string][]snapshotSummary{"snapshots": out})
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
