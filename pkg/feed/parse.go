package feed

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
)

// LogFormat is the --format argument ParseLog understands:
//
//	git log --date-order --format='%H%x1f%P%x1f%D%x1f%an%x1f%ae%x1f%ct%x1f%s'
//
// Add --decorate=full to tell remote branches apart from local ones.
const LogFormat = "%H%x1f%P%x1f%D%x1f%an%x1f%ae%x1f%ct%x1f%s"

const (
	fieldSep   = "\x1f"
	nLogFields = 7
)

// ParseLog reads git log output produced with [LogFormat]. Blank lines are
// ignored and malformed records are skipped; an input with content but no
// valid record is rejected with INVALID_FEED.
func ParseLog(r io.Reader) ([]Commit, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	commits := []Commit{}
	var skipped int
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, ok := parseRecord(line)
		if !ok {
			skipped++
			continue
		}
		commits = append(commits, c)
	}
	if err := sc.Err(); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFeed, err, "read git log")
	}
	if len(commits) == 0 && skipped > 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidFeed, "no commit records in %d lines; expected --format=%s", skipped, LogFormat)
	}
	return commits, nil
}

func parseRecord(line string) (Commit, bool) {
	f := strings.SplitN(line, fieldSep, nLogFields)
	if len(f) != nLogFields || !isHex(f[0]) {
		return Commit{}, false
	}
	c := Commit{
		SHA:     f[0],
		Parents: strings.Fields(f[1]),
		Author:  f[3],
		Email:   f[4],
		Subject: f[6],
	}
	if ts, err := strconv.ParseInt(f[5], 10, 64); err == nil {
		c.When = time.Unix(ts, 0).UTC()
	}
	c.Refs, c.IsHead = parseDecorations(f[2])
	return c, true
}

// parseDecorations reads a %D list such as "HEAD -> main, origin/main, tag: v1".
func parseDecorations(s string) ([]Ref, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	var refs []Ref
	var head bool
	for _, d := range strings.Split(s, ", ") {
		d = strings.TrimSpace(d)
		if name, ok := strings.CutPrefix(d, "HEAD -> "); ok {
			head = true
			refs = append(refs, Ref{Name: "HEAD", Kind: RefHead})
			d = name
		}
		switch {
		case d == "HEAD":
			head = true
			refs = append(refs, Ref{Name: "HEAD", Kind: RefHead})
		case strings.HasPrefix(d, "tag: "):
			name := strings.TrimPrefix(strings.TrimPrefix(d, "tag: "), "refs/tags/")
			refs = append(refs, Ref{Name: name, Kind: RefTag})
		case strings.HasSuffix(d, "/HEAD"):
		case strings.HasPrefix(d, "refs/remotes/"):
			refs = append(refs, Ref{Name: strings.TrimPrefix(d, "refs/remotes/"), Kind: RefRemote})
		case d != "":
			refs = append(refs, Ref{Name: strings.TrimPrefix(d, "refs/heads/"), Kind: RefBranch})
		}
	}
	return refs, head
}

func isHex(s string) bool {
	if len(s) < 4 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
