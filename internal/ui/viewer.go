package ui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
)

const (
	errLoadPosts = "Failed to load posts"
	errLoadPost  = "Failed to load post"
)

// blogViewer owns the post list, the selection, and the fetch flags. It does
// no I/O: Select and Reload report what to fetch and the apply methods take
// the results back.
type blogViewer struct {
	posts          []blog.Post
	selectedID     string
	selected       *blog.Post
	loading        bool
	initialLoading bool
	err            string
	lastRequest    *time.Duration

	// seq identifies the newest post fetch; listSeq the newest list fetch.
	seq     int
	listSeq int
}

// postFetch names a single-post request the caller must issue.
type postFetch struct {
	seq int
	id  int64
}

func newBlogViewer() blogViewer {
	return blogViewer{initialLoading: true, listSeq: 1}
}

// Reload starts a fresh list fetch and returns its sequence number.
func (v *blogViewer) Reload() int {
	v.listSeq++
	v.initialLoading = true
	return v.listSeq
}

// ApplyPosts records the result of a list fetch.
func (v *blogViewer) ApplyPosts(seq int, posts []blog.Post, err error) bool {
	if seq != v.listSeq {
		return false
	}
	defer func() { v.initialLoading = false }()

	if err != nil {
		var statusErr *blog.StatusError
		switch {
		case errors.As(err, &statusErr):
			v.err = fmt.Sprintf("Failed to fetch posts: %d", statusErr.Status)
		case err.Error() != "":
			v.err = err.Error()
		default:
			v.err = errLoadPosts
		}
		return true
	}
	v.posts = posts
	v.err = ""
	return true
}

// Select changes the selection. A blank id clears it and returns nil;
// otherwise the returned fetch must be issued.
func (v *blogViewer) Select(id string) *postFetch {
	v.selectedID = id
	v.seq++

	if id == "" {
		v.selected = nil
		v.lastRequest = nil
		// Any in-flight fetch is now stale and will be dropped.
		v.loading = false
		return nil
	}

	v.loading = true
	v.err = ""
	postID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || postID <= 0 {
		// Options are built from post ids, so this only guards bad input.
		postID = 0
	}
	return &postFetch{seq: v.seq, id: postID}
}

// ApplyPost records the result of a post fetch. elapsed is zero when no
// response arrived, in which case the previous load time is kept. It returns
// false for responses belonging to a superseded selection.
func (v *blogViewer) ApplyPost(seq int, post blog.Post, elapsed time.Duration, err error) bool {
	if seq != v.seq {
		return false
	}
	defer func() { v.loading = false }()

	if err == nil || elapsed > 0 {
		d := elapsed
		v.lastRequest = &d
	}

	if err != nil {
		var statusErr *blog.StatusError
		switch {
		case errors.Is(err, blog.ErrNotFound):
			v.err = "Post not found"
		case errors.As(err, &statusErr):
			v.err = fmt.Sprintf("Failed to fetch post: %d", statusErr.Status)
		case err.Error() != "":
			v.err = err.Error()
		default:
			v.err = errLoadPost
		}
		v.selected = nil
		return true
	}
	v.selected = &post
	return true
}

// ShowPost reports whether the post body should be rendered.
func (v blogViewer) ShowPost() bool {
	return v.selected != nil && v.lastRequest != nil && !v.loading
}
