// Package views computes what a consumer should currently display, purely
// as a function of the store snapshot and the filter state. It keeps no
// state of its own and is recomputed on every read.
package views

import (
	"sort"
	"strings"

	"memoclient/application/filter"
	"memoclient/domain"
)

// FeedOptions select the scope and display mode of a memo feed
type FeedOptions struct {
	// Creator restricts the feed to one user's memos when set (profile view)
	Creator string
	// TopLevelOnly hides memos that hang under a parent (comments)
	TopLevelOnly bool
	// DisplayWithUpdatedTs presents memos under their update timestamp
	// instead of their creation timestamp
	DisplayWithUpdatedTs bool
}

// Feed returns the ordered memo list to render. Archived memos and memos
// outside the scope never show; every set filter field is an AND-ed
// predicate. Pinned memos come first, each group sorted by display
// timestamp descending with a stable sort so equal timestamps keep their
// cache order.
func Feed(memos []*domain.Memo, state filter.State, opts FeedOptions) []*domain.Memo {
	shown := make([]*domain.Memo, 0, len(memos))
	for _, memo := range memos {
		if memo.RowStatus != domain.RowStatusNormal {
			continue
		}
		if opts.Creator != "" && memo.CreatorUsername() != opts.Creator {
			continue
		}
		if opts.TopLevelOnly && memo.ParentID != nil {
			continue
		}
		if !matches(memo, state, opts) {
			continue
		}
		shown = append(shown, memo)
	}

	pinned := make([]*domain.Memo, 0, len(shown))
	unpinned := make([]*domain.Memo, 0, len(shown))
	for _, memo := range shown {
		if memo.Pinned {
			pinned = append(pinned, memo)
		} else {
			unpinned = append(unpinned, memo)
		}
	}

	byDisplayTsDesc := func(memos []*domain.Memo) func(i, j int) bool {
		return func(i, j int) bool {
			return memos[i].DisplayTs(opts.DisplayWithUpdatedTs) > memos[j].DisplayTs(opts.DisplayWithUpdatedTs)
		}
	}
	sort.SliceStable(pinned, byDisplayTsDesc(pinned))
	sort.SliceStable(unpinned, byDisplayTsDesc(unpinned))

	return append(pinned, unpinned...)
}

func matches(memo *domain.Memo, state filter.State, opts FeedOptions) bool {
	if state.Tag != "" {
		if _, ok := domain.ContentTagSet(memo.Content)[state.Tag]; !ok {
			return false
		}
	}
	if d := state.Duration; d != nil && d.From < d.To {
		ts := memo.DisplayTs(opts.DisplayWithUpdatedTs)
		if ts < d.From || ts >= d.To {
			return false
		}
	}
	if state.Text != "" {
		if !strings.Contains(strings.ToLower(memo.Content), strings.ToLower(state.Text)) {
			return false
		}
	}
	if state.Visibility != "" && memo.Visibility != state.Visibility {
		return false
	}
	return true
}
