package store

import (
	"fmt"
	"strconv"
	"strings"

	"memoclient/domain"
)

// ListCriteria is the structured filter of a memo listing. It is translated
// to the boolean query expression the backend evaluates.
type ListCriteria struct {
	Creator       string // resource name, users/{username}
	RowStatus     domain.RowStatus
	Visibilities  []domain.Visibility
	ContentSearch []string // quoted substrings and #tag markers, AND-ed
	OrderByPinned bool
}

// ExploreCriteria builds the criteria of the shared explore feed. Protected
// memos are only visible when a session user exists.
func ExploreCriteria(hasUser bool, tag, text string) ListCriteria {
	criteria := ListCriteria{
		RowStatus:    domain.RowStatusNormal,
		Visibilities: []domain.Visibility{domain.VisibilityPublic},
	}
	if hasUser {
		criteria.Visibilities = append(criteria.Visibilities, domain.VisibilityProtected)
	}
	if tag != "" {
		criteria.ContentSearch = append(criteria.ContentSearch, "#"+tag)
	}
	if text != "" {
		criteria.ContentSearch = append(criteria.ContentSearch, text)
	}
	return criteria
}

// ProfileCriteria builds the criteria of one user's memo feed
func ProfileCriteria(username string) ListCriteria {
	return ListCriteria{
		Creator:       domain.FormatUserName(username),
		RowStatus:     domain.RowStatusNormal,
		OrderByPinned: true,
	}
}

// Expression renders the criteria as the backend query expression, e.g.
//
//	row_status == "NORMAL" && visibilities == ['PUBLIC', 'PROTECTED']
func (c ListCriteria) Expression() string {
	var clauses []string

	if c.RowStatus != "" {
		clauses = append(clauses, fmt.Sprintf("row_status == %q", string(c.RowStatus)))
	}
	if c.Creator != "" {
		clauses = append(clauses, fmt.Sprintf("creator == %q", c.Creator))
	}
	if len(c.Visibilities) > 0 {
		quoted := make([]string, 0, len(c.Visibilities))
		for _, v := range c.Visibilities {
			quoted = append(quoted, "'"+string(v)+"'")
		}
		clauses = append(clauses, fmt.Sprintf("visibilities == [%s]", strings.Join(quoted, ", ")))
	}
	if len(c.ContentSearch) > 0 {
		quoted := make([]string, 0, len(c.ContentSearch))
		for _, term := range c.ContentSearch {
			quoted = append(quoted, strconv.Quote(term))
		}
		clauses = append(clauses, fmt.Sprintf("content_search == [%s]", strings.Join(quoted, ", ")))
	}
	if c.OrderByPinned {
		clauses = append(clauses, "order_by_pinned == true")
	}

	return strings.Join(clauses, " && ")
}
