package memotest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// listFilter is the decoded form of a memo list query expression
type listFilter struct {
	rowStatus     string
	creator       string
	visibilities  []string
	contentSearch []string
	orderByPinned bool
}

var quotedTerm = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)

// parseListFilter decodes the boolean expression built by the client, e.g.
//
//	row_status == "NORMAL" && visibilities == ['PUBLIC'] && order_by_pinned == true
func parseListFilter(expr string) (listFilter, error) {
	var f listFilter
	if expr == "" {
		return f, nil
	}

	for _, clause := range strings.Split(expr, " && ") {
		field, value, found := strings.Cut(clause, " == ")
		if !found {
			return f, fmt.Errorf("malformed filter clause %q", clause)
		}

		switch strings.TrimSpace(field) {
		case "row_status":
			status, err := strconv.Unquote(value)
			if err != nil {
				return f, fmt.Errorf("malformed row_status %q", value)
			}
			f.rowStatus = status
		case "creator":
			creator, err := strconv.Unquote(value)
			if err != nil {
				return f, fmt.Errorf("malformed creator %q", value)
			}
			f.creator = creator
		case "visibilities":
			inner := strings.Trim(value, "[]")
			for _, item := range strings.Split(inner, ",") {
				item = strings.Trim(strings.TrimSpace(item), "'")
				if item != "" {
					f.visibilities = append(f.visibilities, item)
				}
			}
		case "content_search":
			for _, quoted := range quotedTerm.FindAllString(value, -1) {
				term, err := strconv.Unquote(quoted)
				if err != nil {
					return f, fmt.Errorf("malformed content_search term %s", quoted)
				}
				f.contentSearch = append(f.contentSearch, term)
			}
		case "order_by_pinned":
			f.orderByPinned = value == "true"
		default:
			return f, fmt.Errorf("unrecognized filter field %q", field)
		}
	}
	return f, nil
}
