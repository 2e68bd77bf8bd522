package domain

import (
	"regexp"
	"sort"
	"strings"
)

// tagMatcher recognizes #tag markers in memo content. Tag paths may contain
// slashes; whitespace, commas and a second # terminate the tag.
var tagMatcher = regexp.MustCompile(`#([^\s#,]+)`)

// ExtractTags returns the distinct tag paths referenced by the content, in
// order of first occurrence. Pure pattern scanning, no side effects.
func ExtractTags(content string) []string {
	matches := tagMatcher.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.Trim(m[1], "/")
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// TagPrefixes expands a slash-delimited tag path into every prefix path,
// e.g. "a/b/c" yields ["a", "a/b", "a/b/c"].
func TagPrefixes(tag string) []string {
	segments := strings.Split(tag, "/")
	prefixes := make([]string, 0, len(segments))
	path := ""
	for i, segment := range segments {
		if i == 0 {
			path = segment
		} else {
			path += "/" + segment
		}
		prefixes = append(prefixes, path)
	}
	return prefixes
}

// ContentTagSet collects every prefix path of every tag in the content.
// Filtering on "a" then matches memos tagged "a/b/c" as well.
func ContentTagSet(content string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tag := range ExtractTags(content) {
		for _, prefix := range TagPrefixes(tag) {
			set[prefix] = struct{}{}
		}
	}
	return set
}

// TagNode is one node of the derived tag tree. Key is the last path segment,
// Text the full reconstructed path.
type TagNode struct {
	Key      string     `json:"key"`
	Text     string     `json:"text"`
	Children []*TagNode `json:"children,omitempty"`
}

// BuildTagTree builds the hierarchical tag forest from the known tag paths.
// Paths are sorted before insertion so the resulting shape is deterministic
// regardless of input order; duplicate paths collapse to one node and missing
// intermediate nodes are created on the way down.
func BuildTagTree(tags []string) []*TagNode {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)

	root := &TagNode{}
	for _, tag := range sorted {
		if tag == "" {
			continue
		}
		node := root
		path := ""
		for i, segment := range strings.Split(tag, "/") {
			if i == 0 {
				path = segment
			} else {
				path += "/" + segment
			}

			var child *TagNode
			for _, c := range node.Children {
				if c.Text == path {
					child = c
					break
				}
			}
			if child == nil {
				child = &TagNode{Key: segment, Text: path}
				node.Children = append(node.Children, child)
			}
			node = child
		}
	}
	return root.Children
}

// FindTagNode walks the forest looking for a node with the given full path
func FindTagNode(forest []*TagNode, text string) *TagNode {
	for _, node := range forest {
		if node.Text == text {
			return node
		}
		if found := FindTagNode(node.Children, text); found != nil {
			return found
		}
	}
	return nil
}
