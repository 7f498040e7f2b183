package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// IndexEntry is one row of the asset index: the asset plus the relative
// link to its rendered page. Links use forward slashes regardless of
// platform, since they end up inside markdown.
type IndexEntry struct {
	Name string
	Path string
	Link string
}

// Index renders the grouped index page for a set of exported assets.
// Entries are sorted by link and grouped by their top-level directory;
// entries at the root appear first, ungrouped.
func Index(entries []IndexEntry, opts ...MarkdownOption) ([]byte, error) {
	cfg := newMarkdownConfig(opts)

	sorted := make([]IndexEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Link < sorted[j].Link })

	var buf bytes.Buffer
	buf.WriteString("# Blueprint Index\n\n")
	fmt.Fprintf(&buf, "**Total Blueprints:** %d\n\n", len(sorted))
	buf.WriteString("## All Blueprints\n\n")

	currentGroup := ""
	for _, e := range sorted {
		if group, ok := linkGroup(e.Link); ok && group != currentGroup {
			currentGroup = group
			fmt.Fprintf(&buf, "\n### %s\n\n", group)
		}
		fmt.Fprintf(&buf, "- [%s](%s)\n", e.Name, e.Link)
	}

	if cfg.generatedBy != "" {
		fmt.Fprintf(&buf, "\n---\n_Generated by %s_\n", cfg.generatedBy)
	}
	return buf.Bytes(), nil
}

// linkGroup extracts the top-level directory of a relative link. Root
// entries have no group.
func linkGroup(link string) (string, bool) {
	group, _, found := strings.Cut(link, "/")
	if !found {
		return "", false
	}
	return group, true
}
