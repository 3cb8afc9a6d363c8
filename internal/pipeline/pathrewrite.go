package pipeline

import (
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RebasePaths rewrites relative img[src] and a[href] values of a fragment
// rendered from a file in fromDir so they resolve from toDir instead.
// The fragment is returned byte for byte when nothing needs rewriting.
//
// URLs, anchors and absolute paths are left alone. A query or anchor
// suffix on a relative path is kept.
func RebasePaths(fragment, fromDir, toDir string) (string, error) {
	from, err := filepath.Abs(fromDir)
	if err != nil {
		return "", err
	}
	to, err := filepath.Abs(toDir)
	if err != nil {
		return "", err
	}
	if from == to || !strings.Contains(fragment, "<") {
		return fragment, nil
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	changed := false
	for _, n := range nodes {
		changed = rebaseNode(n, from, to) || changed
	}
	if !changed {
		return fragment, nil
	}

	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rebaseNode(n *html.Node, from, to string) bool {
	changed := false
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			changed = rebaseAttr(n, "src", from, to)
		case atom.A:
			changed = rebaseAttr(n, "href", from, to)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		changed = rebaseNode(c, from, to) || changed
	}
	return changed
}

func rebaseAttr(n *html.Node, key, from, to string) bool {
	changed := false
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}

		path, suffix := attr.Val, ""
		if idx := strings.IndexAny(path, "?#"); idx >= 0 {
			path, suffix = path[:idx], path[idx:]
		}
		if path == "" {
			continue
		}

		rel, err := filepath.Rel(to, filepath.Join(from, filepath.FromSlash(path)))
		if err != nil {
			continue
		}
		n.Attr[i].Val = filepath.ToSlash(rel) + suffix
		changed = true
	}
	return changed
}

// isRelativePath reports whether path is a relative file reference.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, ":") {
		// Schemes (http:, data:, mailto:) and Windows drive letters.
		return false
	}
	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}
