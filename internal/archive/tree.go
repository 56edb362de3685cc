package archive

import (
	"archive/tar"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// treeNode is one directory or file in the rendered listing.
type treeNode struct {
	name     string
	isDir    bool
	children []*treeNode
	index    map[string]*treeNode
}

func newTreeNode(name string, isDir bool) *treeNode {
	return &treeNode{
		name:  name,
		isDir: isDir,
		index: make(map[string]*treeNode),
	}
}

// child returns the named child, creating it if absent. Children keep
// the order they were first seen in, which is the archive order (and,
// since capture walks lexically, lexical order).
func (n *treeNode) child(name string, isDir bool) *treeNode {
	if existing, ok := n.index[name]; ok {
		if isDir {
			existing.isDir = true
		}
		return existing
	}
	node := newTreeNode(name, isDir)
	n.index[name] = node
	n.children = append(n.children, node)
	return node
}

// RenderTree produces a connector-drawn directory listing of an
// artifact's captured tree. Only tar headers are read; file payloads
// are skipped and nothing is extracted to disk. The root is rendered
// as "." and children appear in archive order.
func RenderTree(r io.Reader) (string, error) {
	if _, err := readMetadataBlock(r); err != nil {
		return "", err
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return "", newError(CorruptTree, "failed to open tree block", "", err)
	}
	defer gz.Close()

	root := newTreeNode(".", true)

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", newError(CorruptTree, "failed to read tar entry", "", err)
		}

		name := strings.Trim(header.Name, "/")
		if name == "" || name == "." {
			continue
		}

		isDir := header.Typeflag == tar.TypeDir
		node := root
		parts := strings.Split(name, "/")
		for i, part := range parts {
			last := i == len(parts)-1
			node = node.child(part, !last || isDir)
		}
	}

	var sb strings.Builder
	sb.WriteString(root.name)
	sb.WriteString("\n")
	renderChildren(&sb, root, "")
	return sb.String(), nil
}

// renderChildren writes the subtree of node using box-drawing connectors.
func renderChildren(sb *strings.Builder, node *treeNode, prefix string) {
	for i, child := range node.children {
		last := i == len(node.children)-1

		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(child.name)
		sb.WriteString("\n")

		renderChildren(sb, child, childPrefix)
	}
}
