package hierarchy

// AssignLevels sets level, path and child counts on every node reachable from
// roots in a single breadth-first pass. Paths are rebuilt on every call.
func AssignLevels(roots []*Node) {
	queue := make([]*Node, 0, len(roots))
	for _, r := range roots {
		r.Level = 0
		r.Path = []PathEntry{}
		queue = append(queue, r)
	}

	seen := make(map[*Node]bool)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true

		n.ChildrenCount = len(n.Children)
		n.HasChildren = n.ChildrenCount > 0

		for _, c := range n.Children {
			c.Level = n.Level + 1
			path := make([]PathEntry, len(n.Path), len(n.Path)+1)
			copy(path, n.Path)
			c.Path = append(path, PathEntry{ID: n.ID, Name: n.Name})
			queue = append(queue, c)
		}
	}
}

// PathContains reports whether id appears in the node's materialized path.
func PathContains(n *Node, id string) bool {
	for _, p := range n.Path {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Breadcrumb returns the path names followed by the node's own name.
func Breadcrumb(n *Node) []string {
	out := make([]string, 0, len(n.Path)+1)
	for _, p := range n.Path {
		out = append(out, p.Name)
	}
	return append(out, n.Name)
}
