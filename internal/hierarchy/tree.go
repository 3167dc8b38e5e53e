// Package hierarchy turns category feeds into a navigable forest and guards
// parent reassignment against cycles.
//
// Everything in this package is pure: a Forest is derived from a snapshot of
// records, never mutated after Build returns, and rebuilt from scratch on
// every fetch.
package hierarchy

import (
	"sort"

	"taxonomy/internal/models"
)

// PathEntry is one ancestor in a node's materialized path.
type PathEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Node is a category record placed in the forest.
type Node struct {
	models.Category

	Children      []*Node     `json:"children"`
	HasChildren   bool        `json:"has_children"`
	ChildrenCount int         `json:"children_count"`
	Level         int         `json:"level"`
	Path          []PathEntry `json:"path"`
}

// Forest is the result of building a feed. Parent links are kept as ids in
// an id-indexed map rather than as back pointers.
type Forest struct {
	Roots []*Node

	// Nested reports that the feed was already nested and was passed through.
	Nested bool
	// Orphans lists ids whose parent_id did not resolve; they sit at root level.
	Orphans []string
	// Duplicates lists ids that appeared more than once; the first record won.
	Duplicates []string
	// CycleBreaks lists ids promoted to root to break a cycle present in the
	// feed. Their ParentID is cleared in the forest.
	CycleBreaks []string

	index  map[string]*Node
	parent map[string]string
}

// BuildTree returns the sorted root nodes for records. See Build.
func BuildTree(records []models.Category) []*Node {
	return Build(records).Roots
}

// Build converts a feed into a forest with levels and paths assigned.
//
// A feed in which at least one element declares non-empty children is taken
// as already nested and passed through in server order. Anything else,
// including a "tree" feed whose children are all empty, goes through the
// two-pass flat algorithm. Records are never dropped: unresolved parents and
// cycle members end up at root level.
func Build(records []models.Category) *Forest {
	var f *Forest
	if IsNested(records) {
		f = fromNested(records)
	} else {
		f = fromFlat(records)
	}
	AssignLevels(f.Roots)
	return f
}

// IsNested reports whether any record carries a non-empty children slice.
func IsNested(records []models.Category) bool {
	for i := range records {
		if len(records[i].Children) > 0 {
			return true
		}
	}
	return false
}

func newForest(capacity int) *Forest {
	return &Forest{
		index:  make(map[string]*Node, capacity),
		parent: make(map[string]string, capacity),
	}
}

func fromFlat(records []models.Category) *Forest {
	f := newForest(len(records))

	// Pass 1: id -> node.
	order := make([]*Node, 0, len(records))
	for i := range records {
		rec := records[i]
		if _, dup := f.index[rec.ID]; dup {
			f.Duplicates = append(f.Duplicates, rec.ID)
			continue
		}
		rec.Children = nil
		n := &Node{Category: rec}
		f.index[rec.ID] = n
		order = append(order, n)
	}

	// Pass 2: attach to parent or to the root list.
	for _, n := range order {
		pid := n.ParentKey()
		if pid == "" {
			f.Roots = append(f.Roots, n)
			continue
		}
		p, ok := f.index[pid]
		if !ok {
			f.Orphans = append(f.Orphans, n.ID)
			f.Roots = append(f.Roots, n)
			continue
		}
		p.Children = append(p.Children, n)
		f.parent[n.ID] = pid
	}

	f.breakCycles(order)
	sortNodes(f.Roots)
	for _, n := range order {
		sortNodes(n.Children)
	}
	return f
}

// breakCycles promotes one member of every parent loop to root. Nodes in a
// loop are unreachable from the roots, so they are found by a reachability
// sweep; the first unreachable record in input order picks which loop member
// is cut.
func (f *Forest) breakCycles(order []*Node) {
	reached := make(map[string]bool, len(order))
	mark(f.Roots, reached)
	if len(reached) == len(order) {
		return
	}

	for _, n := range order {
		if reached[n.ID] {
			continue
		}
		// Walk up until an id repeats; that id is on the loop.
		seen := make(map[string]bool)
		cur := n.ID
		for !seen[cur] {
			seen[cur] = true
			cur = f.parent[cur]
		}
		cut := f.index[cur]
		f.detach(cut)
		cut.ParentID = nil
		f.Roots = append(f.Roots, cut)
		f.CycleBreaks = append(f.CycleBreaks, cut.ID)
		mark([]*Node{cut}, reached)
	}
}

func (f *Forest) detach(n *Node) {
	pid := f.parent[n.ID]
	delete(f.parent, n.ID)
	p := f.index[pid]
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
			return
		}
	}
}

func mark(nodes []*Node, reached map[string]bool) {
	queue := append([]*Node(nil), nodes...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if reached[n.ID] {
			continue
		}
		reached[n.ID] = true
		queue = append(queue, n.Children...)
	}
}

func fromNested(records []models.Category) *Forest {
	f := newForest(len(records))

	// Some servers repeat nested children at the top level; those are not roots.
	nestedIDs := make(map[string]bool)
	var collect func(cs []models.Category)
	collect = func(cs []models.Category) {
		for i := range cs {
			nestedIDs[cs[i].ID] = true
			collect(cs[i].Children)
		}
	}
	for i := range records {
		collect(records[i].Children)
	}

	order := make([]*Node, 0, len(records))
	var convert func(rec models.Category, parentID string) *Node
	convert = func(rec models.Category, parentID string) *Node {
		if _, dup := f.index[rec.ID]; dup {
			f.Duplicates = append(f.Duplicates, rec.ID)
			return nil
		}
		children := rec.Children
		rec.Children = nil
		if parentID != "" {
			pid := parentID
			rec.ParentID = &pid
		}
		n := &Node{Category: rec}
		f.index[rec.ID] = n
		order = append(order, n)
		if parentID != "" {
			f.parent[rec.ID] = parentID
		}
		for _, c := range children {
			if cn := convert(c, rec.ID); cn != nil {
				n.Children = append(n.Children, cn)
			}
		}
		return n
	}

	var top []*Node
	for _, rec := range records {
		if nestedIDs[rec.ID] {
			continue
		}
		if n := convert(rec, ""); n != nil {
			top = append(top, n)
		}
	}

	// Top-level records may still name a parent, e.g. flat records mixed
	// into a nested feed. Attach those whose parent resolves.
	for _, n := range top {
		pid := n.ParentKey()
		if pid == "" {
			f.Roots = append(f.Roots, n)
			continue
		}
		p, ok := f.index[pid]
		if !ok {
			f.Orphans = append(f.Orphans, n.ID)
			f.Roots = append(f.Roots, n)
			continue
		}
		p.Children = append(p.Children, n)
		f.parent[n.ID] = pid
	}

	f.breakCycles(order)
	f.Nested = true
	return f
}

// sortNodes orders siblings by sort_order, then name, then id.
func sortNodes(nodes []*Node) {
	if len(nodes) <= 1 {
		return
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	return len(f.index)
}

// Node looks a node up by id.
func (f *Forest) Node(id string) (*Node, bool) {
	n, ok := f.index[id]
	return n, ok
}

// ParentOf returns the structural parent id of id, or "" for roots and unknown ids.
func (f *Forest) ParentOf(id string) string {
	return f.parent[id]
}

// Ancestors returns the chain from the root down to the immediate parent of id.
func (f *Forest) Ancestors(id string) []*Node {
	var chain []*Node
	seen := map[string]bool{id: true}
	for cur := f.parent[id]; cur != "" && !seen[cur]; cur = f.parent[cur] {
		seen[cur] = true
		chain = append(chain, f.index[cur])
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Descendants returns the ids strictly below id, breadth first.
func (f *Forest) Descendants(id string) []string {
	n, ok := f.index[id]
	if !ok {
		return nil
	}
	var out []string
	queue := append([]*Node(nil), n.Children...)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c.ID)
		queue = append(queue, c.Children...)
	}
	return out
}

// Walk visits every node depth first in display order.
func (f *Forest) Walk(fn func(n *Node)) {
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			fn(n)
			visit(n.Children)
		}
	}
	visit(f.Roots)
}

// Flatten returns the forest as a plain list in display order. Each record's
// parent_id reflects its position in the forest and Children is cleared.
func Flatten(roots []*Node) []models.Category {
	var out []models.Category
	var visit func(nodes []*Node, parentID string)
	visit = func(nodes []*Node, parentID string) {
		for _, n := range nodes {
			rec := n.Category
			rec.Children = nil
			rec.ParentID = nil
			if parentID != "" {
				pid := parentID
				rec.ParentID = &pid
			}
			out = append(out, rec)
			visit(n.Children, n.ID)
		}
	}
	visit(roots, "")
	return out
}

// Nest returns the forest as nested records, the shape served by a tree endpoint.
func Nest(roots []*Node) []models.Category {
	out := make([]models.Category, 0, len(roots))
	for _, n := range roots {
		rec := n.Category
		rec.Children = nil
		if len(n.Children) > 0 {
			rec.Children = Nest(n.Children)
		}
		out = append(out, rec)
	}
	return out
}
