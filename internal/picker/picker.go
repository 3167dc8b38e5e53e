// Package picker holds the view state of the interactive parent picker:
// per-node expand flags, the set of nodes disabled because they are the
// category being edited or one of its descendants, and selection handling.
//
// The state is keyed by node id and kept apart from the forest so the
// hierarchy core stays pure.
package picker

import (
	"taxonomy/internal/hierarchy"
)

// Options configures selection behavior.
type Options struct {
	// CloseOnSelect closes the picker after a selection (single-select).
	// When false the picker stays open for further selections.
	CloseOnSelect bool
	// OnSelect is invoked once per accepted selection.
	OnSelect func(n *hierarchy.Node)
}

// Row is one visible line of the picker.
type Row struct {
	Node     *hierarchy.Node
	Level    int
	Expanded bool
	Disabled bool
}

// State is the picker's view state. It is owned by a single caller.
type State struct {
	forest   *hierarchy.Forest
	editing  string
	expanded map[string]bool // explicit flags only; missing ids are expanded
	disabled map[string]bool
	selected []string
	open     bool
	opts     Options
}

// New creates an open picker over forest. editingID is the category whose
// parent is being chosen, or "" when creating a new category.
func New(forest *hierarchy.Forest, editingID string, opts Options) *State {
	s := &State{
		forest:   forest,
		expanded: make(map[string]bool),
		open:     true,
		opts:     opts,
	}
	s.SetEditing(editingID)
	return s
}

// SetEditing changes the category being edited and recomputes disabled nodes.
func (s *State) SetEditing(id string) {
	s.editing = id
	s.disabled = s.forest.Ineligible(id)
}

// Editing returns the id of the category being edited.
func (s *State) Editing() string { return s.editing }

// Rebase swaps in a freshly built forest. Expand flags for ids that still
// exist are kept; the rest are dropped.
func (s *State) Rebase(forest *hierarchy.Forest) {
	s.forest = forest
	for id := range s.expanded {
		if _, ok := forest.Node(id); !ok {
			delete(s.expanded, id)
		}
	}
	kept := s.selected[:0]
	for _, id := range s.selected {
		if _, ok := forest.Node(id); ok {
			kept = append(kept, id)
		}
	}
	s.selected = kept
	s.SetEditing(s.editing)
}

// IsExpanded reports the expand flag of id. Nodes default to expanded.
func (s *State) IsExpanded(id string) bool {
	v, ok := s.expanded[id]
	return !ok || v
}

// Toggle flips the expand flag of id.
func (s *State) Toggle(id string) {
	s.expanded[id] = !s.IsExpanded(id)
}

// Expand marks id expanded.
func (s *State) Expand(id string) { s.expanded[id] = true }

// Collapse marks id collapsed.
func (s *State) Collapse(id string) { s.expanded[id] = false }

// ExpandAll resets every node to expanded.
func (s *State) ExpandAll() {
	s.expanded = make(map[string]bool)
}

// CollapseAll collapses every node that has children.
func (s *State) CollapseAll() {
	s.forest.Walk(func(n *hierarchy.Node) {
		if n.HasChildren {
			s.expanded[n.ID] = false
		}
	})
}

// IsDisabled reports whether id may not be chosen as parent.
func (s *State) IsDisabled(id string) bool {
	return s.disabled[id]
}

// Select chooses id. Unknown and disabled ids are ignored and Select returns
// false; otherwise OnSelect runs and the picker closes if configured to.
func (s *State) Select(id string) bool {
	if !s.open || s.disabled[id] {
		return false
	}
	n, ok := s.forest.Node(id)
	if !ok {
		return false
	}
	s.selected = append(s.selected, id)
	if s.opts.OnSelect != nil {
		s.opts.OnSelect(n)
	}
	if s.opts.CloseOnSelect {
		s.open = false
	}
	return true
}

// Selected returns the ids accepted so far, oldest first.
func (s *State) Selected() []string {
	return append([]string(nil), s.selected...)
}

// Open reopens the picker.
func (s *State) Open() { s.open = true }

// Close closes the picker without selecting.
func (s *State) Close() { s.open = false }

// IsOpen reports whether the picker accepts selections.
func (s *State) IsOpen() bool { return s.open }

// Visible returns the rows to display, depth first, skipping the children of
// collapsed nodes.
func (s *State) Visible() []Row {
	var rows []Row
	var visit func(nodes []*hierarchy.Node)
	visit = func(nodes []*hierarchy.Node) {
		for _, n := range nodes {
			expanded := s.IsExpanded(n.ID)
			rows = append(rows, Row{
				Node:     n,
				Level:    n.Level,
				Expanded: expanded,
				Disabled: s.disabled[n.ID],
			})
			if expanded {
				visit(n.Children)
			}
		}
	}
	visit(s.forest.Roots)
	return rows
}
