package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"taxonomy/internal/hierarchy"
	"taxonomy/internal/picker"
	"taxonomy/internal/services"
)

// env is bound into every command's Run.
type env struct {
	hierarchy services.HierarchyServicer
	out       io.Writer
	in        io.Reader
}

// TreeCmd prints the forest, one node per line.
type TreeCmd struct {
	Editing   string   `help:"Mark this category and its descendants as unavailable parents."`
	Collapsed []string `help:"Categories shown collapsed." sep:","`
}

func (cmd *TreeCmd) Run(e *env) error {
	snap, err := e.hierarchy.Refresh(context.Background())
	if err != nil {
		return err
	}
	if cmd.Editing != "" {
		if _, ok := snap.Forest.Node(cmd.Editing); !ok {
			return fmt.Errorf("category %s not found", cmd.Editing)
		}
	}
	state := picker.New(snap.Forest, cmd.Editing, picker.Options{})
	for _, id := range cmd.Collapsed {
		state.Collapse(id)
	}
	render(e.out, state)
	reportAnomalies(e.out, snap.Forest)
	return nil
}

// AncestorsCmd prints root > ... > parent > node.
type AncestorsCmd struct {
	ID string `arg:"" help:"Category ID."`
}

func (cmd *AncestorsCmd) Run(e *env) error {
	ctx := context.Background()
	ancestors, err := e.hierarchy.Ancestors(ctx, cmd.ID)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		names = append(names, a.Name)
	}
	if snap, err := e.hierarchy.Current(ctx); err == nil {
		if n, ok := snap.Forest.Node(cmd.ID); ok {
			names = append(names, n.Name)
		}
	}
	fmt.Fprintln(e.out, strings.Join(names, " > "))
	return nil
}

// CheckCmd reports whether Parent may become the parent of ID.
type CheckCmd struct {
	ID     string `arg:"" help:"Category being edited."`
	Parent string `arg:"" optional:"" help:"Candidate parent. Omit for a root."`
}

func (cmd *CheckCmd) Run(e *env) error {
	v, err := e.hierarchy.CheckParent(context.Background(), cmd.ID, cmd.Parent)
	if err != nil {
		return err
	}
	if !v.Valid {
		return errors.New(v.Message)
	}
	fmt.Fprintln(e.out, "ok")
	return nil
}

// MoveCmd reparents a category.
type MoveCmd struct {
	ID     string `arg:"" help:"Category to move."`
	Parent string `arg:"" optional:"" help:"New parent. Omit to make the category a root."`
}

func (cmd *MoveCmd) Run(e *env) error {
	updated, err := e.hierarchy.Reparent(context.Background(), cmd.ID, cmd.Parent)
	if err != nil {
		return err
	}
	parent := "(root)"
	if updated.ParentID != nil {
		parent = *updated.ParentID
	}
	fmt.Fprintf(e.out, "moved %s under %s\n", updated.ID, parent)
	return nil
}

// PickCmd runs a line-driven parent picker on stdin.
type PickCmd struct {
	Editing       string `help:"Category whose parent is being chosen."`
	CloseOnSelect bool   `name:"close-on-select" env:"CLOSE_ON_SELECT" default:"true" negatable:"" help:"Close after the first selection."`
	Apply         bool   `help:"Move the edited category under the selected parent."`
}

const pickHelp = "commands: t <id> toggle, c collapse all, e expand all, s <id> select, q quit"

func (cmd *PickCmd) Run(e *env) error {
	ctx := context.Background()
	snap, err := e.hierarchy.Refresh(ctx)
	if err != nil {
		return err
	}
	if cmd.Apply && cmd.Editing == "" {
		return errors.New("--apply needs --editing")
	}
	if cmd.Editing != "" {
		if _, ok := snap.Forest.Node(cmd.Editing); !ok {
			return fmt.Errorf("category %s not found", cmd.Editing)
		}
	}

	state := picker.New(snap.Forest, cmd.Editing, picker.Options{
		CloseOnSelect: cmd.CloseOnSelect,
		OnSelect: func(n *hierarchy.Node) {
			fmt.Fprintf(e.out, "selected %s (%s)\n", n.Name, n.ID)
		},
	})

	render(e.out, state)
	fmt.Fprintln(e.out, pickHelp)

	scanner := bufio.NewScanner(e.in)
	for state.IsOpen() && scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}
		switch fields[0] {
		case "t", "toggle":
			state.Toggle(arg)
		case "c", "collapse":
			state.CollapseAll()
		case "e", "expand":
			state.ExpandAll()
		case "s", "select":
			if !state.Select(arg) {
				fmt.Fprintln(e.out, hierarchy.RejectionMessage)
				continue
			}
		case "q", "quit":
			state.Close()
			continue
		default:
			fmt.Fprintln(e.out, pickHelp)
			continue
		}
		if state.IsOpen() {
			render(e.out, state)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	selected := state.Selected()
	if !cmd.Apply || len(selected) == 0 {
		return nil
	}
	updated, err := e.hierarchy.Reparent(ctx, cmd.Editing, selected[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "moved %s under %s\n", updated.ID, selected[0])
	return nil
}

// render prints the visible picker rows. Collapsed nodes with children are
// marked "+", expanded ones "-", and disabled rows are suffixed with "x".
func render(w io.Writer, state *picker.State) {
	for _, row := range state.Visible() {
		marker := " "
		if row.Node.HasChildren {
			marker = "-"
			if !row.Expanded {
				marker = "+"
			}
		}
		suffix := ""
		if row.Disabled {
			suffix = " x"
		}
		fmt.Fprintf(w, "%s%s %s [%s]%s\n", strings.Repeat("  ", row.Level), marker, row.Node.Name, row.Node.ID, suffix)
	}
}

func reportAnomalies(w io.Writer, f *hierarchy.Forest) {
	if len(f.Orphans) > 0 {
		fmt.Fprintf(w, "orphans: %s\n", strings.Join(f.Orphans, ", "))
	}
	if len(f.CycleBreaks) > 0 {
		fmt.Fprintf(w, "cycles broken at: %s\n", strings.Join(f.CycleBreaks, ", "))
	}
}
