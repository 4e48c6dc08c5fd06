package domain

import (
	"sort"
	"time"
)

// BudgetConfig caps and floors the hours spent across a budget goal's
// participating descendants.
type BudgetConfig struct {
	MinPerDay  *int
	MaxPerDay  *int
	MinPerWeek *int
	MaxPerWeek *int
}

// Goal is one node of the input DAG. Goals are
// input-immutable for the duration of a scheduling run.
type Goal struct {
	ID          string
	Title       string
	MinDuration int // hours

	Repetition Repetition

	Start    *time.Time
	Deadline *time.Time

	Filter TimeFilter

	// Children is the ordered list of child goal ids; defines the DAG and
	// must be acyclic.
	Children []string

	// BudgetConfig, if set, marks this as a budget goal.
	BudgetConfig *BudgetConfig

	// AfterGoals lists scheduling-precedence predecessors.
	AfterGoals []string
}

// IsBudgetGoal reports whether g caps/floors time across its descendants.
func (g *Goal) IsBudgetGoal() bool {
	return g.BudgetConfig != nil
}

// GoalSet is the input DAG, keyed by goal id.
type GoalSet map[string]*Goal

// Validate checks the structural invariants required before
// expansion: every Goal has a deadline not before its start, every
// Children/AfterGoals reference resolves, and the Children graph is
// acyclic.
func (gs GoalSet) Validate() error {
	for id, g := range gs {
		if g.Start != nil && g.Deadline != nil && g.Deadline.Before(*g.Start) {
			return &InvalidGoalError{GoalID: id, Reason: "deadline before start"}
		}
		for _, childID := range g.Children {
			if _, ok := gs[childID]; !ok {
				return &InvalidGoalError{GoalID: id, Reason: "unknown child goal " + childID}
			}
		}
		for _, predID := range g.AfterGoals {
			if _, ok := gs[predID]; !ok {
				return &InvalidGoalError{GoalID: id, Reason: "unknown after_goals reference " + predID}
			}
		}
	}
	return gs.checkAcyclic()
}

func (gs GoalSet) checkAcyclic() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(gs))

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		for _, childID := range gs[id].Children {
			switch color[childID] {
			case gray:
				return &InvalidGoalError{GoalID: id, Reason: "cyclic children graph"}
			case white:
				if err := visit(childID); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	for id := range gs {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// PostOrder returns goal ids in post-order (children before parents,
// children visited in input order), so budgets see children before their
// parent budget goal is expanded.
func (gs GoalSet) PostOrder() []string {
	visited := make(map[string]bool, len(gs))
	var order []string

	// Roots iterate by sorted id: declaration order isn't recoverable from
	// a Go map, so callers that need strict input order should supply ids
	// via PostOrderFrom instead.
	ids := make([]string, 0, len(gs))
	for id := range gs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, childID := range gs[id].Children {
			visit(childID)
		}
		order = append(order, id)
	}

	for _, id := range ids {
		visit(id)
	}
	return order
}

// PostOrderFrom returns goal ids in post-order given an explicit root
// traversal order (the order ids were declared in Input.Goals), preserving
// the deterministic ordering guarantee goals rely on for tie-breaking.
func (gs GoalSet) PostOrderFrom(rootOrder []string) []string {
	visited := make(map[string]bool, len(gs))
	var order []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, childID := range gs[id].Children {
			visit(childID)
		}
		order = append(order, id)
	}

	for _, id := range rootOrder {
		visit(id)
	}
	return order
}
