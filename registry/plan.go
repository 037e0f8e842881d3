package registry

import (
	"fmt"
	"strings"

	"github.com/credit-scoring/feature-repo/dao"
)

type ActionType string

const (
	Action_Create    ActionType = "CREATE"
	Action_Update    ActionType = "UPDATE"
	Action_Delete    ActionType = "DELETE"
	Action_Unchanged ActionType = "UNCHANGED"
)

// Action is the planned change of one registry object.
type Action struct {
	Type ActionType
	Kind string
	Name string

	record *dao.Record
}

// Plan lists the actions that bring the stored registry in line with a
// declaration set. Creates and updates come in dependency order, deletes in
// reverse dependency order.
type Plan struct {
	ProjectName string
	Actions     []Action
}

func (p *Plan) HasChanges() bool {
	for _, action := range p.Actions {
		if action.Type != Action_Unchanged {
			return true
		}
	}
	return false
}

func (p *Plan) Count(actionType ActionType) int {
	count := 0
	for _, action := range p.Actions {
		if action.Type == actionType {
			count++
		}
	}
	return count
}

// Find returns the action planned for one object.
func (p *Plan) Find(kind, name string) (Action, bool) {
	for _, action := range p.Actions {
		if action.Kind == kind && action.Name == name {
			return action, true
		}
	}
	return Action{}, false
}

func (p *Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "project %s\n", p.ProjectName)
	for _, action := range p.Actions {
		fmt.Fprintf(&b, "  %-9s %-15s %s\n", action.Type, action.Kind, action.Name)
	}
	fmt.Fprintf(&b, "%d to create, %d to update, %d to delete, %d unchanged\n",
		p.Count(Action_Create), p.Count(Action_Update), p.Count(Action_Delete), p.Count(Action_Unchanged))
	return b.String()
}
