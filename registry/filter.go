package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/credit-scoring/feature-repo/api"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

// FilterVariables are the names a feature view filter may refer to.
var FilterVariables = []string{"name", "entities", "source", "ttl_seconds", "online", "owner", "tags", "fields"}

// Filter is a compiled boolean expression over feature views, e.g.
// `"zipcode" in entities && ttl_seconds > 86400`.
type Filter struct {
	code    string
	program *vm.Program
}

func CompileFilter(code string) (*Filter, error) {
	variables, err := ExtractVariables(code)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(FilterVariables))
	for _, name := range FilterVariables {
		allowed[name] = true
	}
	var unknown []string
	for _, v := range variables {
		if !allowed[v] {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("filter %q uses unknown variables %s, allowed: %s", code, strings.Join(unknown, ","), strings.Join(FilterVariables, ","))
	}

	program, err := expr.Compile(code, expr.Env(filterEnv(&api.FeatureView{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q error, err=%v", code, err)
	}
	return &Filter{code: code, program: program}, nil
}

func (f *Filter) Match(view *api.FeatureView) (bool, error) {
	output, err := expr.Run(f.program, filterEnv(view))
	if err != nil {
		return false, fmt.Errorf("run filter %q on %s error, err=%v", f.code, view.Name, err)
	}
	matched, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T", f.code, output)
	}
	return matched, nil
}

func filterEnv(view *api.FeatureView) map[string]interface{} {
	entities := append([]string{}, view.Entities...)
	fields := make([]string, 0, len(view.Fields))
	for _, field := range view.Fields {
		fields = append(fields, field.Name)
	}
	tags := make(map[string]string, len(view.Tags))
	for k, v := range view.Tags {
		tags[k] = v
	}
	return map[string]interface{}{
		"name":        view.Name,
		"entities":    entities,
		"source":      view.Source,
		"ttl_seconds": int(view.Ttl),
		"online":      view.Online,
		"owner":       view.Owner,
		"tags":        tags,
		"fields":      fields,
	}
}

// ExtractVariables returns the sorted variable names an expr expression reads.
// Function names and closure pointers are not variables.
func ExtractVariables(code string) ([]string, error) {
	tree, err := parser.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expression: %w", err)
	}

	variables := make(map[string]struct{})
	walk(tree.Node, variables)

	var result []string
	for v := range variables {
		result = append(result, v)
	}

	sort.Strings(result)

	return result, nil
}

func walk(node ast.Node, variables map[string]struct{}) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *ast.IdentifierNode:
		variables[n.Value] = struct{}{}

	case *ast.BinaryNode:
		walk(n.Left, variables)
		walk(n.Right, variables)

	case *ast.UnaryNode:
		walk(n.Node, variables)

	case *ast.MemberNode:
		walk(n.Node, variables)
		if _, ok := n.Property.(*ast.StringNode); !ok {
			walk(n.Property, variables)
		}

	case *ast.ChainNode:
		walk(n.Node, variables)

	case *ast.SliceNode:
		walk(n.Node, variables)
		walk(n.From, variables)
		walk(n.To, variables)

	case *ast.CallNode:
		for _, arg := range n.Arguments {
			walk(arg, variables)
		}
		if _, ok := n.Callee.(*ast.IdentifierNode); !ok {
			walk(n.Callee, variables)
		}

	case *ast.BuiltinNode:
		for _, arg := range n.Arguments {
			walk(arg, variables)
		}

	case *ast.ClosureNode:
		walk(n.Node, variables)

	case *ast.ConditionalNode:
		walk(n.Cond, variables)
		walk(n.Exp1, variables)
		walk(n.Exp2, variables)

	case *ast.ArrayNode:
		for _, elem := range n.Nodes {
			walk(elem, variables)
		}

	case *ast.MapNode:
		for _, pair := range n.Pairs {
			walk(pair, variables)
		}

	case *ast.PairNode:
		walk(n.Key, variables)
		walk(n.Value, variables)

	case *ast.PointerNode, *ast.NilNode, *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.StringNode:

	default:
		log.Debug().Str("node", fmt.Sprintf("%T", n)).Msg("unhandled expression node")
	}
}
