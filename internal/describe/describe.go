// Package describe turns a command's arguments interface into member
// descriptors suitable for help output.
package describe

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/lang"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/program"
)

// BaseContracts maps the names of shared base argument contracts to the
// members they contribute. Inheriting from one of them appends these members,
// in this order, after the interface's own members. The base interfaces
// themselves are never walked.
var BaseContracts = map[string][]model.MemberDescriptor{
	"IRepositoryCommandArgs": {
		{Name: "repository", TypeText: "string", Documentation: "Name of a repository directory to run within.", Optional: true},
		{Name: "directory", TypeText: "string", Documentation: "Directory to run within, if not the current.", Optional: true},
	},
	"ICommandArgs": {
		{Name: "directory", TypeText: "string", Documentation: "Directory to run within, if not the current.", Optional: true},
	},
}

// Extract resolves ref and lists its documented members: required own
// members first, then optional own members, then members synthesised from
// recognised base contracts. An unresolvable reference yields no members and
// an UnresolvedTypeReference diagnostic.
func Extract(p *program.Program, ref model.ArgsTypeRef) (required, optional []model.MemberDescriptor, diags []model.Diagnostic) {
	sym, ok := p.ResolveType(ref.Module, ref.Name)
	if !ok {
		return nil, nil, []model.Diagnostic{unresolved(ref, "not found")}
	}

	bodies, bases, ok := contractParts(sym)
	if !ok {
		return nil, nil, []model.Diagnostic{unresolved(ref, fmt.Sprintf("%s %s is not an interface", sym.Kind, sym.Name))}
	}

	for _, body := range bodies {
		for _, m := range members(sym.Unit, body) {
			if m.Optional {
				optional = append(optional, m)
			} else {
				required = append(required, m)
			}
		}
	}

	seen := make(map[string]struct{})
	for _, base := range bases {
		for _, m := range BaseContracts[base] {
			if _, dup := seen[m.Name]; dup {
				continue
			}
			seen[m.Name] = struct{}{}
			m.Optional = true
			optional = append(optional, m)
		}
	}

	return required, optional, nil
}

func unresolved(ref model.ArgsTypeRef, reason string) model.Diagnostic {
	return model.Diagnostic{
		Path:    ref.Module,
		Kind:    model.UnresolvedTypeReference,
		Message: fmt.Sprintf("cannot resolve %s: %s", ref.Name, reason),
	}
}

// contractParts returns the member bodies and heritage names of an
// interface, or of a type alias to an object type or an intersection of
// object types and named types.
func contractParts(sym *program.Symbol) (bodies []*sitter.Node, bases []string, ok bool) {
	u := sym.Unit
	switch sym.Kind {
	case program.Interface:
		body := sym.Node.ChildByFieldName("body")
		if body == nil {
			return nil, nil, false
		}
		for i := 0; i < int(sym.Node.NamedChildCount()); i++ {
			child := sym.Node.NamedChild(i)
			if child.Type() == "extends_type_clause" || child.Type() == "extends_clause" {
				bases = append(bases, heritageNames(u, child)...)
			}
		}
		return []*sitter.Node{body}, bases, true

	case program.TypeAlias:
		value := sym.Node.ChildByFieldName("value")
		if value == nil {
			return nil, nil, false
		}
		bodies, bases = flattenAlias(u, value)
		return bodies, bases, len(bodies) > 0
	}
	return nil, nil, false
}

func heritageNames(u *program.Unit, clause *sitter.Node) []string {
	var names []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		names = append(names, typeName(u, clause.NamedChild(i)))
	}
	return names
}

func flattenAlias(u *program.Unit, node *sitter.Node) (bodies []*sitter.Node, bases []string) {
	switch node.Type() {
	case "object_type":
		return []*sitter.Node{node}, nil
	case "parenthesized_type":
		if node.NamedChildCount() > 0 {
			return flattenAlias(u, node.NamedChild(0))
		}
	case "intersection_type":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			b, n := flattenAlias(u, node.NamedChild(i))
			bodies = append(bodies, b...)
			bases = append(bases, n...)
		}
	case "type_identifier", "generic_type", "nested_type_identifier":
		return nil, []string{typeName(u, node)}
	}
	return bodies, bases
}

// typeName renders a heritage type without its type arguments.
func typeName(u *program.Unit, node *sitter.Node) string {
	if node.Type() == "generic_type" || node.Type() == "expression_with_type_arguments" {
		if name := node.ChildByFieldName("name"); name != nil {
			return u.Text(name)
		}
		if node.NamedChildCount() > 0 {
			return u.Text(node.NamedChild(0))
		}
	}
	return u.Text(node)
}

// members lists the documented property signatures of body in declaration
// order. A member needs exactly one JSDoc block with non-empty text.
func members(u *program.Unit, body *sitter.Node) []model.MemberDescriptor {
	var out []model.MemberDescriptor
	for i := 0; i < int(body.NamedChildCount()); i++ {
		prop := body.NamedChild(i)
		if prop.Type() != "property_signature" {
			continue
		}
		docs := u.DocComments(prop)
		if len(docs) != 1 || docs[0] == "" {
			continue
		}
		name := prop.ChildByFieldName("name")
		if name == nil {
			continue
		}
		out = append(out, model.MemberDescriptor{
			Name:          u.Text(name),
			TypeText:      typeText(u, prop),
			Documentation: docs[0],
			Optional:      isOptional(prop),
		})
	}
	return out
}

func typeText(u *program.Unit, prop *sitter.Node) string {
	annotation := prop.ChildByFieldName("type")
	if annotation == nil || annotation.NamedChildCount() == 0 {
		return "unknown"
	}
	return lang.CollapseWhitespace(u.Text(annotation.NamedChild(0)))
}

func isOptional(prop *sitter.Node) bool {
	for i := 0; i < int(prop.ChildCount()); i++ {
		if prop.Child(i).Type() == "?" {
			return true
		}
	}
	return false
}
