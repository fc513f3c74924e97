// Package command finds the exported command entry point of a source unit.
//
// A command is a top-level `export const Name = (runtime, args: IFooArgs) => ...`:
// an exported variable statement with a single declarator bound to an arrow
// function or function expression taking at least one parameter. When the
// second parameter is annotated with a type named like I<Something>Args, that
// type is the command's argument contract.
package command

import (
	"fmt"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/program"
)

var argsTypeNameRe = regexp.MustCompile(`^I.+Args$`)

// Locate matches u against the command pattern. The first matching export in
// source order wins; later matches are reported as diagnostics.
func Locate(u *program.Unit) (model.CommandShape, []model.Diagnostic) {
	root := u.Root()
	var (
		shape model.CommandShape = model.NotACommand{}
		found string
		diags []model.Diagnostic
	)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "export_statement" {
			continue
		}
		name, fn, ok := exportedCallable(u, stmt)
		if !ok {
			continue
		}
		if found != "" {
			diags = append(diags, model.Diagnostic{
				Path:    u.Path,
				Kind:    model.MultipleCommands,
				Message: fmt.Sprintf("%s (line %d) ignored, using %s", name, stmt.StartPoint().Row+1, found),
			})
			continue
		}
		found = name
		shape = buildShape(u, stmt, name, fn)
	}

	return shape, diags
}

// exportedCallable returns the binding name and callable node of an export
// statement shaped like `export const Name = (a, ...) => ...`.
func exportedCallable(u *program.Unit, stmt *sitter.Node) (string, *sitter.Node, bool) {
	decl := stmt.ChildByFieldName("declaration")
	if decl == nil {
		return "", nil, false
	}
	if decl.Type() != "lexical_declaration" && decl.Type() != "variable_declaration" {
		return "", nil, false
	}

	var declarator *sitter.Node
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		if declarator != nil {
			return "", nil, false
		}
		declarator = child
	}
	if declarator == nil {
		return "", nil, false
	}

	name := declarator.ChildByFieldName("name")
	if name == nil || name.Type() != "identifier" {
		return "", nil, false
	}
	value := declarator.ChildByFieldName("value")
	if value == nil || !isCallable(value) || len(parameters(value)) == 0 {
		return "", nil, false
	}
	return u.Text(name), value, true
}

func isCallable(node *sitter.Node) bool {
	switch node.Type() {
	case "arrow_function", "function_expression", "function":
		return true
	}
	return false
}

// parameters lists the formal parameters of a callable. An arrow function
// with a single bare parameter (`x => ...`) yields that identifier.
func parameters(fn *sitter.Node) []*sitter.Node {
	if single := fn.ChildByFieldName("parameter"); single != nil {
		return []*sitter.Node{single}
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "required_parameter", "optional_parameter":
			out = append(out, p)
		}
	}
	return out
}

func buildShape(u *program.Unit, stmt *sitter.Node, name string, fn *sitter.Node) model.CommandShape {
	var docs string
	var hasDocs bool
	if blocks := u.DocComments(stmt); len(blocks) > 0 {
		docs = blocks[len(blocks)-1]
		hasDocs = docs != ""
	}

	if typeName, ok := argsTypeName(u, fn); ok {
		return model.CommandWithArgs{
			Name:    name,
			Docs:    docs,
			HasDocs: hasDocs,
			Args:    model.ArgsTypeRef{Name: typeName, Module: u.Path},
		}
	}
	return model.CommandNoArgs{Name: name, Docs: docs, HasDocs: hasDocs}
}

// argsTypeName returns the conventionally named type annotating the second
// parameter of fn. Qualified names (ns.IFooArgs) and non-reference types
// never match.
func argsTypeName(u *program.Unit, fn *sitter.Node) (string, bool) {
	params := parameters(fn)
	if len(params) < 2 {
		return "", false
	}
	annotation := params[1].ChildByFieldName("type")
	if annotation == nil || annotation.NamedChildCount() == 0 {
		return "", false
	}

	ref := annotation.NamedChild(0)
	if ref.Type() == "generic_type" {
		ref = ref.ChildByFieldName("name")
		if ref == nil {
			return "", false
		}
	}
	if ref.Type() != "type_identifier" {
		return "", false
	}

	text := u.Text(ref)
	if !argsTypeNameRe.MatchString(text) {
		return "", false
	}
	return text, true
}
