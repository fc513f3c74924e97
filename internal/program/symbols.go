package program

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// SymbolKind indicates the syntactic kind of a top-level declaration.
type SymbolKind string

const (
	Interface SymbolKind = "interface"
	TypeAlias SymbolKind = "type"
	Class     SymbolKind = "class"
	Enum      SymbolKind = "enum"
	Function  SymbolKind = "function"
	Variable  SymbolKind = "variable"
)

// IsType reports whether the kind declares a name in the type namespace.
func (k SymbolKind) IsType() bool {
	switch k {
	case Interface, TypeAlias, Class, Enum:
		return true
	}
	return false
}

// Symbol is a top-level declaration of a unit.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Exported bool
	Line     int
	Unit     *Unit
	// Node is the declaration node: interface_declaration,
	// type_alias_declaration, variable_declarator and so on.
	Node *sitter.Node
}

// importBinding maps a local name to the export it was imported from.
// Imported is "default" for default imports and "*" for namespace imports.
type importBinding struct {
	Specifier string
	Imported  string
}

// reexport is an `export ... from "specifier"` statement.
// All is set for `export * from`.
type reexport struct {
	Specifier string
	Imported  string
	Exported  string
	All       bool
}

var declarationKinds = map[string]SymbolKind{
	"interface_declaration":          Interface,
	"type_alias_declaration":         TypeAlias,
	"class_declaration":              Class,
	"abstract_class_declaration":     Class,
	"enum_declaration":               Enum,
	"function_declaration":           Function,
	"generator_function_declaration": Function,
	"function_signature":             Function,
}

func (u *Unit) collect(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "export_statement":
			u.collectExport(child)
		case "import_statement":
			u.collectImport(child)
		default:
			u.collectDeclaration(child, false)
		}
	}
}

func (u *Unit) collectDeclaration(node *sitter.Node, exported bool) {
	switch node.Type() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			decl := node.NamedChild(i)
			if decl.Type() != "variable_declarator" {
				continue
			}
			name := decl.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				continue
			}
			u.addSymbol(u.Text(name), Variable, exported, decl)
		}
	case "ambient_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			u.collectDeclaration(node.NamedChild(i), exported)
		}
	default:
		kind, ok := declarationKinds[node.Type()]
		if !ok {
			return
		}
		name := node.ChildByFieldName("name")
		if name == nil {
			return
		}
		u.addSymbol(u.Text(name), kind, exported, node)
	}
}

func (u *Unit) addSymbol(name string, kind SymbolKind, exported bool, node *sitter.Node) {
	if prev, dup := u.symbols[name]; dup {
		// A name can be both a value and a type; the type wins lookups.
		// Otherwise merged declarations keep the first one.
		if prev.Kind.IsType() || !kind.IsType() {
			return
		}
	}
	s := &Symbol{
		Name:     name,
		Kind:     kind,
		Exported: exported,
		Line:     int(node.StartPoint().Row) + 1,
		Unit:     u,
		Node:     node,
	}
	u.symbols[name] = s
	u.order = append(u.order, s)
}

func (u *Unit) collectExport(node *sitter.Node) {
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		u.collectDeclaration(decl, true)
		return
	}

	var specifier string
	if src := node.ChildByFieldName("source"); src != nil {
		specifier = unquote(u.Text(src))
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "*":
			if specifier != "" && node.NamedChildCount() == 1 {
				u.reexps = append(u.reexps, reexport{Specifier: specifier, All: true})
			}
		case "export_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				local := unquote(u.Text(name))
				exported := local
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					exported = unquote(u.Text(alias))
				}
				if specifier != "" {
					u.reexps = append(u.reexps, reexport{
						Specifier: specifier,
						Imported:  local,
						Exported:  exported,
					})
				} else {
					u.exports[exported] = local
				}
			}
		}
	}
}

func (u *Unit) collectImport(node *sitter.Node) {
	src := node.ChildByFieldName("source")
	if src == nil {
		return
	}
	specifier := unquote(u.Text(src))

	for i := 0; i < int(node.NamedChildCount()); i++ {
		clause := node.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			part := clause.NamedChild(j)
			switch part.Type() {
			case "identifier":
				u.imports[u.Text(part)] = importBinding{Specifier: specifier, Imported: "default"}
			case "namespace_import":
				for k := 0; k < int(part.NamedChildCount()); k++ {
					if id := part.NamedChild(k); id.Type() == "identifier" {
						u.imports[u.Text(id)] = importBinding{Specifier: specifier, Imported: "*"}
					}
				}
			case "named_imports":
				for k := 0; k < int(part.NamedChildCount()); k++ {
					spec := part.NamedChild(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("name")
					if name == nil {
						continue
					}
					imported := unquote(u.Text(name))
					local := imported
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = u.Text(alias)
					}
					u.imports[local] = importBinding{Specifier: specifier, Imported: imported}
				}
			}
		}
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && last == first {
			return s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
