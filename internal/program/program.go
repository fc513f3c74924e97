// Package program parses a fixed set of TypeScript source units with
// tree-sitter and assembles a read-only whole-program model: per-unit symbol
// tables, import bindings and on-demand type resolution across units.
package program

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/host"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/lang"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
)

// Program is the whole-program view over every unit that parsed cleanly.
// It is never mutated after Build returns.
type Program struct {
	host  *host.Host
	units map[string]*Unit
	paths []string
}

// Unit is one parsed source unit and its top-level symbols.
type Unit struct {
	Path     string
	Language *lang.Language
	Source   []byte

	tree    *sitter.Tree
	symbols map[string]*Symbol
	order   []*Symbol
	imports map[string]importBinding
	exports map[string]string
	reexps  []reexport
}

// Build parses every unit known to h, in path order. Units that fail to
// parse are left out of the model and reported as diagnostics; they never
// stop the remaining units from being built.
func Build(h *host.Host) (*Program, []model.Diagnostic) {
	p := &Program{
		host:  h,
		units: make(map[string]*Unit),
	}
	parsers := make(map[string]*sitter.Parser)
	var diags []model.Diagnostic

	for _, path := range h.Paths() {
		l := lang.ForPath(path)
		if l == nil {
			diags = append(diags, model.Diagnostic{
				Path:    path,
				Kind:    model.ParseFailure,
				Message: "unsupported file type",
			})
			continue
		}
		parser, ok := parsers[l.Name]
		if !ok {
			parser = l.NewParser()
			parsers[l.Name] = parser
		}

		text, err := h.Read(path)
		if err != nil {
			diags = append(diags, model.Diagnostic{Path: path, Kind: model.ParseFailure, Message: err.Error()})
			continue
		}

		u, err := parseUnit(parser, l, path, []byte(text))
		if err != nil {
			diags = append(diags, model.Diagnostic{Path: path, Kind: model.ParseFailure, Message: err.Error()})
			continue
		}
		p.units[path] = u
		p.paths = append(p.paths, path)
	}

	for _, parser := range parsers {
		parser.Close()
	}
	return p, diags
}

func parseUnit(parser *sitter.Parser, l *lang.Language, path string, source []byte) (*Unit, error) {
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		line := 0
		if bad := firstErrorNode(root); bad != nil {
			line = int(bad.StartPoint().Row) + 1
		}
		tree.Close()
		return nil, fmt.Errorf("syntax error near line %d", line)
	}

	u := &Unit{
		Path:     path,
		Language: l,
		Source:   source,
		tree:     tree,
		symbols:  make(map[string]*Symbol),
		imports:  make(map[string]importBinding),
		exports:  make(map[string]string),
	}
	u.collect(root)
	return u, nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstErrorNode(child); bad != nil {
			return bad
		}
	}
	return nil
}

// Unit returns the parsed unit at path.
func (p *Program) Unit(path string) (*Unit, bool) {
	u, ok := p.units[path]
	return u, ok
}

// Units returns every parsed unit in path order.
func (p *Program) Units() []*Unit {
	out := make([]*Unit, 0, len(p.paths))
	for _, path := range p.paths {
		out = append(out, p.units[path])
	}
	return out
}

// Host returns the resolution host the program was built from.
func (p *Program) Host() *host.Host {
	return p.host
}

// Close releases the syntax trees. The program must not be used afterwards.
func (p *Program) Close() {
	for _, u := range p.units {
		u.tree.Close()
	}
}

// Root returns the root node of the unit's syntax tree.
func (u *Unit) Root() *sitter.Node {
	return u.tree.RootNode()
}

// Text returns the source text of node.
func (u *Unit) Text(node *sitter.Node) string {
	return lang.NodeText(node, u.Source)
}

// Symbol returns the top-level declaration named name, exported or not.
func (u *Unit) Symbol(name string) (*Symbol, bool) {
	s, ok := u.symbols[name]
	return s, ok
}

// Symbols returns the unit's top-level declarations in source order.
func (u *Unit) Symbols() []*Symbol {
	out := make([]*Symbol, len(u.order))
	copy(out, u.order)
	return out
}
