package program

// ResolveType finds the type declaration that name refers to when written in
// the unit at module. Local declarations are tried first, then import
// bindings, following re-exports through the host. Resolution happens on
// demand and is not cached.
func (p *Program) ResolveType(module, name string) (*Symbol, bool) {
	return p.lookup(module, name, false, make(map[string]struct{}))
}

func (p *Program) lookup(module, name string, exportedOnly bool, visited map[string]struct{}) (*Symbol, bool) {
	key := module + "\x00" + name
	if exportedOnly {
		key += "\x00export"
	}
	if _, seen := visited[key]; seen {
		return nil, false
	}
	visited[key] = struct{}{}

	u, ok := p.units[module]
	if !ok {
		return nil, false
	}

	if exportedOnly {
		if local, ok := u.exports[name]; ok {
			return p.lookup(module, local, false, visited)
		}
	}

	if sym, ok := u.symbols[name]; ok && sym.Kind.IsType() && (sym.Exported || !exportedOnly) {
		return sym, true
	}

	if !exportedOnly {
		if imp, ok := u.imports[name]; ok && imp.Imported != "*" {
			target, ok := p.host.Resolve(module, imp.Specifier)
			if !ok {
				return nil, false
			}
			return p.lookup(target.Path, imp.Imported, true, visited)
		}
		return nil, false
	}

	for _, re := range u.reexps {
		if !re.All && re.Exported != name {
			continue
		}
		target, ok := p.host.Resolve(module, re.Specifier)
		if !ok {
			continue
		}
		imported := re.Imported
		if re.All {
			imported = name
		}
		if sym, ok := p.lookup(target.Path, imported, true, visited); ok {
			return sym, true
		}
	}
	return nil, false
}
