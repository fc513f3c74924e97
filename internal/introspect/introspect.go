// Package introspect runs the command introspection pipeline: it builds a
// program model over a fixed set of source units, locates each command
// module's entry point and describes the arguments it accepts.
package introspect

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/command"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/describe"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/host"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/program"
)

// Result is the outcome of one introspection pass.
type Result struct {
	Commands    model.CommandDescriptorSet
	Diagnostics []model.Diagnostic
}

// Describe analyses units and describes every unit listed in commands that
// matches the command pattern, in path order. It never fails: units that
// cannot be parsed, resolved or matched are skipped or described without
// arguments, and the reason is recorded as a diagnostic and logged.
func Describe(units []model.SourceUnit, commands []string, logger *log.Logger) Result {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := host.New(units)
	prog, diags := program.Build(h)
	defer prog.Close()

	paths := append([]string(nil), commands...)
	sort.Strings(paths)

	var set model.CommandDescriptorSet
	for _, path := range paths {
		u, ok := prog.Unit(path)
		if !ok {
			// Parse failures were reported by Build; other unknown paths are ignored.
			continue
		}

		shape, locateDiags := command.Locate(u)
		diags = append(diags, locateDiags...)

		switch s := shape.(type) {
		case model.NotACommand:
			logger.Debug("no command found", "path", path)
		case model.CommandNoArgs:
			set = append(set, model.CommandDescriptor{
				CommandName:      s.Name,
				Documentation:    s.Docs,
				HasDocumentation: s.HasDocs,
			})
		case model.CommandWithArgs:
			required, optional, extractDiags := describe.Extract(prog, s.Args)
			diags = append(diags, extractDiags...)
			set = append(set, model.CommandDescriptor{
				CommandName:      s.Name,
				Documentation:    s.Docs,
				HasDocumentation: s.HasDocs,
				RequiredArgs:     required,
				OptionalArgs:     optional,
			})
		}
	}

	for _, d := range diags {
		logger.Warn(d.Message, "path", d.Path, "kind", d.Kind)
	}

	return Result{Commands: set, Diagnostics: diags}
}
