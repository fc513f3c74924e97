package introspect

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
)

func sampleUnits() []model.SourceUnit {
	return []model.SourceUnit{
		{Path: "src/command.ts", Text: `export interface IRepositoryCommandArgs {
    /**
     * Name of the repository.
     */
    repository?: string;
}
`},
		{Path: "src/commands/foo.ts", Text: `/**
 * Does foo things.
 */
export const Foo = async (runtime, args: IFooArgs) => {
    return args.target;
};

export interface IFooArgs {
    /**
     * Target to foo.
     */
    target: string;

    /**
     * How deep to go.
     */
    depth?: number;
}
`},
		{Path: "src/commands/clone.ts", Text: `import { IRepositoryCommandArgs } from "../command";

export interface ICloneArgs extends IRepositoryCommandArgs {
    /**
     * Owner to clone from.
     */
    fork?: string;
}

/**
 * Clones a repository locally.
 */
export const Clone = async (runtime, args: ICloneArgs) => {};
`},
		{Path: "src/commands/helpers.ts", Text: `export const answer = 42;
export interface IUnused {}
`},
		{Path: "src/commands/broken.ts", Text: `export const Broken = (runtime, args: IBrokenArgs => {`},
		{Path: "src/commands/lost.ts", Text: `import { ILostArgs } from "./nowhere";

export const Lost = (runtime, args: ILostArgs) => {};
`},
	}
}

func commandPaths(units []model.SourceUnit) []string {
	var out []string
	for _, u := range units {
		if strings.HasPrefix(u.Path, "src/commands/") {
			out = append(out, u.Path)
		}
	}
	return out
}

func TestDescribeScenario(t *testing.T) {
	t.Parallel()

	units := sampleUnits()
	res := Describe(units, commandPaths(units), nil)

	// Sorted by path: clone, foo, lost. broken fails to parse, helpers has no command.
	var got []string
	for _, c := range res.Commands {
		got = append(got, c.CommandName)
	}
	if !reflect.DeepEqual(got, []string{"Clone", "Foo", "Lost"}) {
		t.Fatalf("commands = %v", got)
	}

	foo := res.Commands[1]
	want := model.CommandDescriptor{
		CommandName:      "Foo",
		Documentation:    "Does foo things.",
		HasDocumentation: true,
		RequiredArgs: []model.MemberDescriptor{
			{Name: "target", TypeText: "string", Documentation: "Target to foo."},
		},
		OptionalArgs: []model.MemberDescriptor{
			{Name: "depth", TypeText: "number", Documentation: "How deep to go.", Optional: true},
		},
	}
	if !reflect.DeepEqual(foo, want) {
		t.Errorf("Foo = %+v\nwant %+v", foo, want)
	}

	clone := res.Commands[0]
	var optional []string
	for _, m := range clone.OptionalArgs {
		optional = append(optional, m.Name)
	}
	if !reflect.DeepEqual(optional, []string{"fork", "repository", "directory"}) {
		t.Errorf("Clone optional = %v", optional)
	}

	lost := res.Commands[2]
	if len(lost.RequiredArgs)+len(lost.OptionalArgs) != 0 {
		t.Errorf("Lost should have no args: %+v", lost)
	}
}

func TestDescribeDiagnostics(t *testing.T) {
	t.Parallel()

	units := sampleUnits()
	var buf bytes.Buffer
	logger := log.New(&buf)

	res := Describe(units, commandPaths(units), logger)

	kinds := make(map[string]model.DiagnosticKind)
	for _, d := range res.Diagnostics {
		kinds[d.Path] = d.Kind
	}
	if kinds["src/commands/broken.ts"] != model.ParseFailure {
		t.Errorf("broken.ts diagnostic = %q", kinds["src/commands/broken.ts"])
	}
	if kinds["src/commands/lost.ts"] != model.UnresolvedTypeReference {
		t.Errorf("lost.ts diagnostic = %q", kinds["src/commands/lost.ts"])
	}
	if len(res.Diagnostics) != 2 {
		t.Errorf("got %d diagnostics: %+v", len(res.Diagnostics), res.Diagnostics)
	}

	out := buf.String()
	if !strings.Contains(out, "src/commands/broken.ts") || !strings.Contains(out, "ILostArgs") {
		t.Errorf("warnings not logged:\n%s", out)
	}
}

func TestDescribeIgnoresNonCommandPaths(t *testing.T) {
	t.Parallel()

	units := sampleUnits()
	res := Describe(units, []string{"src/commands/foo.ts", "src/missing.ts"}, nil)
	if len(res.Commands) != 1 || res.Commands[0].CommandName != "Foo" {
		t.Errorf("commands = %+v", res.Commands)
	}
}

func TestDescribeDeterministic(t *testing.T) {
	t.Parallel()

	units := sampleUnits()
	first := Describe(units, commandPaths(units), nil)

	reversed := make([]model.SourceUnit, len(units))
	for i, u := range units {
		reversed[len(units)-1-i] = u
	}
	paths := commandPaths(reversed)
	second := Describe(reversed, paths, nil)

	a := fmt.Sprintf("%#v", first.Commands)
	b := fmt.Sprintf("%#v", second.Commands)
	if a != b {
		t.Errorf("runs differ:\n%s\n%s", a, b)
	}
}

func TestDescribeEmpty(t *testing.T) {
	t.Parallel()

	res := Describe(nil, nil, nil)
	if len(res.Commands) != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("result = %+v", res)
	}
}
