package describe

import (
	"reflect"
	"strings"
	"testing"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/host"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/program"
)

const commandSource = `/**
 * Common arguments for all commands.
 */
export interface ICommandArgs {
    /**
     * Location to run the command in.
     */
    directory: string;
}

export interface IRepositoryCommandArgs extends ICommandArgs {
    /**
     * Name of the repository.
     */
    repository: string;
}
`

func extract(t *testing.T, source string, name string) ([]model.MemberDescriptor, []model.MemberDescriptor, []model.Diagnostic) {
	t.Helper()
	p, diags := program.Build(host.New([]model.SourceUnit{
		{Path: "src/command.ts", Text: commandSource},
		{Path: "src/commands/test.ts", Text: source},
	}))
	t.Cleanup(p.Close)
	if len(diags) != 0 {
		t.Fatalf("build diagnostics: %+v", diags)
	}
	return Extract(p, model.ArgsTypeRef{Name: name, Module: "src/commands/test.ts"})
}

func names(ms []model.MemberDescriptor) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func sameNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestExtractOrdersRequiredBeforeOptional(t *testing.T) {
	t.Parallel()

	required, optional, diags := extract(t, `
export interface IBuildArgs {
    /**
     * Whether to watch.
     */
    watch?: boolean;

    /**
     * Build target.
     */
    target: string;

    /**
     * Depth to build to.
     */
    depth?: number;

    /**
     * Extra flags.
     */
    flags: string[];
}
`, "IBuildArgs")

	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if got := names(required); !reflect.DeepEqual(got, []string{"target", "flags"}) {
		t.Errorf("required = %v", got)
	}
	if got := names(optional); !reflect.DeepEqual(got, []string{"watch", "depth"}) {
		t.Errorf("optional = %v", got)
	}

	want := model.MemberDescriptor{Name: "flags", TypeText: "string[]", Documentation: "Extra flags."}
	if required[1] != want {
		t.Errorf("required[1] = %+v, want %+v", required[1], want)
	}
	for _, m := range optional {
		if !m.Optional {
			t.Errorf("%s should be optional", m.Name)
		}
	}
}

func TestExtractSkipsAmbiguousDocumentation(t *testing.T) {
	t.Parallel()

	required, optional, diags := extract(t, `
export interface ITestArgs {
    /**
     * Documented once.
     */
    first: string;

    /**
     * Documented twice.
     */
    /**
     * Second block.
     */
    twice: string;

    undocumented: string;

    // Line comments are not documentation.
    lineCommented: string;

    /**
     * @deprecated
     */
    tagOnly: string;

    /** Still fine. */
    last?: string;
}
`, "ITestArgs")

	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if got := names(required); !reflect.DeepEqual(got, []string{"first"}) {
		t.Errorf("required = %v", got)
	}
	if got := names(optional); !reflect.DeepEqual(got, []string{"last"}) {
		t.Errorf("optional = %v", got)
	}
}

func TestExtractSynthesisesBaseContract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		source       string
		ref          string
		wantRequired []string
		wantOptional []string
	}{
		{
			name: "repository base with own members",
			source: `import { IRepositoryCommandArgs } from "../command";

export interface ICloneArgs extends IRepositoryCommandArgs {
    /**
     * Whether to also link.
     */
    link?: boolean;

    /**
     * Fork owner.
     */
    fork: string;
}
`,
			ref:          "ICloneArgs",
			wantRequired: []string{"fork"},
			wantOptional: []string{"link", "repository", "directory"},
		},
		{
			name:         "repository base without own members",
			source:       `export interface IEmptyArgs extends IRepositoryCommandArgs {}`,
			ref:          "IEmptyArgs",
			wantOptional: []string{"repository", "directory"},
		},
		{
			name:         "command base",
			source:       `export interface IPlainArgs extends ICommandArgs {}`,
			ref:          "IPlainArgs",
			wantOptional: []string{"directory"},
		},
		{
			name:         "both bases do not repeat directory",
			source:       `export interface IBothArgs extends ICommandArgs, IRepositoryCommandArgs {}`,
			ref:          "IBothArgs",
			wantOptional: []string{"directory", "repository"},
		},
		{
			name:   "unknown base contributes nothing",
			source: `export interface IOtherArgs extends IUnrelated<string> { /** Own. */ own: number; }`,
			ref:          "IOtherArgs",
			wantRequired: []string{"own"},
		},
		{
			name: "intersection alias",
			source: `export type IAliasArgs = IRepositoryCommandArgs & {
    /** Own. */
    own?: string;
};`,
			ref:          "IAliasArgs",
			wantOptional: []string{"own", "repository", "directory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			required, optional, diags := extract(t, tt.source, tt.ref)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %+v", diags)
			}
			if got := names(required); !sameNames(got, tt.wantRequired) {
				t.Errorf("required = %v, want %v", got, tt.wantRequired)
			}
			if got := names(optional); !sameNames(got, tt.wantOptional) {
				t.Errorf("optional = %v, want %v", got, tt.wantOptional)
			}
		})
	}
}

func TestExtractSynthesisedMembersMatchTable(t *testing.T) {
	t.Parallel()

	_, optional, _ := extract(t, `export interface IEmptyArgs extends IRepositoryCommandArgs {}`, "IEmptyArgs")
	if !reflect.DeepEqual(optional, BaseContracts["IRepositoryCommandArgs"]) {
		t.Errorf("optional = %+v", optional)
	}
}

func TestExtractUnresolved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		ref     string
		message string
	}{
		{"missing", `export const x = 1;`, "IMissingArgs", "not found"},
		{"class", `export class IClassArgs { a: string; }`, "IClassArgs", "not an interface"},
		{"union alias", `export type IUnionArgs = string | number;`, "IUnionArgs", "not an interface"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			required, optional, diags := extract(t, tt.source, tt.ref)
			if len(required)+len(optional) != 0 {
				t.Errorf("expected no members, got %v %v", names(required), names(optional))
			}
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1", len(diags))
			}
			d := diags[0]
			if d.Kind != model.UnresolvedTypeReference {
				t.Errorf("kind = %q", d.Kind)
			}
			if d.Path != "src/commands/test.ts" {
				t.Errorf("path = %q", d.Path)
			}
			if !strings.Contains(d.Message, tt.message) {
				t.Errorf("message = %q, want it to mention %q", d.Message, tt.message)
			}
		})
	}
}

func TestExtractTypeText(t *testing.T) {
	t.Parallel()

	required, _, _ := extract(t, `
export interface ITypesArgs {
    /** Map. */
    map: {
        [key: string]: number;
    };

    /** Untyped. */
    untyped;

    /** Union. */
    union: "a" | "b";
}
`, "ITypesArgs")

	want := map[string]string{
		"map":     "{ [key: string]: number; }",
		"untyped": "unknown",
		"union":   `"a" | "b"`,
	}
	if len(required) != len(want) {
		t.Fatalf("required = %v", names(required))
	}
	for _, m := range required {
		if m.TypeText != want[m.Name] {
			t.Errorf("%s type = %q, want %q", m.Name, m.TypeText, want[m.Name])
		}
	}
}
