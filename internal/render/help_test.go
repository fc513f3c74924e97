package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
)

func TestDashedCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"CloneRepository", "clone-repository"},
		{"openOnGithub", "open-on-github"},
		{"Help", "help"},
		{"NPMInstall", "npm-install"},
		{"Gulp2Setup", "gulp2-setup"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := DashedCase(tt.in); got != tt.want {
				t.Errorf("DashedCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	set := model.CommandDescriptorSet{
		{
			CommandName:      "CloneRepository",
			Documentation:    "Clones a repository locally.",
			HasDocumentation: true,
			RequiredArgs: []model.MemberDescriptor{
				{Name: "repository", TypeText: "string", Documentation: "Name of the repository."},
			},
			OptionalArgs: []model.MemberDescriptor{
				{Name: "directory", TypeText: "string", Documentation: "Directory to run within, if not the current.", Optional: true},
			},
		},
		{CommandName: "Help"},
	}

	var buf bytes.Buffer
	if err := Help(&buf, "shenanigans-manager", set); err != nil {
		t.Fatalf("Help: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"shenanigans-manager",
		"Available commands:",
		"clone-repository",
		"Clones a repository locally.",
		"Required args:",
		"repository",
		" (string) - ",
		"Name of the repository.",
		"Optional args:",
		"Directory to run within, if not the current.",
		"help",
		"--all",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "Required args:") > strings.Index(out, "Optional args:") {
		t.Error("required args should be listed before optional args")
	}
	if strings.Count(out, "Required args:") != 1 {
		t.Error("commands without args should not print arg sections")
	}
}
