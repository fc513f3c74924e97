// Package render formats described commands as human-readable help text.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
)

// Styles holds the lipgloss styles used for help output.
type Styles struct {
	Tool        lipgloss.Style
	Muted       lipgloss.Style
	Section     lipgloss.Style
	Command     lipgloss.Style
	Docs        lipgloss.Style
	Highlight   lipgloss.Style
	Instruction lipgloss.Style
}

// NewStyles builds styles bound to r, so color support is detected for the
// writer that will receive the output.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Tool:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Muted:       r.NewStyle().Foreground(lipgloss.Color("8")),
		Section:     r.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
		Command:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Docs:        r.NewStyle().Foreground(lipgloss.Color("14")),
		Highlight:   r.NewStyle().Foreground(lipgloss.Color("3")),
		Instruction: r.NewStyle().Bold(true),
	}
}

// Help writes help text for every command in set.
func Help(w io.Writer, tool string, set model.CommandDescriptorSet) error {
	s := NewStyles(lipgloss.NewRenderer(w))
	var b strings.Builder

	fmt.Fprintf(&b, "%s manages locally installed repositories for development.\n", s.Tool.Render(tool))
	fmt.Fprintf(&b, "%s\n\n", s.Muted.Render("Available commands:"))

	for i := range set {
		writeCommand(&b, s, &set[i])
	}

	fmt.Fprintf(&b, "Run with %s to execute a command in all repositories.\n", s.Instruction.Render("--all"))

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCommand(b *strings.Builder, s Styles, c *model.CommandDescriptor) {
	fmt.Fprintln(b, s.Command.Render(DashedCase(c.CommandName)))
	if c.HasDocumentation {
		fmt.Fprintln(b, s.Docs.Render(c.Documentation))
	}
	writeArgs(b, s, "Required args:", c.RequiredArgs)
	writeArgs(b, s, "Optional args:", c.OptionalArgs)
	fmt.Fprintln(b)
}

func writeArgs(b *strings.Builder, s Styles, title string, args []model.MemberDescriptor) {
	if len(args) == 0 {
		return
	}
	fmt.Fprintln(b, s.Section.Render(title))
	for _, m := range args {
		fmt.Fprintf(b, "%s%s%s%s\n",
			s.Muted.Render(" * --"),
			s.Highlight.Render(m.Name),
			s.Muted.Render(fmt.Sprintf(" (%s) - ", m.TypeText)),
			s.Highlight.Render(m.Documentation),
		)
	}
}

// DashedCase converts a PascalCase or camelCase command name to the dashed
// form used on the command line: "CloneRepository" becomes "clone-repository"
// and "openOnGithub" becomes "open-on-github". Runs of capitals stay together
// ("NPMInstall" becomes "npm-install").
func DashedCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
