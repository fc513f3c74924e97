// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a described command set into TOON format.
// tool names the analysed tool and becomes the header line.
func Encode(tool string, set model.CommandDescriptorSet) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("tool: %s", encodeValue(tool)))

	var commandRows [][]string
	for i := range set {
		c := &set[i]
		commandRows = append(commandRows, []string{
			c.CommandName,
			c.Documentation,
		})
	}
	parts = append(parts, formatTabular("commands", []string{"name", "docs"}, commandRows))

	var argRows [][]string
	for i := range set {
		c := &set[i]
		for j := range c.RequiredArgs {
			argRows = append(argRows, argRow(c.CommandName, "required", &c.RequiredArgs[j]))
		}
		for j := range c.OptionalArgs {
			argRows = append(argRows, argRow(c.CommandName, "optional", &c.OptionalArgs[j]))
		}
	}
	parts = append(parts, formatTabular("args", []string{"command", "name", "type", "kind", "docs"}, argRows))

	return strings.Join(parts, "\n")
}

func argRow(command, kind string, m *model.MemberDescriptor) []string {
	return []string{command, m.Name, m.TypeText, kind, m.Documentation}
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
