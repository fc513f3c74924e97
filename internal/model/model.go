// Package model defines core data structures for shenanigans-manager.
package model

// SourceUnit is one in-memory source module.
// Path is slash-separated and relative to the analysed root.
type SourceUnit struct {
	Path string
	Text string
}

// ArgsTypeRef is an unresolved reference to a command's arguments interface.
// Module is the unit in which the reference is written; resolution follows
// that unit's imports.
type ArgsTypeRef struct {
	Name   string
	Module string
}

// CommandShape is the result of matching a unit against the command pattern.
// It is one of NotACommand, CommandNoArgs or CommandWithArgs.
type CommandShape interface {
	isCommandShape()
}

// NotACommand marks a unit without an exported command entry point.
type NotACommand struct{}

// CommandNoArgs is a command that takes no structured arguments.
type CommandNoArgs struct {
	Name    string
	Docs    string
	HasDocs bool
}

// CommandWithArgs is a command whose second parameter names an arguments interface.
type CommandWithArgs struct {
	Name    string
	Docs    string
	HasDocs bool
	Args    ArgsTypeRef
}

func (NotACommand) isCommandShape()     {}
func (CommandNoArgs) isCommandShape()   {}
func (CommandWithArgs) isCommandShape() {}

// MemberDescriptor is one documented field of an arguments interface.
type MemberDescriptor struct {
	Name          string
	TypeText      string
	Documentation string
	Optional      bool
}

// CommandDescriptor describes one command and its accepted arguments.
type CommandDescriptor struct {
	CommandName      string
	Documentation    string
	HasDocumentation bool
	RequiredArgs     []MemberDescriptor
	OptionalArgs     []MemberDescriptor
}

// CommandDescriptorSet is the ordered list of described commands, ready for rendering.
type CommandDescriptorSet []CommandDescriptor

// DiagnosticKind classifies a recovered analysis failure.
type DiagnosticKind string

const (
	ParseFailure            DiagnosticKind = "parse-failure"
	UnresolvedTypeReference DiagnosticKind = "unresolved-type"
	MultipleCommands        DiagnosticKind = "multiple-commands"
)

// Diagnostic records a non-fatal problem found while analysing a unit.
type Diagnostic struct {
	Path    string
	Kind    DiagnosticKind
	Message string
}
