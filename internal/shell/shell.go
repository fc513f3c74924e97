// Package shell runs shell commands through an embedded POSIX interpreter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Output is the result of running a command.
type Output struct {
	Code   int
	Stdout string
	Stderr string
}

// Shell runs commands within a working directory.
type Shell struct {
	Dir    string
	logger *log.Logger
}

// New creates a Shell rooted at dir. A nil logger discards output.
func New(dir string, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if dir == "" {
		dir = "."
	}
	return &Shell{Dir: dir, logger: logger}
}

// Execute runs command and captures its sanitized output. A non-zero exit
// is reported in Output.Code; errors are reserved for commands that could
// not be parsed or started.
func (s *Shell) Execute(ctx context.Context, command string) (Output, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return Output{}, fmt.Errorf("parsing command: %w", err)
	}

	stdout := NewSanitizer(func(line string) {
		s.logger.Debug(line, "dir", s.Dir)
	})
	stderr := NewSanitizer(func(line string) {
		s.logger.Debug(line, "dir", s.Dir, "stream", "stderr")
	})

	runner, err := interp.New(
		interp.Dir(s.Dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return Output{}, fmt.Errorf("creating interpreter: %w", err)
	}

	s.logger.Debug("executing", "command", command, "dir", s.Dir)

	var out Output
	err = runner.Run(ctx, prog)
	stdout.Flush()
	stderr.Flush()
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()

	if err != nil {
		var exitStatus interp.ExitStatus
		if !errors.As(err, &exitStatus) {
			return out, fmt.Errorf("running command: %w", err)
		}
		out.Code = int(exitStatus)
	}

	s.logger.Debug("finished", "command", command, "code", out.Code)
	return out, nil
}
