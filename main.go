// shenanigans-manager manages locally cloned FullScreenShenanigans repositories
// and describes its own commands by reading their TypeScript sources.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/config"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/discover"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/introspect"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/render"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/repos"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/sourceset"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// app holds state shared by every subcommand once flags are parsed.
type app struct {
	stdout, stderr io.Writer

	configPath string
	directory  string
	verbose    bool

	fs       afero.Fs
	logger   *log.Logger
	settings *config.Settings
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, fs: afero.NewOsFs()}

	help := a.newHelpCmd()

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Manage locally installed FullScreenShenanigans modules for development",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: help.RunE,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\n", config.AppName))

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: ./shenanigans.{toml,yaml,json})")
	pf.StringVar(&a.directory, "directory", "", "directory containing the repositories")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	// Flags of the help command are also accepted when it runs as the default.
	root.Flags().AddFlagSet(help.Flags())

	root.SetHelpCommand(help)
	root.AddCommand(a.newExecCmd(), a.newCloneCmd(), a.newExistsCmd())
	return root
}

func (a *app) setup() error {
	a.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}

	settings, err := config.Load(config.LoadOptions{FilePath: a.configPath})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.directory != "" {
		settings.Directory = a.directory
	}
	a.settings = settings
	a.logger.Debug("loaded settings", "organization", settings.Organization, "directory", settings.Directory)
	return nil
}

func (a *app) newHelpCmd() *cobra.Command {
	var format, source string

	cmd := &cobra.Command{
		Use:   "help",
		Short: "Describe the available commands",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.describe(cmd.Context(), format, source)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or toon")
	cmd.Flags().StringVar(&source, "source", "", "root of the TypeScript sources to describe (overrides source.root)")
	return cmd
}

func (a *app) describe(ctx context.Context, format, source string) error {
	if format != "text" && format != "toon" {
		return fmt.Errorf("unsupported format %q", format)
	}

	root := a.settings.Source.Root
	if source != "" {
		root = source
	}

	files, err := discover.Files(a.fs, root, a.settings.Source.Include)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	a.logger.Debug("discovered sources", "root", root, "files", len(files))

	set, err := sourceset.Load(ctx, a.fs, root, files, a.settings.Source.Commands)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	result := introspect.Describe(set.Units, set.Commands, a.logger)

	if format == "toon" {
		_, err = fmt.Fprintln(a.stdout, toon.Encode(config.AppName, result.Commands))
		return err
	}
	return render.Help(a.stdout, config.AppName, result.Commands)
}

func (a *app) manager() *repos.Manager {
	return repos.New(a.settings, a.fs, a.logger)
}

func (a *app) newExecCmd() *cobra.Command {
	var (
		all        bool
		repository string
	)

	cmd := &cobra.Command{
		Use:   "exec [--all | --repository NAME] -- COMMAND...",
		Short: "Run a shell command in one or all repositories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			m := a.manager()

			if !all {
				out, err := m.Exec(cmd.Context(), repository, command)
				a.print(out.Stdout)
				return err
			}

			results, err := m.ExecAll(cmd.Context(), command)
			failed := 0
			for _, r := range results {
				fmt.Fprintf(a.stdout, "%s:\n", r.Repository)
				a.print(r.Output.Stdout)
				if r.Err != nil {
					failed++
				}
			}
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d repositories failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "run in every configured repository")
	cmd.Flags().StringVar(&repository, "repository", "", "repository to run within")
	cmd.MarkFlagsMutuallyExclusive("all", "repository")
	cmd.MarkFlagsOneRequired("all", "repository")
	return cmd
}

func (a *app) newCloneCmd() *cobra.Command {
	var repository, fork string

	cmd := &cobra.Command{
		Use:   "clone --repository NAME",
		Short: "Clone a repository locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.manager().Clone(cmd.Context(), repository, fork)
			a.print(out.Stdout)
			return err
		},
	}
	cmd.Flags().StringVar(&repository, "repository", "", "name of the repository")
	cmd.Flags().StringVar(&fork, "fork", "", "GitHub user or organization to clone from, if not the configured organization")
	_ = cmd.MarkFlagRequired("repository")
	return cmd
}

func (a *app) newExistsCmd() *cobra.Command {
	var repository string

	cmd := &cobra.Command{
		Use:   "exists --repository NAME",
		Short: "Check if a repository exists locally",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.stdout, a.manager().Exists(repository))
			return err
		},
	}
	cmd.Flags().StringVar(&repository, "repository", "", "name of the repository")
	_ = cmd.MarkFlagRequired("repository")
	return cmd
}

func (a *app) print(text string) {
	if text != "" {
		_, _ = fmt.Fprintln(a.stdout, text)
	}
}
