// Command backup is a reference command-line front end for the tree backup
// engine: it fills in the presentation layer spec.md deliberately leaves out
// of the core (argument parsing, prompting, colorized progress), wired to
// the engine's external interface contract.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nalanj/treebackup/cmd"
	"github.com/nalanj/treebackup/pkg/config"
	"github.com/nalanj/treebackup/pkg/engine"
	"github.com/nalanj/treebackup/pkg/fsops"
	"github.com/nalanj/treebackup/pkg/logging"
)

var rootConfiguration struct {
	source     string
	dest       string
	mode       string
	configPath string
	envPath    string
	dryRun     bool
	logLevel   string
}

var rootCommand = &cobra.Command{
	Use:          "backup",
	Short:        "Reconcile a destination directory tree against a source tree",
	Args:         cmd.DisallowArguments,
	Run:          cmd.Mainify(run),
	SilenceUsage: true,
}

func init() {
	flags := rootCommand.Flags()
	flags.StringVar(&rootConfiguration.source, "source", "", "Source directory path")
	flags.StringVar(&rootConfiguration.dest, "dest", "", "Destination directory path")
	flags.StringVar(&rootConfiguration.mode, "mode", "", "Backup mode: sync, add, or remove")
	flags.StringVar(&rootConfiguration.configPath, "config", "backup.yaml", "Path to a YAML configuration file")
	flags.StringVar(&rootConfiguration.envPath, "env-file", ".env", "Path to a .env file of configuration overrides")
	flags.BoolVar(&rootConfiguration.dryRun, "dry-run", false, "Compute and report the plan without applying it")
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "info", "Log level: disabled, error, warn, info, debug, or trace")
}

func run(command *cobra.Command, arguments []string) error {
	level, ok := logging.NameToLevel(rootConfiguration.logLevel)
	if !ok {
		cmd.Error(fmt.Errorf("invalid log level: %q", rootConfiguration.logLevel))
		os.Exit(2)
	}
	logging.CurrentLevel = level

	statusLine := &cmd.StatusLinePrinter{}
	prompter := &cmd.StatusLinePrompter{Printer: statusLine}

	source := rootConfiguration.source
	if source == "" {
		var err error
		if source, err = prompter.Prompt("Source path: "); err != nil {
			return err
		}
	}

	dest := rootConfiguration.dest
	if dest == "" {
		var err error
		if dest, err = prompter.Prompt("Destination path: "); err != nil {
			return err
		}
	}

	modeName := rootConfiguration.mode
	if modeName == "" {
		var err error
		if modeName, err = prompter.Prompt("Mode (sync/add/remove): "); err != nil {
			return err
		}
	}

	mode, err := engine.ParseBackupMode(modeName)
	if err != nil {
		cmd.Error(err)
		os.Exit(2)
	}

	options, err := config.Load(rootConfiguration.configPath, rootConfiguration.envPath)
	if err != nil {
		return err
	}
	if command.Flags().Changed("dry-run") {
		options.DryRun = rootConfiguration.dryRun
	}
	if options.DryRun {
		cmd.Warning("dry run: no filesystem changes will be applied")
	}

	fs, err := fsops.New(source)
	if err != nil {
		return err
	}

	orchestrator := &engine.Orchestrator{
		FS:      fs,
		Hasher:  fsops.NewHasher(),
		Options: options,
		Logger:  logging.RootLogger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, cmd.TerminationSignals...)
	go func() {
		<-signals
		statusLine.BreakIfNonEmpty()
		fmt.Fprintln(os.Stderr, "Cancelling...")
		cancel()
	}()

	colorize := isatty.IsTerminal(os.Stdout.Fd())

	result, err := orchestrator.Execute(ctx, engine.Request{
		SourcePath:      source,
		DestinationPath: dest,
		Mode:            mode,
	}, func(progress engine.BackupProgress) {
		message := fmt.Sprintf("%s (%d/%d)", progress.Phase, progress.Processed, progress.Total)
		if colorize {
			message = color.CyanString(message)
		}
		statusLine.Print(message)
	})
	statusLine.Clear()

	if err != nil {
		if engine.IsCancelled(err) {
			os.Exit(130)
		}
		if kind, ok := engine.KindOf(err); ok && kind == engine.KindInvalidArgument {
			os.Exit(2)
		}
		return err
	}

	fmt.Printf(
		"directories created: %d, files copied: %s, files overwritten: %s, files deleted: %d, directories deleted: %d\n",
		result.DirectoriesCreated,
		humanize.Comma(int64(result.FilesCopied)),
		humanize.Comma(int64(result.FilesOverwritten)),
		result.FilesDeleted,
		result.DirectoriesDeleted,
	)

	return nil
}

func main() {
	cmd.HandleTerminalCompatibility()
	if err := rootCommand.Execute(); err != nil {
		cmd.Fatal(err)
	}
}
