package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glasswing-labs/minishell/internal/engine"
	"github.com/glasswing-labs/minishell/internal/environment"
	"github.com/glasswing-labs/minishell/internal/history"
	"github.com/glasswing-labs/minishell/internal/lexer"
	"github.com/glasswing-labs/minishell/internal/parser"
	"github.com/glasswing-labs/minishell/internal/selfexec"
)

// Domain: CLI Application Structure
//
// App wires the cobra root command, flags, and the hidden __eval
// subcommand, grounded on cmd/drun/app/cli.go's App struct and
// setupFlags/setupCommands split.
type App struct {
	version string

	rootCmd *cobra.Command

	configFile    string
	command       string
	historyFile   string
	noHistory     bool
	secureHistory bool
	debugTokens   bool
	debugAST      bool
	showVersion   bool
}

// NewApp builds the CLI application.
func NewApp(version string) *App {
	a := &App{version: version}

	a.rootCmd = &cobra.Command{
		Use:           "minishell",
		Short:         "A small interactive shell: lexer, parser, and evaluator",
		RunE:          a.run,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	a.setupFlags()
	a.setupCommands()
	return a
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

func (a *App) setupFlags() {
	flags := a.rootCmd.Flags()
	flags.StringVarP(&a.command, "command", "c", "", "evaluate one command line non-interactively and exit with its status")
	flags.StringVar(&a.configFile, "config", "", "override the config file location (default ~/.minishellrc.yaml)")
	flags.StringVar(&a.historyFile, "history-file", "", "override the history store path")
	flags.BoolVar(&a.noHistory, "no-history", false, "disable history persistence")
	flags.BoolVar(&a.secureHistory, "secure-history", false, "encrypt history entries for this run")
	flags.BoolVar(&a.debugTokens, "debug-tokens", false, "print the token stream for each parsed line")
	flags.BoolVar(&a.debugAST, "debug-ast", false, "print the AST for each parsed line")
	flags.BoolVar(&a.showVersion, "version", false, "print version information")
}

// setupCommands registers the hidden __eval re-exec entry point
// (SPEC_FULL.md §2.2). It never appears in --help and is never invoked by
// a human; internal/engine re-execs the shell's own binary with it to give
// a subshell or pipeline stage a real OS process boundary.
func (a *App) setupCommands() {
	a.rootCmd.AddCommand(&cobra.Command{
		Use:    selfexec.EvalSubcommand + " <source>",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			RunEval(args[0], a.shellName())
		},
	})
}

func (a *App) shellName() string {
	config, err := LoadConfig(a.configFile)
	if err != nil {
		return "minishell"
	}
	return config.ShellName
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	if a.showVersion {
		return ShowVersion(a.version)
	}

	config, err := LoadConfig(a.configFile)
	if err != nil {
		return err
	}

	env := environment.New(os.Environ())
	for name, value := range config.Env {
		env.Set(name, value)
	}
	env.Set("?", "0")

	store, err := a.openHistory(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: history: %v\n", config.ShellName, err)
	}
	if store != nil {
		defer store.Close()
	}

	if a.command != "" {
		return a.runCommand(config, env, store)
	}

	repl := NewREPL(env, store, config.ShellName, a.debugTokens, a.debugAST)
	repl.Run()
	return nil
}

func (a *App) openHistory(config Config) (*history.Store, error) {
	if a.noHistory {
		return nil, nil
	}
	path := config.HistoryFile
	if a.historyFile != "" {
		path = a.historyFile
	}
	secure := config.SecureHistory || a.secureHistory
	return history.Open(path, config.HistoryLimit, secure)
}

func (a *App) runCommand(config Config, env *environment.Environment, store *history.Store) error {
	l := lexer.New(a.command)
	p := parser.New(l, config.ShellName)
	root := p.Parse()
	if p.HasError() {
		os.Exit(2)
	}

	eng := engine.New(env, config.ShellName)
	status := eng.Evaluate(root)

	if store != nil {
		if err := store.Append(a.command, status); err != nil {
			fmt.Fprintf(os.Stderr, "%s: history: %v\n", config.ShellName, err)
		}
	}

	os.Exit(status)
	return nil
}
