package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tacogips/binst/internal/build"
	"github.com/tacogips/binst/internal/config"
	"github.com/tacogips/binst/internal/debug"
	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/repo"
)

// Global flags
var (
	globalHome    string
	globalConfig  string
	globalNoColor bool
	globalQuiet   bool
	globalDebug   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "binst",
	Short: "Decentralized binary installer",
	Long: `binst installs and publishes single-binary programs.

Binaries are published to a repository (a local directory, an S3 bucket or,
read-only, an http(s) URL) under {bin}/{target}/{stream}/. Installs land in
the binst home ($BINST_HOME or ~/.binst) and are linked from its bin/ directory.

Run "binst self" once to create the home and install binst itself.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// session is the state every command shares after setup.
type session struct {
	layout paths.Layout
	config *config.Config
}

var current session

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	if err := ExecuteContext(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	rootCmd.Version = build.Version()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalHome, FlagHome, "", DescHome)
	pf.StringVar(&globalConfig, FlagConfig, "", DescConfig)
	pf.BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	pf.BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	pf.BoolVar(&globalDebug, FlagDebug, false, DescDebug)
	pf.BoolVarP(&globalDebug, FlagVerbose, "v", false, DescVerbose)

	rootCmd.AddCommand(selfCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup resolves the home directory, loads the configuration and applies
// the output and logging settings. Flags win over the config file.
func setup(cmd *cobra.Command, args []string) error {
	debug.SetDebug(globalDebug)
	debug.SetNoColor(globalNoColor)

	root := globalHome
	if root == "" {
		var err error
		if root, err = paths.DefaultRoot(); err != nil {
			return err
		}
	} else {
		expanded, err := config.ExpandPath(root)
		if err != nil {
			return err
		}
		root = expanded
	}
	layout, err := paths.New(root)
	if err != nil {
		return err
	}

	configPath := layout.ConfigFile
	if globalConfig != "" {
		if configPath, err = config.ExpandPath(globalConfig); err != nil {
			return err
		}
	}
	loader := config.NewLoader()
	cfg, err := loader.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := loader.Validate(cfg); err != nil {
		return err
	}

	if !cmd.Flags().Changed(FlagNoColor) && !cfg.Output.Color {
		globalNoColor = true
	}
	if !cmd.Flags().Changed(FlagQuiet) && cfg.Output.Quiet {
		globalQuiet = true
	}
	if !globalDebug && strings.EqualFold(cfg.Log.Level, "debug") {
		globalDebug = true
	}
	color.NoColor = color.NoColor || globalNoColor
	debug.SetFormat(cfg.Log.Format)
	debug.SetNoColor(globalNoColor)
	debug.SetDebug(globalDebug)

	debug.DebugValue("[cli] Home", layout.Root)
	debug.DebugValue("[cli] Config", configPath)

	current = session{layout: layout, config: cfg}
	return nil
}

// transport creates the repository transport honoring output.progress.
func (s session) transport() *repo.Transport {
	return repo.NewTransport(s.config.Output.Progress && !globalQuiet)
}

// printError prints an error message to stderr
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
}
