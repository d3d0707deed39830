package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tacogips/binst/internal/app"
	"github.com/tacogips/binst/internal/build"
)

// selfCmd represents the self command
var selfCmd = &cobra.Command{
	Use:   "self",
	Short: "Set up the binst home and install binst itself",
	Long: `Create the binst home directory, write its env script and default
config, and install the running binst binary into it.

Examples:
  binst self
  binst self --home /opt/binst`,
	Args: cobra.NoArgs,
	RunE: runSelf,
}

func runSelf(cmd *cobra.Command, args []string) error {
	start := time.Now()
	printStep("Installing binst " + build.Version() + " into " + current.layout.Root)

	result, err := app.SelfInstall(app.SelfOptions{
		Layout:  current.layout,
		Version: build.Version(),
	})
	if err != nil {
		printFailure("self install failed", start)
		return err
	}

	printDetail("binary", result.Installed)
	printDetail("link", result.Symlink)
	if result.EnvCreated {
		printDetail("env", result.EnvFile+" (created)")
	} else {
		printDetail("env", result.EnvFile)
	}
	if result.ConfigCreated {
		printDetail("config", current.layout.ConfigFile+" (created)")
	}
	printSuccess("binst "+result.Version+" installed", start)

	printInfo("To put installed binaries on your PATH, add this line to your shell profile:")
	printInfo("")
	printInfo("  . \"" + result.EnvFile + "\"")
	printInfo("")
	return nil
}
