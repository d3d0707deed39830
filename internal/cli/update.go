package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacogips/binst/internal/app"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <bin>",
	Short: "Update an installed binary",
	Long: `Update an installed binary when its origin has a newer version.

The repository and stream are read from the install record of the active
version (install.toml). -r overrides the recorded repository. Nothing is
downloaded when the installed version is up to date.

Examples:
  binst update mytool
  binst update mytool -r s3://my-bucket/tools`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

// Update command flags
var updateRepoFlags repoFlags

func init() {
	updateCmd.Flags().StringVarP(&updateRepoFlags.repo, FlagRepo, "r", "", DescRepo+" (default the recorded one)")
	updateCmd.Flags().StringVar(&updateRepoFlags.profile, FlagProfile, "", DescProfile)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	bin := args[0]

	printStep("Checking " + bin + " for updates")
	result, err := app.NewUpdater(current.layout, current.transport()).Update(cmd.Context(), app.UpdateOptions{
		BinName: bin,
		Repo:    updateRepoFlags.repo,
		Profile: updateRepoFlags.profileOr(current),
		OnState: printState,
	})
	if err != nil {
		printFailure("update failed", start)
		return err
	}

	printDetail("repo", result.Repo)
	printDetail("stream", result.Stream)
	printDetail("installed", result.Installed)
	printDetail("origin", result.Origin)

	if !result.Updated {
		printSuccess(fmt.Sprintf("%s %s is up to date", bin, result.Installed), start)
		return nil
	}
	printInstallResult(result.Install)
	printSuccess(fmt.Sprintf("%s updated %s -> %s", bin, result.Installed, result.Origin), start)
	return nil
}
