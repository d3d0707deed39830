package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacogips/binst/internal/app"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install <bin>",
	Short: "Install the latest version of a binary",
	Long: `Install the latest version of a binary from a repository.

The latest version of the stream is read from
{bin}/{target}/{stream}/latest.toml, its archive is downloaded and unpacked
into {home}/packages/{bin}/v{version}/ and {home}/bin/{bin} is linked to it.

Examples:
  binst install mytool
  binst install mytool -r ~/repo
  binst install mytool -r s3://my-bucket/tools --profile deploy
  binst install mytool --stream beta`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

// Install command flags
var (
	installRepoFlags repoFlags
	installStream    string
)

func init() {
	installCmd.Flags().StringVarP(&installRepoFlags.repo, FlagRepo, "r", "", DescRepo)
	installCmd.Flags().StringVar(&installRepoFlags.profile, FlagProfile, "", DescProfile)
	installCmd.Flags().StringVarP(&installStream, FlagStream, "s", "", DescStream+" (default main)")
}

func runInstall(cmd *cobra.Command, args []string) error {
	start := time.Now()
	desc, err := installRepoFlags.installRepo(current)
	if err != nil {
		return err
	}

	b, err := app.NewBinRepo(app.BinRepoOptions{
		BinName:     args[0],
		InstallRepo: desc,
		PublishRepo: desc,
		Layout:      current.layout,
		Transport:   current.transport(),
	})
	if err != nil {
		return err
	}

	printStep(fmt.Sprintf("Installing %s from %s", b.BinName, desc))
	result, err := app.NewInstaller(b).Install(cmd.Context(), app.InstallOptions{
		Stream:  installStream,
		OnState: printState,
	})
	if err != nil {
		if result.State == app.StateFailed {
			printFailure(fmt.Sprintf("install failed at %s", result.FailedAt), start)
		} else {
			printFailure("install failed", start)
		}
		return err
	}

	printInstallResult(result)
	printSuccess(fmt.Sprintf("%s %s installed", result.BinName, result.Version), start)
	return nil
}

// printState prints install state transitions in debug mode.
func printState(s app.InstallState) {
	if globalDebug {
		printDetail("state", s)
	}
}

func printInstallResult(result *app.InstallResult) {
	printDetail("version", result.Version)
	printDetail("stream", result.Stream)
	printDetail("source", result.SourceURL)
	if result.Digest != "" {
		printDetail("digest", truncateHash(result.Digest))
	}
	printDetail("link", result.Symlink)
}
