package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacogips/binst/internal/app"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Build the current project and publish it",
	Long: `Build the project in the current directory with go build, pack the
binary and upload it to a repository.

The binary name and version come from binst.toml:

  [package]
  name = "mytool"      # default: last element of the go.mod module path
  version = "1.2.0"
  main = "./cmd/mytool" # default: .

Without --path, {bin}/{target}/{stream}/latest.toml is updated first and the
archive goes to {bin}/{target}/{stream}/v{version}/. With --path NAME the
archive goes to {bin}/{target}/NAME/ and latest.toml is left alone.
http(s) repositories cannot be published to.

Examples:
  binst publish
  binst publish -r ~/repo --yes
  binst publish -r s3://my-bucket/tools --profile deploy
  binst publish --target aarch64-apple-darwin --path nightly`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

// Publish command flags
var (
	publishRepoFlags repoFlags
	publishPath      string
	publishTarget    string
	publishYes       bool
)

func init() {
	publishCmd.Flags().StringVarP(&publishRepoFlags.repo, FlagRepo, "r", "", DescRepo)
	publishCmd.Flags().StringVar(&publishRepoFlags.profile, FlagProfile, "", DescProfile)
	publishCmd.Flags().StringVar(&publishPath, FlagPath, "", "Publish under this path instead of the stream")
	publishCmd.Flags().StringVar(&publishTarget, FlagTarget, "", DescTarget)
	publishCmd.Flags().BoolVarP(&publishYes, FlagYes, "y", false, "Do not ask for confirmation")
}

func runPublish(cmd *cobra.Command, args []string) error {
	start := time.Now()
	projectDir, err := os.Getwd()
	if err != nil {
		return err
	}

	manifest, err := app.LoadManifest(projectDir)
	if err != nil {
		return err
	}
	desc, err := publishRepoFlags.publishRepo(current)
	if err != nil {
		return err
	}

	b, err := app.NewBinRepo(app.BinRepoOptions{
		BinName:     manifest.Name,
		InstallRepo: desc,
		PublishRepo: desc,
		Target:      publishTarget,
		Layout:      current.layout,
		Transport:   current.transport(),
	})
	if err != nil {
		return err
	}

	opts := app.PublishOptions{AtPath: publishPath}
	if publishYes {
		opts.Confirm = func(plan *app.PublishPlan) (bool, error) {
			printPlan(plan)
			return true, nil
		}
	} else {
		opts.Confirm = confirmPublish
	}

	builder := &app.GoBuilder{Stdout: os.Stderr, Stderr: os.Stderr}
	result, err := app.NewPublisher(b, builder, projectDir, manifest).Publish(cmd.Context(), opts)
	if errors.Is(err, app.ErrPublishCanceled) {
		printWarning("publish canceled")
		return nil
	}
	if err != nil {
		printFailure("publish failed", start)
		return err
	}

	if info, err := os.Stat(result.BinaryPath); err == nil {
		printDetail("binary", fmt.Sprintf("%s (%s)", result.BinaryPath, formatBytes(info.Size())))
	}
	printDetail("digest", truncateHash(result.Digest))
	for _, url := range result.Uploaded {
		printDetail("uploaded", url)
	}
	printSuccess(fmt.Sprintf("%s %s published to %s", result.Plan.BinName, result.Plan.Version, result.Plan.Repo), start)
	return nil
}
