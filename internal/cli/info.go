package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/binst/internal/app"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <bin>",
	Short: "Show the latest published version of a binary",
	Long: `Show the latest version of a binary in a repository and where its
archive is, without installing anything.

Examples:
  binst info mytool
  binst info mytool --stream beta -r ~/repo
  binst info mytool --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

// Info command flags
var (
	infoRepoFlags repoFlags
	infoStream    string
	infoFormat    = formatValue(FormatText)
)

func init() {
	infoCmd.Flags().StringVarP(&infoRepoFlags.repo, FlagRepo, "r", "", DescRepo)
	infoCmd.Flags().StringVar(&infoRepoFlags.profile, FlagProfile, "", DescProfile)
	infoCmd.Flags().StringVarP(&infoStream, FlagStream, "s", "", DescStream+" (default main)")
	infoCmd.Flags().VarP(&infoFormat, FlagFormat, "o", "Output format: text, json or yaml")
}

func runInfo(cmd *cobra.Command, args []string) error {
	desc, err := infoRepoFlags.installRepo(current)
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

	info, err := b.Info(cmd.Context(), infoStream)
	if err != nil {
		return err
	}
	return renderInfo(info, string(infoFormat))
}

func renderInfo(info *app.InfoResult, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal info: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
	case FormatYAML:
		data, err := yaml.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal info: %w", err)
		}
		fmt.Fprint(stdout, string(data))
	case FormatText, "":
		fmt.Fprintf(stdout, "%s %s\n", info.BinName, info.Version)
		fmt.Fprintf(stdout, "  repo:   %s\n", info.Repo)
		fmt.Fprintf(stdout, "  target: %s\n", info.Target)
		fmt.Fprintf(stdout, "  stream: %s\n", info.Stream)
		fmt.Fprintf(stdout, "  url:    %s\n", info.URL)
	default:
		return fmt.Errorf("unknown format %q (expected %s, %s or %s)", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}
