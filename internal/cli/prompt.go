package cli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	"github.com/tacogips/binst/internal/app"
)

// stdinIsTerminal reports whether prompts can be shown.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// askOne is survey.AskOne; tests replace it.
var askOne = survey.AskOne

// confirmPublish shows the publish plan and asks whether to go on.
// Without a terminal on stdin the publish proceeds unasked.
func confirmPublish(plan *app.PublishPlan) (bool, error) {
	printPlan(plan)
	if !stdinIsTerminal() {
		return true, nil
	}

	var ok bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Publish %s %s to %s?", plan.BinName, plan.Version, plan.Repo),
		Default: false,
		Help:    "The release binary is built, packed and uploaded. Use --yes to skip this question.",
	}
	if err := askOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func printPlan(plan *app.PublishPlan) {
	printStep("Publish plan")
	printDetail("bin", plan.BinName)
	printDetail("version", plan.Version)
	printDetail("stream", plan.Stream)
	printDetail("target", plan.Target)
	printDetail("repo", plan.Repo)
	if plan.LatestKey != "" {
		printDetail("latest", plan.LatestKey)
	}
	printDetail("package", plan.PackageKey)
}
