package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Smaug123/bork/internal/approval"
	"github.com/Smaug123/bork/internal/config"
	"github.com/Smaug123/bork/internal/llm"
	"github.com/Smaug123/bork/internal/logging"
	"github.com/Smaug123/bork/internal/loop"
	"github.com/Smaug123/bork/internal/model"
)

var runRepoDir string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one reconciliation to termination",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runRepoDir, "repo", ".", "repository root to reconcile")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.New("info")

	cfg, err := config.Load(runRepoDir)
	if err != nil {
		var malformed *model.ConfigMalformedError
		if errors.As(err, &malformed) {
			fmt.Fprintln(cmd.ErrOrStderr(), malformed.Error())
			lastExitCode = 2
			return nil
		}
		return err
	}

	llmClient, err := llm.NewClient(llm.ConfigFromEnv(), log)
	if err != nil {
		lastExitCode = 2
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return nil
	}

	approve := approval.NewCLI(cmd.InOrStdin(), cmd.OutOrStdout())

	ctrl := loop.New(runRepoDir, cfg, llmClient, approve, log)
	result := ctrl.Run(cmd.Context())

	lastExitCode = result.Outcome.ExitCode()
	if result.Err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), result.Err)
	}
	return nil
}
