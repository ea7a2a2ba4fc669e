package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Smaug123/bork/internal/config"
)

var checkConfigRepoDir string

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate .config/bork.json without running a reconciliation",
	RunE:  runCheckConfig,
}

func init() {
	checkConfigCmd.Flags().StringVar(&checkConfigRepoDir, "repo", ".", "repository root to check")
	rootCmd.AddCommand(checkConfigCmd)
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(checkConfigRepoDir)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		lastExitCode = 2
		return nil
	}

	checker := "(none)"
	if cfg.CorrectnessChecker != nil {
		checker = cfg.CorrectnessChecker.String()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "config valid: correctness-checker=%s edits-require-approval=%d path(s)\n",
		checker, len(cfg.EditsRequireApproval))
	lastExitCode = 0
	return nil
}
