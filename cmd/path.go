package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillforge/internal/learning"
)

var errNoGoal = errors.New("a goal is required (use --goal or set it in the profile)")

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Generate a learning path and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile(cmd)
			if err != nil {
				return err
			}
			if profile.Goal == "" {
				return errNoGoal
			}

			logger, err := newStderrLogger(cmd)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			orch, err := newOrchestrator(cmd, st, logger)
			if err != nil {
				return err
			}

			path, err := orch.GenerateLearningPath(cmd.Context(), profile.Domain, profile.Tool, profile.Goal, profile.SkillLevel)
			if err != nil {
				return err
			}
			printPath(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func printPath(out io.Writer, path *learning.LearningPath) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(out, path.Title)
	fmt.Fprintln(out, path.Description)
	fmt.Fprintf(out, "Total XP: %d\n", path.TotalXP)

	for i, s := range path.Steps {
		fmt.Fprintln(out, sep)
		fmt.Fprintf(out, "%d. %s  [%s, %d XP]\n", i+1, s.Title, s.Status, s.Reward())
		fmt.Fprintln(out, s.Description)
		if len(s.DetailedSteps) > 0 {
			fmt.Fprintln(out, "How to:")
			for j, d := range s.DetailedSteps {
				fmt.Fprintf(out, "  %d) %s\n", j+1, d)
			}
		}
		if len(s.Criteria) > 0 {
			fmt.Fprintln(out, "Criteria:")
			for _, c := range s.Criteria {
				fmt.Fprintf(out, "  - %s\n", c)
			}
		}
	}
}
