package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/orchestrator"
	"github.com/abhisek/skillforge/internal/store"
)

func newLLMCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "llm",
		Short: "Inspect the backend request log",
		Long: "Every request the mentor makes is logged with its purpose and the model " +
			"profile (fast, reasoning or image) it went to. Use these commands to see " +
			"which operations fail and fall back, and what the session cost.",
	}
	c.AddCommand(newLLMListCmd(), newLLMViewCmd(), newLLMStatsCmd())
	return c
}

func newLLMListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List recent backend requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOpts(cmd)
			if err != nil {
				return err
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			events, err := st.EventRepo().QueryLLMEvents(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No requests logged.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-9s  %-16s  %-26s  %6s  %6s  %6s  %s\n",
				"ID", "Time", "Profile", "Purpose", "Model", "In", "Out", "Ms", "Result")
			rule(out, 112)
			for _, e := range events {
				fmt.Fprintf(out, "%-5d  %-19s  %-9s  %-16s  %-26s  %6d  %6d  %6d  %s\n",
					e.ID,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Profile,
					e.Purpose,
					truncate(e.Model, 26),
					e.InputTokens,
					e.OutputTokens,
					e.LatencyMs,
					outcome(e.Purpose, e.Success),
				)
			}
			return nil
		},
	}
	c.Flags().IntP("limit", "n", 20, "Number of requests to show")
	c.Flags().StringP("purpose", "p", "", "Only this purpose: "+strings.Join(llm.Purposes, ", "))
	c.Flags().String("profile", "", "Only this model profile: fast, reasoning or image")
	c.Flags().Bool("failed", false, "Only failed requests")
	return c
}

func newLLMViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show the full prompt and reply of one request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			e, err := st.EventRepo().GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("request %d not found", id)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Request %d, %s\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Backend:   %s / %s (%s profile)\n", e.Provider, e.Model, e.Profile)
			fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
			fmt.Fprintf(out, "Tokens:    %d in / %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
			fmt.Fprintf(out, "Result:    %s\n", outcome(e.Purpose, e.Success))
			if e.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
			}

			section(out, "PROMPT", e.RequestBody)
			section(out, "REPLY", e.ResponseBody)
			return nil
		},
	}
}

func newLLMStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize requests per profile and per purpose",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			repo := st.EventRepo()

			profiles, err := repo.LLMUsageByProfile(ctx)
			if err != nil {
				return fmt.Errorf("query usage by profile: %w", err)
			}
			purposes, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage by purpose: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(profiles) == 0 {
				fmt.Fprintln(out, "No requests logged yet.")
				return nil
			}

			writeProfileStats(out, profiles)
			fmt.Fprintln(out)
			writePurposeStats(out, purposes)
			return nil
		},
	}
}

func writeProfileStats(out io.Writer, usage []store.LLMProfileUsage) {
	fmt.Fprintln(out, "By profile")
	rule(out, 84)
	fmt.Fprintf(out, "%-9s  %-28s  %6s  %6s  %9s  %9s  %9s\n",
		"Profile", "Model", "Calls", "Failed", "In", "Out", "Cost")
	rule(out, 84)

	var total float64
	var unpriced []string
	for _, u := range usage {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintf(out, "%-9s  %-28s  %6d  %6d  %9d  %9d  %9s\n",
			u.Profile, truncate(u.Model, 28), u.Calls, u.Failures, u.InputTokens, u.OutputTokens, cost)
	}

	rule(out, 84)
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(out, "%-39s  %42s\n", label, formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(out, "No pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

// writePurposeStats lists purposes in session order, then any unknown
// labels, each with the fallback the learner saw when it failed.
func writePurposeStats(out io.Writer, stats []store.LLMUsageStat) {
	fmt.Fprintln(out, "By purpose")
	rule(out, 84)
	fmt.Fprintf(out, "%-16s  %-9s  %6s  %6s  %6s  %7s  %s\n",
		"Purpose", "Profile", "Calls", "Failed", "Fail%", "Avg ms", "On failure")
	rule(out, 84)

	slices.SortStableFunc(stats, func(a, b store.LLMUsageStat) int {
		return purposeRank(a.Purpose) - purposeRank(b.Purpose)
	})
	for _, s := range stats {
		route := orchestrator.Routes[s.Purpose]
		onFailure := route.OnFailure
		if onFailure == "" {
			onFailure = "error"
		}
		fmt.Fprintf(out, "%-16s  %-9s  %6d  %6d  %5.0f%%  %7d  %s\n",
			s.Purpose, route.Profile, s.Calls, s.Failures, s.FailureRate()*100, s.AvgLatencyMs, onFailure)
	}
}

func purposeRank(purpose string) int {
	if i := slices.Index(llm.Purposes, purpose); i >= 0 {
		return i
	}
	return len(llm.Purposes)
}

// outcome names what a logged request led to for the learner.
func outcome(purpose string, success bool) string {
	if success {
		return "ok"
	}
	if r := orchestrator.Routes[purpose]; r.OnFailure != "" {
		return "failed, " + r.OnFailure
	}
	return "failed"
}

func listOpts(cmd *cobra.Command) (store.QueryOpts, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")
	profile, _ := cmd.Flags().GetString("profile")
	failed, _ := cmd.Flags().GetBool("failed")

	if purpose != "" && !slices.Contains(llm.Purposes, purpose) {
		return store.QueryOpts{}, fmt.Errorf("unknown purpose %q (want one of %s)", purpose, strings.Join(llm.Purposes, ", "))
	}
	switch profile {
	case "", llm.ProfileFast, llm.ProfileReasoning, llm.ProfileImage:
	default:
		return store.QueryOpts{}, fmt.Errorf("unknown profile %q (want fast, reasoning or image)", profile)
	}
	return store.QueryOpts{Limit: limit, Purpose: purpose, Profile: profile, Failed: failed}, nil
}

func section(out io.Writer, title, body string) {
	fmt.Fprintln(out)
	rule(out, 60)
	fmt.Fprintln(out, title)
	rule(out, 60)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(out, body)
}

func rule(out io.Writer, width int) {
	fmt.Fprintln(out, strings.Repeat("─", width))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
