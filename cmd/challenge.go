package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillforge/internal/media"
)

func newChallengeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "challenge",
		Short: "Generate today's challenge and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			outFile, _ := cmd.Flags().GetString("out")

			profile, err := resolveProfile(cmd)
			if err != nil {
				return err
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

			ch := orch.GenerateDailyChallenge(cmd.Context(), profile.Domain, profile.Tool, profile.SkillLevel)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  (%s)\n", ch.Title, ch.Theme)
			fmt.Fprintln(out, ch.Description)
			fmt.Fprintf(out, "Gold %.0fm  Silver %.0fm  Bronze %.0fm\n", ch.GoldTime, ch.SilverTime, ch.BronzeTime)

			img, ok := media.ParseDataURL(ch.ReferenceImageURL)
			if !ok {
				fmt.Fprintf(out, "Reference: placeholder %s\n", ch.ReferenceImageURL)
				if outFile != "" {
					fmt.Fprintln(out, "No image to save.")
				}
				return nil
			}
			fmt.Fprintf(out, "Reference: embedded %s, %d bytes\n", img.MIMEType, len(img.Data))
			if outFile == "" {
				return nil
			}
			if err := img.WriteFile(outFile); err != nil {
				return fmt.Errorf("write reference image: %w", err)
			}
			fmt.Fprintln(out, "Saved to", outFile)
			return nil
		},
	}
	c.Flags().StringP("out", "o", "", "Write the reference image to this file")
	return c
}
