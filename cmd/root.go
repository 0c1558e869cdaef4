package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/logging"
	"github.com/abhisek/skillforge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillforge",
	Short: "AI mentor for creative and technical tools",
	Long: "SkillForge turns a generative AI backend into a guided learning path, " +
		"timed daily challenges and a mentor chat, right in your terminal.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine: the environment may already be set.
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newLLMCmd())
	rootCmd.AddCommand(newPathCmd())
	rootCmd.AddCommand(newChallengeCmd())
	rootCmd.AddCommand(versionCmd)
}

func addGlobalFlags(c *cobra.Command) {
	flags := c.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides SKILLFORGE_DB env var)")
	flags.String("profile", "", "Learner profile YAML file")
	flags.String("name", "", "Learner name")
	flags.String("domain", "", "Learning domain: Engineering, Digital Art or Architecture")
	flags.String("tool", "", "Tool to learn, e.g. Blender")
	flags.String("level", "", "Skill level: Beginner, Novice, Intermediate or Advanced")
	flags.String("goal", "", "What you want to be able to do")
	flags.String("log-mode", "dev", "Log format: dev or prod")
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SKILLFORGE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database resolved by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// resolveProfile reads the learner profile from --profile, if given, and
// applies the individual field flags on top.
func resolveProfile(cmd *cobra.Command) (*learning.UserProfile, error) {
	p := &learning.UserProfile{}
	if path, _ := cmd.Flags().GetString("profile"); path != "" {
		loaded, err := learning.LoadProfile(path)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	overrides := []struct {
		flag string
		set  func(string)
	}{
		{"name", func(v string) { p.Name = v }},
		{"domain", func(v string) { p.Domain = learning.Domain(v) }},
		{"tool", func(v string) { p.Tool = v }},
		{"level", func(v string) { p.SkillLevel = learning.SkillLevel(v) }},
		{"goal", func(v string) { p.Goal = v }},
	}
	for _, o := range overrides {
		if v, _ := cmd.Flags().GetString(o.flag); v != "" {
			o.set(v)
		}
	}

	if err := p.Canonicalize(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("learner profile: %w (use --profile or --name/--domain/--tool/--level)", err)
	}
	return p, nil
}

// newLogger builds the file logger used by the TUI.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	mode, _ := cmd.Flags().GetString("log-mode")
	path, err := logging.DefaultLogPath()
	if err != nil {
		return nil, err
	}
	return logging.New(mode, path)
}

// newStderrLogger builds the logger used by one-shot subcommands.
func newStderrLogger(cmd *cobra.Command) (*zap.Logger, error) {
	mode, _ := cmd.Flags().GetString("log-mode")
	return logging.New(mode, "")
}
