// Package cli implements the clarion command line: the listen loop plus the
// say, skills, status and doctor utility commands.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clarionvoice/clarion/internal/config"
)

// rootOptions holds the persistent flag values shared by all subcommands.
type rootOptions struct {
	configPath string
	mock       bool
	noAudio    bool
	skillsDir  string
}

// NewRootCmd builds the clarion command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "clarion",
		Short:         "Clarion is a hotword-triggered voice assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to the YAML configuration file")
	pf.BoolVar(&opts.mock, "mock", false, "simulate side effects instead of performing them")
	pf.BoolVar(&opts.noAudio, "no-audio", false, "force mock providers (no audio hardware)")
	pf.StringVar(&opts.skillsDir, "skills-dir", "", "directory of YAML skill manifests")

	cmd.AddCommand(
		newListenCmd(opts),
		newSayCmd(opts),
		newSkillsCmd(opts),
		newStatusCmd(opts),
		newDoctorCmd(opts),
	)
	return cmd
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "clarion: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig resolves the effective configuration. Without --config the
// built-in defaults apply; a missing explicit config file is an error.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %q not found — copy configs/example.yaml to get started", o.configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// mockMode reports whether mock mode is in effect, from flags or environment.
func (o *rootOptions) mockMode() bool {
	return o.mock || o.noAudio || config.MockFromEnv()
}

// resolveSkillsDir picks the skills directory: flag, then config, then the
// per-user default.
func (o *rootOptions) resolveSkillsDir(cfg *config.Config) string {
	if o.skillsDir != "" {
		return o.skillsDir
	}
	if cfg.Skills.Dir != "" {
		return cfg.Skills.Dir
	}
	dir, err := defaultSkillsDir()
	if err != nil {
		slog.Warn("cannot resolve default skills dir", "err", err)
		return ""
	}
	return dir
}

// setupLogger installs the default slog logger at the configured level.
func setupLogger(level config.LogLevel) {
	var l slog.Level
	switch level {
	case config.LogDebug:
		l = slog.LevelDebug
	case config.LogWarn:
		l = slog.LevelWarn
	case config.LogError:
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
