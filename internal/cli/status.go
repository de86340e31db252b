package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clarionvoice/clarion/internal/memory"
	"github.com/clarionvoice/clarion/internal/sysops"
)

// statusInfo is the serializable assistant status.
type statusInfo struct {
	Mock             bool     `json:"mock"`
	Language         string   `json:"language"`
	HotwordProvider  string   `json:"hotword_provider"`
	STTProvider      string   `json:"stt_provider"`
	TTSProvider      string   `json:"tts_provider"`
	SkillsDir        string   `json:"skills_dir"`
	Skills           []string `json:"skills"`
	SupportedIntents []string `json:"supported_intents"`
	SteamRoot        string   `json:"steam_root,omitempty"`
	RecentEvents     int      `json:"recent_events"`
}

func newStatusCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the assistant configuration and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			skillsDir := root.resolveSkillsDir(cfg)
			asst := newAssistant(skillsDir)

			info := statusInfo{
				Mock:             root.mockMode(),
				Language:         cfg.Language,
				HotwordProvider:  cfg.Providers.Hotword.Name,
				STTProvider:      cfg.Providers.STT.Name,
				TTSProvider:      cfg.Providers.TTS.Name,
				SkillsDir:        skillsDir,
				SupportedIntents: asst.registry.SupportedIntents(),
				SteamRoot:        sysops.NewSteam().Root(),
			}
			for _, s := range asst.registry.All() {
				info.Skills = append(info.Skills, s.Name())
			}

			if !cfg.Memory.Disabled {
				path := cfg.Memory.Path
				if path == "" {
					path, err = memory.DefaultPath()
				}
				if err == nil {
					if store, err := memory.OpenSQLite(path); err == nil {
						if events, err := store.Recent(cmd.Context()); err == nil {
							info.RecentEvents = len(events)
						}
						store.Close()
					}
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			out := cmd.OutOrStdout()
			mode := "real"
			if info.Mock {
				mode = "mock"
			}
			fmt.Fprintf(out, "mode:      %s\n", mode)
			fmt.Fprintf(out, "language:  %s\n", info.Language)
			fmt.Fprintf(out, "providers: hotword=%s stt=%s tts=%s\n",
				info.HotwordProvider, info.STTProvider, info.TTSProvider)
			fmt.Fprintf(out, "skills:    %v (dir: %s)\n", info.Skills, info.SkillsDir)
			fmt.Fprintf(out, "intents:   %v\n", info.SupportedIntents)
			if info.SteamRoot != "" {
				fmt.Fprintf(out, "steam:     %s\n", info.SteamRoot)
			}
			fmt.Fprintf(out, "events:    %d recent\n", info.RecentEvents)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
