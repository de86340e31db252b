package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clarionvoice/clarion/internal/config"
	"github.com/clarionvoice/clarion/internal/i18n"
	"github.com/clarionvoice/clarion/internal/loop"
)

func newSayCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "say <utterance>...",
		Short: "Route and execute a single utterance without listening",
		Long: `Process the given text exactly as if it had been heard after the
hotword: route it to an intent, execute the matching skill, and print the
result. Exits non-zero when the utterance could not be handled.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)
			mock := root.mockMode()

			asst := newAssistant(root.resolveSkillsDir(cfg))

			reg := config.NewRegistry()
			registerBuiltinProviders(reg)
			provs, err := buildProviders(cfg, reg, mock)
			if err != nil {
				return err
			}
			translator, err := i18n.Load(cfg.Language)
			if err != nil {
				return err
			}

			vl, err := loop.New(loop.Options{
				Hotword:     provs.Hotword,
				STT:         provs.STT,
				TTS:         provs.TTS,
				Router:      asst.router,
				Skills:      asst.registry,
				Translator:  translator,
				Mock:        mock,
				SkillConfig: cfg.Skills.Options,
			})
			if err != nil {
				return err
			}

			record := vl.ProcessUtterance(cmd.Context(), strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(record); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "intent:   %s\n", orNone(record.Intent))
				fmt.Fprintf(out, "entities: %v\n", record.Entities)
				fmt.Fprintf(out, "success:  %t\n", record.Success)
				fmt.Fprintf(out, "message:  %s\n", record.Message)
			}
			if !record.Success {
				return fmt.Errorf("utterance not handled: %s", record.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
