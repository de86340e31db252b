package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/clarionvoice/clarion/internal/doctor"
)

func newDoctorCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment the assistant runs in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			report := doctor.Run(cmd.Context(), doctor.Options{
				Config:    cfg,
				SkillsDir: root.resolveSkillsDir(cfg),
				Mock:      root.mockMode(),
			})

			if asJSON {
				if err := report.WriteJSON(cmd.OutOrStdout()); err != nil {
					return err
				}
			} else {
				report.WriteText(cmd.OutOrStdout())
			}

			if !report.OK() {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
