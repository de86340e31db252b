package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSkillsCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List the registered skills and their intents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			asst := newAssistant(root.resolveSkillsDir(cfg))
			infos := asst.registry.Infos()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			out := cmd.OutOrStdout()
			for _, info := range infos {
				fmt.Fprintf(out, "%-16s %s\n", info.Name, info.Description)
				fmt.Fprintf(out, "%-16s intents: %s\n", "", strings.Join(info.Intents, ", "))
				if info.Help != "" {
					fmt.Fprintf(out, "%-16s %s\n", "", info.Help)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
