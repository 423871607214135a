package cli

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) newPlanCmd() *cobra.Command {
	var (
		format  string
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the resources, dependencies and outputs of the foundation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd.Context(), offline)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				return s.plan.WriteYAML(out)
			case "json":
				b, err := json.MarshalIndent(s.plan, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			case "dot":
				return s.plan.WriteDOT(out)
			}
			return errors.Errorf("unknown format %q, expected yaml, json or dot", format)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "o", "yaml", "Output format: yaml, json or dot")
	flags.BoolVar(&offline, "offline", false, "Skip the configuration table and use the default setup")
	return cmd
}
