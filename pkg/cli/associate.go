package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wdk/amazon-connect-foundation/pkg/connectapi"
)

var operationColours = map[connectapi.Operation]*color.Color{
	connectapi.OperationAssociate: color.New(color.FgHiGreen),
	connectapi.OperationUpdate:    color.New(color.FgHiCyan),
	connectapi.OperationUnchanged: color.New(color.Faint),
	connectapi.OperationConflict:  color.New(color.FgHiRed, color.Bold),
}

func (a *app) newAssociateCmd() *cobra.Command {
	associator := &connectapi.Associator{}
	cmd := &cobra.Command{
		Use:   "associate",
		Short: "Associate storage and switch on instance attributes through the Amazon Connect API",
		Long: "Applies the storage associations the stack issues through the Amazon Connect API, and the " +
			"instance attribute updates, to an already deployed instance. Associations already in place are " +
			"left alone and conflicting ones are reported, never overwritten.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.newSession(ctx, false)
			if err != nil {
				return err
			}
			clients := a.rt.NewClients(s.aws)
			resolver, err := connectapi.ResolvePlan(ctx, clients, s.plan)
			if err != nil {
				return err
			}
			associator.Client = clients.Connect
			actions, applyErr := associator.Apply(ctx, s.plan, resolver)
			printActions(cmd.OutOrStdout(), actions)
			return applyErr
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&associator.DryRun, "dry-run", "n", false, "Report the actions without calling write APIs")
	flags.BoolVar(&associator.All, "all", false, "Also apply the associations the stack declares natively")
	return cmd
}
