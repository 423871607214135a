package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wdk/amazon-connect-foundation/pkg/connectapi"
)

var ErrVerifyFailed = errors.New("foundation does not match the plan")

func (a *app) newVerifyCmd() *cobra.Command {
	inspector := &connectapi.Inspector{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the deployed foundation against the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.newSession(ctx, false)
			if err != nil {
				return err
			}
			inspector.Clients = a.rt.NewClients(s.aws)
			resolver, err := connectapi.ResolvePlan(ctx, inspector.Clients, s.plan)
			if err != nil {
				return err
			}
			report, err := inspector.Inspect(ctx, s.plan, resolver)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			if !report.OK() {
				return errors.Wrapf(ErrVerifyFailed, "%d of %d checks failed", len(report.Failed()), len(report.Findings))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&inspector.Workers, "workers", 5, "Number of checks run concurrently")
	return cmd
}
