package cli

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"
	"github.com/wdk/amazon-connect-foundation/pkg/connectapi"
	"github.com/wdk/amazon-connect-foundation/pkg/logging"
	"go.uber.org/zap"
)

// Runtime holds the AWS entry points of the commands.
type Runtime struct {
	LoadAWSConfig func(ctx context.Context, region string) (aws.Config, error)
	NewClients    func(cfg aws.Config) connectapi.Clients
	NewScanner    func(cfg aws.Config) dynamodb.ScanAPIClient
}

func DefaultRuntime() Runtime {
	return Runtime{
		LoadAWSConfig: func(ctx context.Context, region string) (aws.Config, error) {
			return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		},
		NewClients: connectapi.NewClients,
		NewScanner: func(cfg aws.Config) dynamodb.ScanAPIClient {
			return dynamodb.NewFromConfig(cfg)
		},
	}
}

type commonConfig struct {
	verbose bool
	jsonLog bool
	color   string
}

type app struct {
	rt     Runtime
	common commonConfig
	params *paramFlags
	// log output, stderr when nil
	logOut io.Writer
}

// NewRootCmd builds the foundationctl command tree.
func NewRootCmd(rt Runtime) *cobra.Command {
	a := &app{rt: rt}
	root := &cobra.Command{
		Use:           "foundationctl",
		Short:         "Plan, associate and verify the Amazon Connect foundation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.BoolVarP(&a.common.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&a.common.jsonLog, "json-log", false, "Enable JSON logging")
	flags.StringVar(&a.common.color, "color", "auto", "Colorize output: auto, always or never")
	a.params = addParamFlags(flags)

	var undo func()
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		opts := logging.LogOpts{Verbose: a.common.verbose, Color: a.common.color}
		if a.common.jsonLog {
			opts.Encoding = "json"
		}
		var err error
		undo, err = opts.Setup(a.logOut)
		return err
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		zap.L().Sync() //nolint:errcheck
		if undo != nil {
			undo()
		}
	}

	root.AddCommand(
		a.newPlanCmd(),
		a.newAssociateCmd(),
		a.newVerifyCmd(),
		a.newConfigCmd(),
	)
	return root
}

// Execute runs foundationctl and returns the process exit code.
func Execute(ctx context.Context, rt Runtime, args []string) int {
	root := NewRootCmd(rt)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
