package cli

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/config"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
	"go.uber.org/zap"
)

// session is what every command starts from: the parameters, the setup read from the
// configuration table and the plan built from both.
type session struct {
	params *config.Params
	values config.Values
	setup  *config.Setup
	plan   *foundation.Plan
	aws    aws.Config
}

// newSession loads the parameters and builds the plan. Offline sessions skip the configuration
// table and the AWS credential chain, using the default setup plus --setup overrides.
func (a *app) newSession(ctx context.Context, offline bool) (*session, error) {
	params, err := a.params.load(ctx)
	if err != nil {
		return nil, err
	}
	descriptors, err := params.OutputDescriptors()
	if err != nil {
		return nil, err
	}
	s := &session{params: params, values: make(config.Values)}
	log := zap.S().With("prefix", params.Prefix())

	if !offline {
		s.aws, err = a.rt.LoadAWSConfig(ctx, params.Region)
		if err != nil {
			return nil, errors.Wrap(err, "could not load AWS configuration")
		}
		table := params.ConfigTableName()
		s.values, err = config.NewDynamoDBLoader(a.rt.NewScanner(s.aws)).Load(ctx, table, params.RequiredInputList())
		if err != nil {
			return nil, err
		}
		log.Debugw("loaded configuration values", "table", table, "count", len(s.values))
	}
	for k, v := range a.params.setupOverrides() {
		s.values[k] = v
	}

	s.setup = config.NewSetup(s.values)
	s.plan, err = foundation.Build(params.Prefix(), s.setup)
	if err != nil {
		return nil, err
	}
	s.plan.Outputs.Describe(descriptors)
	return s, nil
}
