package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/jsii-runtime-go"
	"github.com/heetch/confita/backend"
	envbackend "github.com/heetch/confita/backend/env"
	"github.com/heetch/confita/backend/file"
	"github.com/wdk/amazon-connect-foundation/pkg/config"
	"github.com/wdk/amazon-connect-foundation/pkg/connectfoundation"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
	"github.com/wdk/amazon-connect-foundation/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	ctx := context.Background()

	undo, err := logging.LogOpts{Encoding: "console"}.Setup(nil)
	if err != nil {
		panic(err)
	}
	defer undo()
	log := zap.S()

	params, err := config.LoadParams(ctx, parameterBackends(app)...)
	if err != nil {
		log.Fatalw("could not load parameters", "error", err)
	}
	descriptors, err := params.OutputDescriptors()
	if err != nil {
		log.Fatalw("could not load parameters", "error", err)
	}
	log = log.With("prefix", params.Prefix())

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(params.Region))
	if err != nil {
		log.Fatalw("could not load AWS configuration", "error", err)
	}
	table := params.ConfigTableName()
	values, err := config.NewDynamoDBLoader(dynamodb.NewFromConfig(awsCfg)).Load(ctx, table, params.RequiredInputList())
	if err != nil {
		log.Fatalw("could not load configuration", "table", table, "error", err)
	}
	log.Infow("loaded configuration", "table", table, "count", len(values), "keys", values.Keys())

	plan, err := foundation.Build(params.Prefix(), config.NewSetup(values))
	if err != nil {
		log.Fatalw("could not build foundation", "error", err)
	}
	plan.Outputs.Describe(descriptors)

	_, err = connectfoundation.NewAmazonConnectFoundationStack(app, "AmazonConnectFoundation", &connectfoundation.AmazonConnectFoundationStackProps{
		StackProps: awscdk.StackProps{
			StackName:   jsii.String(params.StackName()),
			Description: jsii.String(params.Description()),
			Env:         env(params.AccountNumber, params.Region),
		},
		Tags: params.Tags(),
	}, plan)
	if err != nil {
		log.Fatalw("could not render stack", "error", err)
	}

	app.Synth(nil)
}

// parameterBackends reads the CDK context first. When an envName is given in the context, the
// parameters may also come from config.<envName>.json; the environment comes last.
func parameterBackends(app awscdk.App) []backend.Backend {
	backends := []backend.Backend{config.NewContextBackend(app.Node())}
	if envName, ok := app.Node().TryGetContext(jsii.String("envName")).(string); ok && envName != "" {
		backends = append(backends, file.NewBackend(fmt.Sprintf("config.%s.json", envName)))
	}
	return append(backends, envbackend.NewBackend())
}

// env determines the AWS environment (account+region) in which our stack is to
// be deployed. For more information see: https://docs.aws.amazon.com/cdk/latest/guide/environments.html
func env(accountId, region string) *awscdk.Environment {
	return &awscdk.Environment{
		Account: jsii.String(accountId),
		Region:  jsii.String(region),
	}
}
