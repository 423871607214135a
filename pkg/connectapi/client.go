package connectapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ConnectClient is the subset of the Amazon Connect API used to apply and verify a foundation.
type ConnectClient interface {
	AssociateInstanceStorageConfig(ctx context.Context, params *connect.AssociateInstanceStorageConfigInput, optFns ...func(*connect.Options)) (*connect.AssociateInstanceStorageConfigOutput, error)
	ListInstanceStorageConfigs(ctx context.Context, params *connect.ListInstanceStorageConfigsInput, optFns ...func(*connect.Options)) (*connect.ListInstanceStorageConfigsOutput, error)
	UpdateInstanceAttribute(ctx context.Context, params *connect.UpdateInstanceAttributeInput, optFns ...func(*connect.Options)) (*connect.UpdateInstanceAttributeOutput, error)
	DescribeInstanceAttribute(ctx context.Context, params *connect.DescribeInstanceAttributeInput, optFns ...func(*connect.Options)) (*connect.DescribeInstanceAttributeOutput, error)
	ListInstances(ctx context.Context, params *connect.ListInstancesInput, optFns ...func(*connect.Options)) (*connect.ListInstancesOutput, error)
}

type S3Client interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type KinesisClient interface {
	DescribeStreamSummary(ctx context.Context, params *kinesis.DescribeStreamSummaryInput, optFns ...func(*kinesis.Options)) (*kinesis.DescribeStreamSummaryOutput, error)
}

type KMSClient interface {
	DescribeKey(ctx context.Context, params *kms.DescribeKeyInput, optFns ...func(*kms.Options)) (*kms.DescribeKeyOutput, error)
}

// Clients groups the service clients of one account and region.
type Clients struct {
	Connect ConnectClient
	S3      S3Client
	Kinesis KinesisClient
	KMS     KMSClient
}

var (
	_ ConnectClient = (*connect.Client)(nil)
	_ S3Client      = (*s3.Client)(nil)
	_ KinesisClient = (*kinesis.Client)(nil)
	_ KMSClient     = (*kms.Client)(nil)
)

func NewClients(cfg aws.Config) Clients {
	return Clients{
		Connect: connect.NewFromConfig(cfg),
		S3:      s3.NewFromConfig(cfg),
		Kinesis: kinesis.NewFromConfig(cfg),
		KMS:     kms.NewFromConfig(cfg),
	}
}
