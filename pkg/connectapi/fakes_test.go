package connectapi

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/connect/types"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	kinesistypes "github.com/aws/aws-sdk-go-v2/service/kinesis/types"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
	"github.com/wdk/amazon-connect-foundation/pkg/config"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
)

const (
	testInstanceArn = "arn:aws:connect:us-east-1:111122223333:instance/0f1e2d3c-aaaa-bbbb-cccc-123456789012"
	testKeyArn      = "arn:aws:kms:us-east-1:111122223333:key/1234abcd-12ab-34cd-56ef-1234567890ab"
)

func notFound(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "not found", Fault: smithy.FaultClient}
}

// fakeConnect keeps storage configs and attributes in memory and counts write calls.
type fakeConnect struct {
	mu         sync.Mutex
	instances  []types.InstanceSummary
	configs    map[types.InstanceStorageResourceType][]types.InstanceStorageConfig
	attributes map[types.InstanceAttributeType]string
	writes     int
}

func newFakeConnect() *fakeConnect {
	return &fakeConnect{
		instances: []types.InstanceSummary{
			{Arn: aws.String("arn:aws:connect:us-east-1:111122223333:instance/other"), InstanceAlias: aws.String("other")},
			{Arn: aws.String(testInstanceArn), InstanceAlias: aws.String("acme-dev")},
		},
		configs:    make(map[types.InstanceStorageResourceType][]types.InstanceStorageConfig),
		attributes: make(map[types.InstanceAttributeType]string),
	}
}

func (f *fakeConnect) AssociateInstanceStorageConfig(_ context.Context, in *connect.AssociateInstanceStorageConfigInput, _ ...func(*connect.Options)) (*connect.AssociateInstanceStorageConfigOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	cfg := *in.StorageConfig
	id := strconv.Itoa(f.writes)
	cfg.AssociationId = aws.String(id)
	f.configs[in.ResourceType] = append(f.configs[in.ResourceType], cfg)
	return &connect.AssociateInstanceStorageConfigOutput{AssociationId: aws.String(id)}, nil
}

// ListInstanceStorageConfigs returns one config per page.
func (f *fakeConnect) ListInstanceStorageConfigs(_ context.Context, in *connect.ListInstanceStorageConfigsInput, _ ...func(*connect.Options)) (*connect.ListInstanceStorageConfigsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	configs := f.configs[in.ResourceType]
	page := 0
	if in.NextToken != nil {
		page, _ = strconv.Atoi(*in.NextToken)
	}
	out := &connect.ListInstanceStorageConfigsOutput{}
	if page < len(configs) {
		out.StorageConfigs = configs[page : page+1]
	}
	if page+1 < len(configs) {
		out.NextToken = aws.String(strconv.Itoa(page + 1))
	}
	return out, nil
}

func (f *fakeConnect) UpdateInstanceAttribute(_ context.Context, in *connect.UpdateInstanceAttributeInput, _ ...func(*connect.Options)) (*connect.UpdateInstanceAttributeOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.attributes[in.AttributeType] = aws.ToString(in.Value)
	return &connect.UpdateInstanceAttributeOutput{}, nil
}

func (f *fakeConnect) DescribeInstanceAttribute(_ context.Context, in *connect.DescribeInstanceAttributeInput, _ ...func(*connect.Options)) (*connect.DescribeInstanceAttributeOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &connect.DescribeInstanceAttributeOutput{}
	if v, ok := f.attributes[in.AttributeType]; ok {
		out.Attribute = &types.Attribute{AttributeType: in.AttributeType, Value: aws.String(v)}
	}
	return out, nil
}

func (f *fakeConnect) ListInstances(_ context.Context, _ *connect.ListInstancesInput, _ ...func(*connect.Options)) (*connect.ListInstancesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &connect.ListInstancesOutput{InstanceSummaryList: f.instances}, nil
}

func (f *fakeConnect) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

type fakeS3 struct {
	missing map[string]bool
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.missing[aws.ToString(in.Bucket)] {
		return nil, notFound("NotFound")
	}
	return &s3.HeadBucketOutput{}, nil
}

type fakeKinesis struct {
	status map[string]kinesistypes.StreamStatus
}

func (f *fakeKinesis) DescribeStreamSummary(_ context.Context, in *kinesis.DescribeStreamSummaryInput, _ ...func(*kinesis.Options)) (*kinesis.DescribeStreamSummaryOutput, error) {
	name := aws.ToString(in.StreamName)
	status, ok := f.status[name]
	if !ok {
		status = kinesistypes.StreamStatusActive
	}
	return &kinesis.DescribeStreamSummaryOutput{
		StreamDescriptionSummary: &kinesistypes.StreamDescriptionSummary{
			StreamName:   aws.String(name),
			StreamARN:    aws.String("arn:aws:kinesis:us-east-1:111122223333:stream/" + name),
			StreamStatus: status,
		},
	}, nil
}

type fakeKMS struct {
	disabled bool
}

func (f *fakeKMS) DescribeKey(_ context.Context, in *kms.DescribeKeyInput, _ ...func(*kms.Options)) (*kms.DescribeKeyOutput, error) {
	switch aws.ToString(in.KeyId) {
	case testKeyArn, "alias/acme-dev-foundation-key":
		return &kms.DescribeKeyOutput{KeyMetadata: &kmstypes.KeyMetadata{
			KeyId:   aws.String("1234abcd-12ab-34cd-56ef-1234567890ab"),
			Arn:     aws.String(testKeyArn),
			Enabled: !f.disabled,
		}}, nil
	}
	return nil, notFound("NotFoundException")
}

func testPlan(t *testing.T) *foundation.Plan {
	t.Helper()
	plan, err := foundation.Build("acme-dev", config.DefaultSetup())
	require.NoError(t, err)
	return plan
}

func testResolver() *LiveResolver {
	r, err := NewLiveResolver(testInstanceArn, testKeyArn)
	if err != nil {
		panic(err)
	}
	return r
}

const botManagement = types.InstanceAttributeType("BOT_MANAGEMENT")
