package connectapi

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
)

var ErrInstanceNotFound = errors.New("Amazon Connect instance not found")

// LiveResolver resolves references to the physical values of an already deployed foundation.
type LiveResolver struct {
	Partition   string
	Region      string
	AccountID   string
	InstanceArn string
	InstanceId  string
	KeyArn      string
}

// NewLiveResolver derives the partition, region and account from instanceArn.
func NewLiveResolver(instanceArn, keyArn string) (*LiveResolver, error) {
	parsed, err := arn.Parse(instanceArn)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid instance ARN %q", instanceArn)
	}
	id, found := strings.CutPrefix(parsed.Resource, "instance/")
	if !found || id == "" {
		return nil, errors.Errorf("%q is not an Amazon Connect instance ARN", instanceArn)
	}
	return &LiveResolver{
		Partition:   parsed.Partition,
		Region:      parsed.Region,
		AccountID:   parsed.AccountID,
		InstanceArn: instanceArn,
		InstanceId:  id,
		KeyArn:      keyArn,
	}, nil
}

func (r *LiveResolver) Resolve(ref foundation.Ref) string {
	switch ref.Resource.Type {
	case foundation.TypeInstance:
		switch ref.Attribute {
		case foundation.AttrArn:
			return r.InstanceArn
		case foundation.AttrId:
			return r.InstanceId
		}
	case foundation.TypeKey:
		if ref.Attribute == foundation.AttrArn && r.KeyArn != "" {
			return r.KeyArn
		}
	case foundation.TypeBucket:
		switch ref.Attribute {
		case foundation.AttrArn:
			return (&foundation.Bucket{BucketName: ref.Resource.Name}).Arn()
		case foundation.AttrName:
			return ref.Resource.Name
		}
	case foundation.TypeStream:
		switch ref.Attribute {
		case foundation.AttrArn:
			return arn.ARN{
				Partition: r.Partition,
				Service:   "kinesis",
				Region:    r.Region,
				AccountID: r.AccountID,
				Resource:  "stream/" + ref.Resource.Name,
			}.String()
		case foundation.AttrName:
			return ref.Resource.Name
		}
	}
	return ref.String()
}

// FindInstance looks the instance up by alias.
func FindInstance(ctx context.Context, client ConnectClient, alias string) (string, error) {
	paginator := connect.NewListInstancesPaginator(client, &connect.ListInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", errors.Wrap(err, "could not list instances")
		}
		for _, instance := range page.InstanceSummaryList {
			if aws.ToString(instance.InstanceAlias) == alias {
				return aws.ToString(instance.Arn), nil
			}
		}
	}
	return "", errors.Wrapf(ErrInstanceNotFound, "alias %s", alias)
}

// FindKeyArn returns the ARN of the key, resolving its alias when the key was created by the stack.
func FindKeyArn(ctx context.Context, client KMSClient, key *foundation.EncryptionKey) (string, error) {
	if key.Imported() {
		return key.ImportedArn, nil
	}
	out, err := client.DescribeKey(ctx, &kms.DescribeKeyInput{KeyId: aws.String(key.Alias)})
	if err != nil {
		return "", errors.Wrapf(err, "could not describe key %s", key.Alias)
	}
	if out.KeyMetadata == nil {
		return "", errors.Errorf("no metadata for key %s", key.Alias)
	}
	return aws.ToString(out.KeyMetadata.Arn), nil
}

// ResolvePlan locates the deployed instance and key of plan.
func ResolvePlan(ctx context.Context, clients Clients, plan *foundation.Plan) (*LiveResolver, error) {
	instanceArn, err := FindInstance(ctx, clients.Connect, plan.Instance().Alias)
	if err != nil {
		return nil, err
	}
	keyArn, err := FindKeyArn(ctx, clients.KMS, plan.Key())
	if err != nil {
		return nil, err
	}
	return NewLiveResolver(instanceArn, keyArn)
}
