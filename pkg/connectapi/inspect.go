package connectapi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alitto/pond"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	kinesistypes "github.com/aws/aws-sdk-go-v2/service/kinesis/types"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
	"go.uber.org/zap"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusDrift   Status = "drift"
	StatusError   Status = "error"
)

type (
	Finding struct {
		Resource string
		Status   Status
		Detail   string
	}

	Report struct {
		Findings []Finding
	}

	// Inspector compares a plan with what is deployed. It only calls read APIs.
	Inspector struct {
		Clients Clients
		Workers int
	}
)

func (r *Report) OK() bool {
	for _, f := range r.Findings {
		if f.Status != StatusOK {
			return false
		}
	}
	return true
}

// Failed returns the findings that are not ok.
func (r *Report) Failed() []Finding {
	var failed []Finding
	for _, f := range r.Findings {
		if f.Status != StatusOK {
			failed = append(failed, f)
		}
	}
	return failed
}

// Inspect runs one check per declared resource. Checks are independent and run concurrently;
// the findings are sorted by resource.
func (i *Inspector) Inspect(ctx context.Context, plan *foundation.Plan, resolver foundation.Resolver) (*Report, error) {
	resources, err := plan.Graph.Resources()
	if err != nil {
		return nil, err
	}

	workers := i.Workers
	if workers <= 0 {
		workers = 5
	}
	pool := pond.New(workers, len(resources), pond.Strategy(pond.Lazy()))

	var (
		mu     sync.Mutex
		report = &Report{}
	)
	for _, res := range resources {
		pool.Submit(func() {
			f := i.check(ctx, res, resolver)
			f.Resource = res.ID().String()
			mu.Lock()
			report.Findings = append(report.Findings, f)
			mu.Unlock()
		})
	}
	pool.StopAndWait()

	sort.Slice(report.Findings, func(a, b int) bool {
		return report.Findings[a].Resource < report.Findings[b].Resource
	})
	zap.S().Debugw("inspected foundation", "prefix", plan.Prefix, "findings", len(report.Findings), "ok", report.OK())
	return report, nil
}

func (i *Inspector) check(ctx context.Context, res foundation.Resource, resolver foundation.Resolver) Finding {
	switch res := res.(type) {
	case *foundation.Instance:
		return i.checkInstance(ctx, res)
	case *foundation.EncryptionKey:
		return i.checkKey(ctx, res, resolver)
	case *foundation.Bucket:
		return i.checkBucket(ctx, res)
	case *foundation.Stream:
		return i.checkStream(ctx, res)
	case *foundation.StorageAssociation:
		return i.checkAssociation(ctx, res, resolver)
	case *foundation.InstanceAttribute:
		return i.checkAttribute(ctx, res, resolver)
	}
	return Finding{Status: StatusError, Detail: fmt.Sprintf("unsupported resource %T", res)}
}

func (i *Inspector) checkInstance(ctx context.Context, instance *foundation.Instance) Finding {
	instanceArn, err := FindInstance(ctx, i.Clients.Connect, instance.Alias)
	if errors.Is(err, ErrInstanceNotFound) {
		return Finding{Status: StatusMissing, Detail: "no instance with alias " + instance.Alias}
	}
	if err != nil {
		return errorFinding(err)
	}
	return Finding{Status: StatusOK, Detail: instanceArn}
}

func (i *Inspector) checkKey(ctx context.Context, key *foundation.EncryptionKey, resolver foundation.Resolver) Finding {
	keyId := key.Alias
	if key.Imported() {
		keyId = key.ImportedArn
	} else if resolved := resolver.Resolve(foundation.Ref{Resource: key.ID(), Attribute: foundation.AttrArn}); strings.HasPrefix(resolved, "arn:") {
		keyId = resolved
	}
	out, err := i.Clients.KMS.DescribeKey(ctx, &kms.DescribeKeyInput{KeyId: aws.String(keyId)})
	if err != nil {
		return notFoundOr(err)
	}
	if out.KeyMetadata == nil || !out.KeyMetadata.Enabled {
		return Finding{Status: StatusDrift, Detail: "key is not enabled"}
	}
	return Finding{Status: StatusOK, Detail: aws.ToString(out.KeyMetadata.Arn)}
}

func (i *Inspector) checkBucket(ctx context.Context, bucket *foundation.Bucket) Finding {
	if _, err := i.Clients.S3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket.BucketName)}); err != nil {
		return notFoundOr(err)
	}
	return Finding{Status: StatusOK, Detail: bucket.Arn()}
}

func (i *Inspector) checkStream(ctx context.Context, stream *foundation.Stream) Finding {
	out, err := i.Clients.Kinesis.DescribeStreamSummary(ctx, &kinesis.DescribeStreamSummaryInput{StreamName: aws.String(stream.StreamName)})
	if err != nil {
		return notFoundOr(err)
	}
	summary := out.StreamDescriptionSummary
	if summary == nil || summary.StreamStatus != kinesistypes.StreamStatusActive {
		status := "unknown"
		if summary != nil {
			status = string(summary.StreamStatus)
		}
		return Finding{Status: StatusDrift, Detail: "stream status " + status}
	}
	return Finding{Status: StatusOK, Detail: aws.ToString(summary.StreamARN)}
}

func (i *Inspector) checkAssociation(ctx context.Context, assoc *foundation.StorageAssociation, resolver foundation.Resolver) Finding {
	input, err := AssociateInput(assoc, resolver)
	if err != nil {
		return errorFinding(err)
	}
	live, err := listStorageConfigs(ctx, i.Clients.Connect, aws.ToString(input.InstanceId), input.ResourceType)
	if err != nil {
		return errorFinding(err)
	}
	if len(live) == 0 {
		return Finding{Status: StatusMissing, Detail: "no storage config for " + string(assoc.ResourceType)}
	}
	changes, err := storageConfigChanges(live, input.StorageConfig)
	if err != nil {
		return errorFinding(err)
	}
	if len(changes) > 0 {
		return Finding{Status: StatusDrift, Detail: strings.Join(changes, "; ")}
	}
	return Finding{Status: StatusOK, Detail: string(assoc.ResourceType)}
}

func (i *Inspector) checkAttribute(ctx context.Context, attr *foundation.InstanceAttribute, resolver foundation.Resolver) Finding {
	input := UpdateAttributeInput(attr, resolver)
	out, err := i.Clients.Connect.DescribeInstanceAttribute(ctx, &connect.DescribeInstanceAttributeInput{
		InstanceId:    input.InstanceId,
		AttributeType: input.AttributeType,
	})
	if err != nil {
		return notFoundOr(err)
	}
	var value string
	if out.Attribute != nil {
		value = aws.ToString(out.Attribute.Value)
	}
	if value != attr.Value {
		return Finding{Status: StatusDrift, Detail: fmt.Sprintf("%s: %q -> %q", attr.AttributeType, value, attr.Value)}
	}
	return Finding{Status: StatusOK, Detail: attr.AttributeType + "=" + value}
}

var notFoundCodes = map[string]struct{}{
	"NotFound":                  {},
	"NoSuchBucket":              {},
	"NotFoundException":         {},
	"ResourceNotFoundException": {},
}

func notFoundOr(err error) Finding {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, ok := notFoundCodes[apiErr.ErrorCode()]; ok {
			return Finding{Status: StatusMissing, Detail: apiErr.ErrorMessage()}
		}
	}
	return errorFinding(err)
}

func errorFinding(err error) Finding {
	return Finding{Status: StatusError, Detail: err.Error()}
}
