package connectapi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/connect/types"
	"github.com/pkg/errors"
	"github.com/r3labs/diff"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
	"go.uber.org/zap"
)

// ErrConflictingStorageConfig is returned when an instance already stores a resource type
// somewhere other than where the foundation declares it.
var ErrConflictingStorageConfig = errors.New("conflicting storage config")

type Operation string

const (
	OperationAssociate Operation = "associate"
	OperationUpdate    Operation = "update"
	OperationUnchanged Operation = "unchanged"
	OperationConflict  Operation = "conflict"
)

type Action struct {
	Resource  foundation.ResourceId
	Operation Operation
	Detail    string
}

// Associator applies the API-method associations and the attribute updates of a plan directly
// through the Amazon Connect API.
type Associator struct {
	Client ConnectClient
	// DryRun reports the actions without calling write APIs.
	DryRun bool
	// All also applies associations that the stack declares natively.
	All bool
}

// Apply brings the instance in line with plan. Associations already in place are left alone, so
// applying twice issues no writes. Conflicting storage configs are never overwritten; they are
// reported together once every other action has been applied.
func (a *Associator) Apply(ctx context.Context, plan *foundation.Plan, resolver foundation.Resolver) ([]Action, error) {
	associations, err := plan.Associations()
	if err != nil {
		return nil, err
	}
	attributes, err := plan.InstanceAttributes()
	if err != nil {
		return nil, err
	}

	var (
		actions   []Action
		conflicts []string
	)
	for _, assoc := range associations {
		if assoc.Method != foundation.MethodAPI && !a.All {
			continue
		}
		action, err := a.associate(ctx, assoc, resolver)
		if err != nil {
			return actions, errors.Wrapf(err, "could not associate %s", assoc.ResourceType)
		}
		if action.Operation == OperationConflict {
			conflicts = append(conflicts, string(assoc.ResourceType))
		}
		actions = append(actions, action)
	}
	for _, attr := range attributes {
		action, err := a.updateAttribute(ctx, attr, resolver)
		if err != nil {
			return actions, errors.Wrapf(err, "could not update attribute %s", attr.AttributeType)
		}
		actions = append(actions, action)
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return actions, errors.Wrap(ErrConflictingStorageConfig, strings.Join(conflicts, ", "))
	}
	return actions, nil
}

func (a *Associator) associate(ctx context.Context, assoc *foundation.StorageAssociation, resolver foundation.Resolver) (Action, error) {
	log := zap.S().With("resourceType", assoc.ResourceType, "dryRun", a.DryRun)
	input, err := AssociateInput(assoc, resolver)
	if err != nil {
		return Action{}, err
	}
	live, err := listStorageConfigs(ctx, a.Client, aws.ToString(input.InstanceId), input.ResourceType)
	if err != nil {
		return Action{}, err
	}

	action := Action{Resource: assoc.ID()}
	if len(live) > 0 {
		changes, err := storageConfigChanges(live, input.StorageConfig)
		if err != nil {
			return Action{}, err
		}
		if len(changes) == 0 {
			action.Operation = OperationUnchanged
			log.Debug("storage config already associated")
			return action, nil
		}
		action.Operation = OperationConflict
		action.Detail = strings.Join(changes, "; ")
		log.Warnw("conflicting storage config", "changes", changes)
		return action, nil
	}

	action.Operation = OperationAssociate
	action.Detail = string(input.StorageConfig.StorageType)
	if a.DryRun {
		return action, nil
	}
	out, err := a.Client.AssociateInstanceStorageConfig(ctx, input)
	if err != nil {
		return Action{}, err
	}
	log.Infow("associated storage config", "associationId", aws.ToString(out.AssociationId))
	return action, nil
}

func (a *Associator) updateAttribute(ctx context.Context, attr *foundation.InstanceAttribute, resolver foundation.Resolver) (Action, error) {
	input := UpdateAttributeInput(attr, resolver)
	action := Action{Resource: attr.ID(), Detail: attr.AttributeType + "=" + attr.Value}

	current, err := a.Client.DescribeInstanceAttribute(ctx, &connect.DescribeInstanceAttributeInput{
		InstanceId:    input.InstanceId,
		AttributeType: input.AttributeType,
	})
	if err != nil {
		return Action{}, err
	}
	if current.Attribute != nil && aws.ToString(current.Attribute.Value) == attr.Value {
		action.Operation = OperationUnchanged
		return action, nil
	}

	action.Operation = OperationUpdate
	if a.DryRun {
		return action, nil
	}
	if _, err := a.Client.UpdateInstanceAttribute(ctx, input); err != nil {
		return Action{}, err
	}
	zap.S().Infow("updated instance attribute", "attribute", attr.AttributeType, "value", attr.Value)
	return action, nil
}

func listStorageConfigs(ctx context.Context, client ConnectClient, instanceId string, resourceType types.InstanceStorageResourceType) ([]types.InstanceStorageConfig, error) {
	var (
		configs   []types.InstanceStorageConfig
		nextToken *string
	)
	for {
		out, err := client.ListInstanceStorageConfigs(ctx, &connect.ListInstanceStorageConfigsInput{
			InstanceId:   aws.String(instanceId),
			ResourceType: resourceType,
			NextToken:    nextToken,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not list storage configs for %s", resourceType)
		}
		configs = append(configs, out.StorageConfigs...)
		if aws.ToString(out.NextToken) == "" {
			return configs, nil
		}
		nextToken = out.NextToken
	}
}

// storageConfigChanges compares desired with the live configs. It returns nothing when one of
// them matches, otherwise the changes needed to turn the first live config into desired.
func storageConfigChanges(live []types.InstanceStorageConfig, desired *types.InstanceStorageConfig) ([]string, error) {
	want := project(desired)
	var first []string
	for i := range live {
		// a Differ accumulates its changelog, so each comparison needs its own
		differ, err := diff.NewDiffer(diff.SliceOrdering(false))
		if err != nil {
			return nil, err
		}
		changelog, err := differ.Diff(project(&live[i]), want)
		if err != nil {
			return nil, errors.Wrap(err, "could not compare storage configs")
		}
		if len(changelog) == 0 {
			return nil, nil
		}
		if first == nil {
			for _, c := range changelog {
				first = append(first, fmt.Sprintf("%s: %v -> %v", strings.Join(c.Path, "."), c.From, c.To))
			}
		}
	}
	return first, nil
}
