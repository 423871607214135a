package connectapi

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/connect/types"
	kinesistypes "github.com/aws/aws-sdk-go-v2/service/kinesis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
)

// deployed returns clients of a fully applied foundation.
func deployed(t *testing.T, plan *foundation.Plan) (Clients, *fakeConnect) {
	t.Helper()
	client := newFakeConnect()
	_, err := (&Associator{Client: client, All: true}).Apply(context.Background(), plan, testResolver())
	require.NoError(t, err)
	return Clients{
		Connect: client,
		S3:      &fakeS3{missing: map[string]bool{}},
		Kinesis: &fakeKinesis{status: map[string]kinesistypes.StreamStatus{}},
		KMS:     &fakeKMS{},
	}, client
}

func findingFor(t *testing.T, report *Report, id foundation.ResourceId) Finding {
	t.Helper()
	for _, f := range report.Findings {
		if f.Resource == id.String() {
			return f
		}
	}
	t.Fatalf("no finding for %s", id)
	return Finding{}
}

func TestInspector_Inspect(t *testing.T) {
	plan := testPlan(t)
	clients, _ := deployed(t, plan)

	report, err := (&Inspector{Clients: clients, Workers: 3}).Inspect(context.Background(), plan, testResolver())
	require.NoError(t, err)
	assert.Len(t, report.Findings, plan.Graph.Len())
	assert.True(t, report.OK(), "%v", report.Failed())
	for i := 1; i < len(report.Findings); i++ {
		assert.Less(t, report.Findings[i-1].Resource, report.Findings[i].Resource)
	}
}

func TestInspector_Inspect_problems(t *testing.T) {
	plan := testPlan(t)
	clients, client := deployed(t, plan)

	clients.S3.(*fakeS3).missing["acme-dev-attachments-bucket"] = true
	clients.Kinesis.(*fakeKinesis).status["acme-dev-ctr-stream"] = kinesistypes.StreamStatusCreating
	clients.KMS.(*fakeKMS).disabled = true
	client.attributes[botManagement] = "false"
	delete(client.configs, types.InstanceStorageResourceTypeAgentEvents)
	client.configs[types.InstanceStorageResourceTypeChatTranscripts][0].S3Config.BucketPrefix = nil

	report, err := (&Inspector{Clients: clients}).Inspect(context.Background(), plan, testResolver())
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Len(t, report.Failed(), 6)

	buckets, err := plan.Buckets()
	require.NoError(t, err)
	for _, b := range buckets {
		f := findingFor(t, report, b.ID())
		if b.BucketName == "acme-dev-attachments-bucket" {
			assert.Equal(t, StatusMissing, f.Status)
		} else {
			assert.Equal(t, StatusOK, f.Status)
		}
	}

	streams, err := plan.Streams()
	require.NoError(t, err)
	for _, s := range streams {
		f := findingFor(t, report, s.ID())
		if s.StreamName == "acme-dev-ctr-stream" {
			assert.Equal(t, StatusDrift, f.Status)
			assert.Contains(t, f.Detail, "CREATING")
		}
	}

	assert.Equal(t, StatusDrift, findingFor(t, report, plan.Key().ID()).Status)

	agentEvents, _ := plan.Association(foundation.AgentEvents)
	assert.Equal(t, StatusMissing, findingFor(t, report, agentEvents.ID()).Status)

	chat, _ := plan.Association(foundation.ChatTranscripts)
	f := findingFor(t, report, chat.ID())
	assert.Equal(t, StatusDrift, f.Status)
	assert.Contains(t, f.Detail, "bucketPrefix")

	attrs, err := plan.InstanceAttributes()
	require.NoError(t, err)
	for _, a := range attrs {
		f := findingFor(t, report, a.ID())
		if a.AttributeType == string(botManagement) {
			assert.Equal(t, StatusDrift, f.Status)
		} else {
			assert.Equal(t, StatusOK, f.Status)
		}
	}
}

func TestInspector_Inspect_instanceMissing(t *testing.T) {
	plan := testPlan(t)
	clients, client := deployed(t, plan)
	client.instances = nil

	report, err := (&Inspector{Clients: clients}).Inspect(context.Background(), plan, testResolver())
	require.NoError(t, err)
	f := findingFor(t, report, plan.Instance().ID())
	assert.Equal(t, StatusMissing, f.Status)
	assert.Len(t, report.Failed(), 1)
}

func TestReport(t *testing.T) {
	r := &Report{Findings: []Finding{{Resource: "a", Status: StatusOK}, {Resource: "b", Status: StatusError}}}
	assert.False(t, r.OK())
	assert.Equal(t, []Finding{{Resource: "b", Status: StatusError}}, r.Failed())
	assert.True(t, (&Report{}).OK())
}
