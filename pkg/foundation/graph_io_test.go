package foundation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdk/amazon-connect-foundation/pkg/config"
	"gopkg.in/yaml.v3"
)

func TestPlan_WriteYAML(t *testing.T) {
	plan, err := Build("acme-dev", config.DefaultSetup())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plan.WriteYAML(&buf))

	var doc struct {
		Stack     string                            `yaml:"stack"`
		Resources map[string]map[string]interface{} `yaml:"resources"`
		Edges     []string                          `yaml:"edges"`
		Outputs   map[string]struct {
			Value    string `yaml:"value"`
			Type     string `yaml:"type"`
			Exported bool   `yaml:"exported"`
		} `yaml:"outputs"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, plan.StackName, doc.Stack)
	assert.Len(t, doc.Resources, plan.Graph.Len())
	assert.Contains(t, doc.Edges, "aws:s3_bucket:acme-dev-amazon-connect-bucket -> aws:kms_key:acme-dev-foundation-key")
	assert.Equal(t, "true", doc.Outputs["CTRStreamEnabled"].Value)
	assert.Equal(t, "string", doc.Outputs["CTRStreamEnabled"].Type)
	assert.True(t, doc.Outputs["CTRStreamEnabled"].Exported)

	bucket := doc.Resources["aws:s3_bucket:acme-dev-attachments-bucket"]
	assert.Equal(t, "acme-dev-attachments-bucket", bucket["bucketName"])

	// resources are listed dependencies first
	text := buf.String()
	assert.Less(t, strings.Index(text, "aws:connect_instance:acme-dev-amazon-connect-instance:"),
		strings.Index(text, "aws:connect_storage_association:acme-dev-attachments-storage-config:"))
}

func TestPlan_MarshalJSON(t *testing.T) {
	plan, err := Build("acme-dev", config.DefaultSetup())
	require.NoError(t, err)

	b, err := json.Marshal(plan)
	require.NoError(t, err)

	var doc struct {
		Stack     string `json:"stack"`
		Resources map[string]struct {
			Properties map[string]interface{} `json:"properties"`
			DependsOn  []string               `json:"dependsOn"`
		} `json:"resources"`
		Outputs map[string]map[string]interface{} `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	media := doc.Resources["aws:connect_storage_association:acme-dev-media-streams-stream-storage-config"]
	assert.Equal(t, []string{
		"aws:connect_instance:acme-dev-amazon-connect-instance",
		"aws:kms_key:acme-dev-foundation-key",
	}, media.DependsOn)
	assert.Equal(t, "acme-dev-MEDIA_STREAMS-video-stream-association", media.Properties["idempotencyKey"])
	assert.Equal(t, "callAudio", doc.Outputs["MediaStreamsPrefix"]["value"])
}

func TestPlan_WriteDOT(t *testing.T) {
	plan, err := Build("acme-dev", config.DefaultSetup())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plan.WriteDOT(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `digraph "wdk-acme-dev-amazon-connect-foundation" {`))
	assert.Contains(t, out, `[label="connect_instance\nacme-dev-amazon-connect-instance" shape=doubleoctagon];`)
	edges, err := plan.Graph.Edges()
	require.NoError(t, err)
	assert.Equal(t, len(edges), strings.Count(out, " -> "))
}
