package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSetup_defaults(t *testing.T) {
	assert := assert.New(t)
	s := DefaultSetup()

	assert.True(s.SeparateChatTranscriptsBucket)
	assert.True(s.SeparateScheduledReportsBucket)
	assert.True(s.SeparateAttachmentsBucket)
	assert.True(s.SeparateContactEvaluationsBucket)
	assert.True(s.SeparateScreenRecordingsBucket)
	assert.True(s.SeparateEmailMessagesBucket)
	assert.True(s.EnableCTRStream)
	assert.True(s.EnableAgentEventsStream)
	assert.True(s.EnableRealTimeContactAnalysisChatSegmentsStream)
	assert.True(s.EnableRealTimeContactAnalysisVoiceSegmentsStream)
	assert.True(s.EnableHighVolumeOutbound)
	assert.Equal("SAML", s.IdentityManagementType)
	assert.Empty(s.FoundationEncryptionKeyArn)
	assert.Equal(72, s.MediaStreamsRetentionHours)
}

func TestNewSetup_overrides(t *testing.T) {
	assert := assert.New(t)
	s := NewSetup(Values{
		"amazon-connect-foundation.setup.separateChatTranscriptsBucket": "false",
		"amazon-connect-foundation.setup.enableCTRStream":               false,
		"amazon-connect-foundation.setup.enableAgentEventsStream":       "not-a-bool",
		"amazon-connect-foundation.setup.identityManagementType":        "CONNECT_MANAGED",
		"amazon-connect-foundation.setup.foundationEncryptionKeyArn":    "arn:aws:kms:us-east-1:111122223333:key/abc",
		// keys of other modules are ignored
		"scheduled-reports.setup.separateAttachmentsBucket": "false",
	})

	assert.False(s.SeparateChatTranscriptsBucket)
	assert.False(s.EnableCTRStream)
	assert.True(s.EnableAgentEventsStream)
	assert.True(s.SeparateAttachmentsBucket)
	assert.Equal("CONNECT_MANAGED", s.IdentityManagementType)
	assert.Equal("arn:aws:kms:us-east-1:111122223333:key/abc", s.FoundationEncryptionKeyArn)
}
