package foundation

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/config"
)

// ResourceType is the category of contact-center data a storage association governs.
type ResourceType string

const (
	CallRecordings                       ResourceType = "CALL_RECORDINGS"
	ChatTranscripts                      ResourceType = "CHAT_TRANSCRIPTS"
	ScheduledReports                     ResourceType = "SCHEDULED_REPORTS"
	MediaStreams                         ResourceType = "MEDIA_STREAMS"
	ContactTraceRecords                  ResourceType = "CONTACT_TRACE_RECORDS"
	AgentEvents                          ResourceType = "AGENT_EVENTS"
	RealTimeContactAnalysisSegments      ResourceType = "REAL_TIME_CONTACT_ANALYSIS_SEGMENTS"
	Attachments                          ResourceType = "ATTACHMENTS"
	ContactEvaluations                   ResourceType = "CONTACT_EVALUATIONS"
	ScreenRecordings                     ResourceType = "SCREEN_RECORDINGS"
	RealTimeContactAnalysisChatSegments  ResourceType = "REAL_TIME_CONTACT_ANALYSIS_CHAT_SEGMENTS"
	RealTimeContactAnalysisVoiceSegments ResourceType = "REAL_TIME_CONTACT_ANALYSIS_VOICE_SEGMENTS"
	EmailMessages                        ResourceType = "EMAIL_MESSAGES"
)

var allResourceTypes = []ResourceType{
	CallRecordings,
	ChatTranscripts,
	ScheduledReports,
	MediaStreams,
	ContactTraceRecords,
	AgentEvents,
	RealTimeContactAnalysisSegments,
	Attachments,
	ContactEvaluations,
	ScreenRecordings,
	RealTimeContactAnalysisChatSegments,
	RealTimeContactAnalysisVoiceSegments,
	EmailMessages,
}

func ResourceTypes() []ResourceType {
	return append([]ResourceType(nil), allResourceTypes...)
}

func ParseResourceType(s string) (ResourceType, error) {
	normalized := ResourceType(strings.ToUpper(strings.TrimSpace(s)))
	for _, rt := range allResourceTypes {
		if rt == normalized {
			return rt, nil
		}
	}
	return "", errors.Errorf("unknown Amazon Connect resource type %q", s)
}

// IsStreamType reports whether the resource type can be backed by a Kinesis Data Stream.
func (rt ResourceType) IsStreamType() bool {
	switch rt {
	case ContactTraceRecords, AgentEvents, RealTimeContactAnalysisSegments,
		RealTimeContactAnalysisChatSegments, RealTimeContactAnalysisVoiceSegments:
		return true
	}
	return false
}

// Slug is the lower kebab form used in construct and resource names.
func (rt ResourceType) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(rt)), "_", "-")
}

func (rt ResourceType) String() string { return string(rt) }

type (
	// AssociationMethod is how an association is handed to the provisioning engine.
	AssociationMethod string

	backendKind int

	// catalogEntry describes how the foundation provisions storage for one resource type.
	catalogEntry struct {
		ResourceType ResourceType
		Method       AssociationMethod
		Backend      backendKind
		// Enabled selects a dedicated bucket or enables the stream. Nil means unconditional.
		Enabled func(*config.Setup) bool
		// Slug names the dedicated bucket / stream: <prefix>-<Slug>-bucket or <prefix>-<Slug>-stream.
		Slug string
		// BucketPrefix is the object prefix inside the bucket.
		BucketPrefix string
		// OutputStem prefixes the output names, e.g. ChatTranscripts -> ChatTranscriptsBucketName.
		OutputStem string
	}
)

const (
	// MethodNative declares the association as an AWS::Connect::InstanceStorageConfig resource.
	MethodNative AssociationMethod = "native"
	// MethodAPI declares the association as an AssociateInstanceStorageConfig call.
	MethodAPI AssociationMethod = "api"
)

const (
	backendSharedBucket backendKind = iota
	backendBucket
	backendStream
	backendVideoStream
)

const (
	MediaStreamsPrefix         = "callAudio"
	MediaStreamsRetentionHours = 72
	// MaxMediaStreamsRetentionHours is the longest retention Kinesis Video Streams accepts.
	MaxMediaStreamsRetentionHours = 87600
)

var catalog = []catalogEntry{
	{ResourceType: CallRecordings, Method: MethodNative, Backend: backendSharedBucket, BucketPrefix: "audio-recordings", OutputStem: "CallRecordings"},
	{ResourceType: ChatTranscripts, Method: MethodNative, Backend: backendBucket, Enabled: func(s *config.Setup) bool { return s.SeparateChatTranscriptsBucket }, Slug: "chat-transcripts", BucketPrefix: "chat-transcripts", OutputStem: "ChatTranscripts"},
	{ResourceType: ScheduledReports, Method: MethodNative, Backend: backendBucket, Enabled: func(s *config.Setup) bool { return s.SeparateScheduledReportsBucket }, Slug: "scheduled-reports", BucketPrefix: "scheduled-reports", OutputStem: "ScheduledReports"},
	{ResourceType: ContactTraceRecords, Method: MethodNative, Backend: backendStream, Enabled: func(s *config.Setup) bool { return s.EnableCTRStream }, Slug: "ctr", OutputStem: "CTR"},
	{ResourceType: AgentEvents, Method: MethodNative, Backend: backendStream, Enabled: func(s *config.Setup) bool { return s.EnableAgentEventsStream }, Slug: "agent-events", OutputStem: "AgentEvents"},
	{ResourceType: MediaStreams, Method: MethodNative, Backend: backendVideoStream, OutputStem: "MediaStreams"},
	{ResourceType: ScreenRecordings, Method: MethodAPI, Backend: backendBucket, Enabled: func(s *config.Setup) bool { return s.SeparateScreenRecordingsBucket }, Slug: "screen-recordings", BucketPrefix: "screen-recordings", OutputStem: "ScreenRecordings"},
	{ResourceType: Attachments, Method: MethodAPI, Backend: backendBucket, Enabled: func(s *config.Setup) bool { return s.SeparateAttachmentsBucket }, Slug: "attachments", BucketPrefix: "attachments", OutputStem: "Attachments"},
	{ResourceType: ContactEvaluations, Method: MethodAPI, Backend: backendBucket, Enabled: func(s *config.Setup) bool { return s.SeparateContactEvaluationsBucket }, Slug: "contact-evaluations", BucketPrefix: "contact-evaluations", OutputStem: "ContactEvaluations"},
	{ResourceType: EmailMessages, Method: MethodAPI, Backend: backendBucket, Enabled: func(s *config.Setup) bool { return s.SeparateEmailMessagesBucket }, Slug: "email-messages", BucketPrefix: "email-messages", OutputStem: "EmailMessages"},
	{ResourceType: RealTimeContactAnalysisVoiceSegments, Method: MethodAPI, Backend: backendStream, Enabled: func(s *config.Setup) bool { return s.EnableRealTimeContactAnalysisVoiceSegmentsStream }, Slug: "real-time-contact-analysis-voice-segments", OutputStem: "RealTimeContactAnalysisVoiceSegments"},
	{ResourceType: RealTimeContactAnalysisChatSegments, Method: MethodAPI, Backend: backendStream, Enabled: func(s *config.Setup) bool { return s.EnableRealTimeContactAnalysisChatSegmentsStream }, Slug: "real-time-contact-analysis-text-segments", OutputStem: "RealTimeContactAnalysisTextSegments"},
}

// Instance attributes switched on after the instance exists.
var postCreateAttributes = []string{
	"AUTOMATED_INTERACTION_LOG",
	"ENABLE_BOT_ANALYTICS_AND_TRANSCRIPTS",
	"BOT_MANAGEMENT",
}
