package config

// Setup holds the feature flags and settings of the foundation, read from the
// amazon-connect-foundation.setup.* keys of the configuration table.
type Setup struct {
	// Storage bucket configuration
	SeparateChatTranscriptsBucket    bool
	SeparateScheduledReportsBucket   bool
	SeparateAttachmentsBucket        bool
	SeparateContactEvaluationsBucket bool
	SeparateScreenRecordingsBucket   bool
	SeparateEmailMessagesBucket      bool

	// Stream configuration
	EnableCTRStream                                  bool
	EnableAgentEventsStream                          bool
	EnableRealTimeContactAnalysisChatSegmentsStream  bool
	EnableRealTimeContactAnalysisVoiceSegmentsStream bool

	EnableHighVolumeOutbound bool
	IdentityManagementType   string

	// When empty a new key is created for the foundation.
	FoundationEncryptionKeyArn string
	MediaStreamsRetentionHours int
}

// DefaultSetup is the setup used when the configuration table holds no overrides.
func DefaultSetup() *Setup {
	return NewSetup(nil)
}

func NewSetup(values Values) *Setup {
	b := func(property string, def bool) bool {
		return values.Bool(SetupNamespace, property, def)
	}
	return &Setup{
		SeparateChatTranscriptsBucket:    b("separateChatTranscriptsBucket", true),
		SeparateScheduledReportsBucket:   b("separateScheduledReportsBucket", true),
		SeparateAttachmentsBucket:        b("separateAttachmentsBucket", true),
		SeparateContactEvaluationsBucket: b("separateContactEvaluationsBucket", true),
		SeparateScreenRecordingsBucket:   b("separateScreenRecordingsBucket", true),
		SeparateEmailMessagesBucket:      b("separateEmailMessagesBucket", true),

		EnableCTRStream:         b("enableCTRStream", true),
		EnableAgentEventsStream: b("enableAgentEventsStream", true),
		EnableRealTimeContactAnalysisChatSegmentsStream:  b("enableRealTimeContactAnalysisChatSegmentsStream", true),
		EnableRealTimeContactAnalysisVoiceSegmentsStream: b("enableRealTimeContactAnalysisVoiceSegmentsStream", true),

		EnableHighVolumeOutbound: b("enableHighVolumeOutbound", true),
		IdentityManagementType:   values.String(SetupNamespace, "identityManagementType", "SAML"),

		FoundationEncryptionKeyArn: values.String(SetupNamespace, "foundationEncryptionKeyArn", ""),
		MediaStreamsRetentionHours: values.Int(SetupNamespace, "mediaStreamsRetentionHours", 72),
	}
}
