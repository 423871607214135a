package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the foundation configuration",
	}
	var offline bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the parameters and the resolved setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd.Context(), offline)
			if err != nil {
				return err
			}
			doc := struct {
				Stack       string            `yaml:"stack"`
				ConfigTable string            `yaml:"configTable"`
				Parameters  interface{}       `yaml:"parameters"`
				Tags        map[string]string `yaml:"tags"`
				Values      []string          `yaml:"values"`
				Setup       interface{}       `yaml:"setup"`
			}{
				Stack:       s.params.StackName(),
				ConfigTable: s.params.ConfigTableName(),
				Parameters:  s.params,
				Tags:        s.params.Tags(),
				Values:      s.values.Keys(),
				Setup:       setupDoc(s),
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	show.Flags().BoolVar(&offline, "offline", false, "Skip the configuration table and use the default setup")
	cmd.AddCommand(show)
	return cmd
}

func setupDoc(s *session) map[string]interface{} {
	st := s.setup
	return map[string]interface{}{
		"separateChatTranscriptsBucket":                    st.SeparateChatTranscriptsBucket,
		"separateScheduledReportsBucket":                   st.SeparateScheduledReportsBucket,
		"separateAttachmentsBucket":                        st.SeparateAttachmentsBucket,
		"separateContactEvaluationsBucket":                 st.SeparateContactEvaluationsBucket,
		"separateScreenRecordingsBucket":                   st.SeparateScreenRecordingsBucket,
		"separateEmailMessagesBucket":                      st.SeparateEmailMessagesBucket,
		"enableCTRStream":                                  st.EnableCTRStream,
		"enableAgentEventsStream":                          st.EnableAgentEventsStream,
		"enableRealTimeContactAnalysisChatSegmentsStream":  st.EnableRealTimeContactAnalysisChatSegmentsStream,
		"enableRealTimeContactAnalysisVoiceSegmentsStream": st.EnableRealTimeContactAnalysisVoiceSegmentsStream,
		"enableHighVolumeOutbound":                         st.EnableHighVolumeOutbound,
		"identityManagementType":                           st.IdentityManagementType,
		"foundationEncryptionKeyArn":                       st.FoundationEncryptionKeyArn,
		"mediaStreamsRetentionHours":                       st.MediaStreamsRetentionHours,
	}
}
