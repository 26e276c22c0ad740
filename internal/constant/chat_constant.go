package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// MaxTranscriptEntries bounds the rolling transcript. Older turns are
	// silently dropped.
	MaxTranscriptEntries = 7

	// Prompt rendering for the flattened conversation sent to the model.
	PromptUserPrefix      = "User: "
	PromptAssistantPrefix = "Assistant: "
	PromptAssistantCue    = "Assistant:"
	PromptSystemPrefix    = "System Instructions: "
)
