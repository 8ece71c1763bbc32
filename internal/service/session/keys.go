package session

// Storage keys for the persisted conversation state. The id and transcript
// are always written together.
const (
	KeySessionID  = "civic_session_id"
	KeyTranscript = "civic_messages"
)
