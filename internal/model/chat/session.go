package chat

// Session couples a conversation identity with its transcript. The two are
// always persisted and reloaded together; the identity changes only on an
// explicit new chat.
type Session struct {
	ID         string  `json:"id"`
	Transcript []Entry `json:"transcript"`
}
