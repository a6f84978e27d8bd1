package llm

// Role is the speaker of a ChatTurn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one utterance in a conversation. Histories are ordered
// oldest first.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserTurn returns a ChatTurn spoken by the user.
func NewUserTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleUser, Content: content}
}

// NewAssistantTurn returns a ChatTurn spoken by the assistant.
func NewAssistantTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleAssistant, Content: content}
}
