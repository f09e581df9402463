package entity

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn, both on the wire and in the chat history log
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type LLMChatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type LLMChatCompletionChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type LLMChatCompletionResponse struct {
	ID      string                    `json:"id"`
	Model   string                    `json:"model"`
	Choices []LLMChatCompletionChoice `json:"choices"`
}
