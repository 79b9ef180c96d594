package transfer

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []ChatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *ChatResponseFormat `json:"response_format,omitempty"`
}

type ChatResponseFormat struct {
	Type string `json:"type"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// DraftEnvelope is the JSON object the model is instructed to return.
type DraftEnvelope struct {
	Posts []Draft `json:"posts"`
}
