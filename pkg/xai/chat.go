package xai

import (
	"encoding/json"
)

type ChatCompletionRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// marshal operations
func (r *ChatCompletionRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// unmarshal to ChatCompletionRequest
func (r *ChatCompletionRequest) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}

type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one block of a multimodal message, either text or an image URL.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

func ImagePart(url string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url}}
}

type ChatCompletionResponse struct {
	Id      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

type ChatChoice struct {
	Message ChoiceMessage `json:"message"`
	Index   json.Number   `json:"index"`
	Reason  string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (r *ChatCompletionResponse) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func (r *ChatCompletionResponse) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}
