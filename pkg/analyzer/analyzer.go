package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/imagegraph/grok-analyzer/pkg/imaging"
	"github.com/imagegraph/grok-analyzer/pkg/node"
	"github.com/imagegraph/grok-analyzer/pkg/xai"
)

const (
	// NodeName is the registry key the host looks the node up by.
	NodeName = "GrokImageAnalyzer"

	// DefaultModel is the only model the node currently offers.
	DefaultModel = "grok-4-1-fast-non-reasoning"

	defaultSystemPrompt = "You are an expert at creating detailed, descriptive prompts for image generation models. Provide rich, specific details."
	defaultUserPrompt   = "Describe this image in detail for use as a prompt for an image generation model. Focus on composition, style, colors, and main subjects."

	temperature = 0.7
	maxTokens   = 2048
)

// Analyzer sends an image to the Grok vision API and returns the generated
// description through both of its string outputs.
type Analyzer struct {
	client      *xai.Client
	fallbackKey string
	out         io.Writer
}

// New creates the node. The fallback key comes from configuration read at
// process start; the node itself never touches the environment.
func New(client *xai.Client, fallbackKey string) *Analyzer {
	return &Analyzer{
		client:      client,
		fallbackKey: fallbackKey,
		out:         os.Stdout,
	}
}

func (a *Analyzer) Info() node.Info {
	return node.Info{
		DisplayName: "Grok Image Analyzer",
		Category:    "image/analysis",
	}
}

func (a *Analyzer) Inputs() []node.InputSpec {
	return []node.InputSpec{
		{Name: "image", Type: node.TypeImage, Required: true},
		{Name: "api_key", Type: node.TypeString, Required: true, Masked: true},
		{Name: "model", Type: node.TypeString, Required: true, Default: DefaultModel, Choices: []string{DefaultModel}},
		{Name: "system_prompt", Type: node.TypeString, Multiline: true, Default: defaultSystemPrompt},
		{Name: "user_prompt", Type: node.TypeString, Multiline: true, Default: defaultUserPrompt},
	}
}

func (a *Analyzer) Outputs() []node.OutputSpec {
	return []node.OutputSpec{
		{Name: "prompt", Type: node.TypeString},
		{Name: "preview", Type: node.TypeString},
	}
}

// Execute runs one analysis. A single blocking request, no retry; every
// failure aborts the invocation with a tagged *Error.
func (a *Analyzer) Execute(ctx context.Context, in node.Values) (node.Values, error) {
	apiKey := strings.TrimSpace(in.String("api_key"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(a.fallbackKey)
	}
	if apiKey == "" {
		return nil, failed(KindConfig, errors.New("api key not provided and no environment fallback is set"))
	}

	tensor, ok := in["image"].(*imaging.Tensor)
	if !ok || tensor == nil {
		return nil, failed(KindInput, errors.New("image input is missing"))
	}

	img, err := tensor.First().ToImage()
	if err != nil {
		return nil, failed(KindInput, err)
	}
	pngData, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, failed(KindInput, err)
	}

	req := a.buildRequest(in, imaging.DataURI(pngData))

	resp, err := a.client.ChatCompletion(ctx, apiKey, req)
	if err != nil {
		if errors.Is(err, xai.ErrMalformedResponse) {
			return nil, failed(KindResponse, err)
		}
		return nil, failed(KindNetwork, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, failed(KindResponse, errors.New("no analysis returned from Grok API"))
	}
	prompt := resp.Choices[0].Message.Content

	a.printPreview(prompt)
	log.Infof("Generated prompt: %s", prompt)

	return node.Values{
		"prompt":  prompt,
		"preview": prompt,
	}, nil
}

func (a *Analyzer) buildRequest(in node.Values, imageURI string) *xai.ChatCompletionRequest {
	model := in.String("model")
	if model == "" {
		model = DefaultModel
	}
	// Defaults replace empty prompts only. A whitespace system prompt is
	// kept and then drops the leading text block below; a whitespace user
	// prompt is sent as-is.
	systemPrompt := in.String("system_prompt")
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	userPrompt := in.String("user_prompt")
	if userPrompt == "" {
		userPrompt = defaultUserPrompt
	}

	content := make([]xai.ContentPart, 0, 3)
	if strings.TrimSpace(systemPrompt) != "" {
		content = append(content, xai.TextPart(systemPrompt))
	}
	content = append(content, xai.ImagePart(imageURI), xai.TextPart(userPrompt))

	return &xai.ChatCompletionRequest{
		Model:       model,
		Messages:    []xai.ChatMessage{{Role: "user", Content: content}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

func (a *Analyzer) printPreview(prompt string) {
	sep := strings.Repeat("=", 80)
	fmt.Fprintf(a.out, "\n%s\nGENERATED PROMPT PREVIEW\n%s\n%s\n%s\n\n", sep, sep, prompt, sep)
}
