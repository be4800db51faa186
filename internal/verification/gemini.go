package verification

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/syclar/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

type GeminiParams struct {
	APIKey string
	// Endpoint overrides the public API base URL, used in tests.
	Endpoint   string
	Model      string
	HTTPClient *http.Client
}

// NewGeminiClient talks to the Gemini API over the given http client. The SDK
// sends the key in the x-goog-api-key header.
func NewGeminiClient(ctx context.Context, params GeminiParams) (*GeminiClient, error) {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     params.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: params.Endpoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("new genai client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  strings.TrimPrefix(params.Model, "models/"),
	}, nil
}

func (c *GeminiClient) generate(ctx context.Context, parts []*genai.Part, config *genai.GenerateContentConfig) (string, error) {
	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Verify asks the model whether the screenshot shows a chat with a feminine contact name.
func (c *GeminiClient) Verify(ctx context.Context, image []byte, mimeType string) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "verification.gemini.verify")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("image.size", len(image)),
		attribute.String("image.mime", mimeType),
	)

	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	text, err := c.generate(
		ctx,
		[]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(verifyPrompt),
		},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return Result{}, fmt.Errorf("generate: %w", err)
	}

	res, err := parseResult(text)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(attribute.Bool("verified", res.Verified))
	return res, nil
}

// GenerateText runs a plain text prompt.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "verification.gemini.text")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	text, err := c.generate(ctx, []*genai.Part{genai.NewPartFromText(prompt)}, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
