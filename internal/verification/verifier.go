package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	FailedReason     = "Verification failed to process the image."
	DefaultMimeType  = "image/jpeg"
	MaxImageSizeByte = 10 << 20
)

var ErrEmptyResponse = errors.New("empty model response")

// Result is what the model reports about an approach screenshot.
type Result struct {
	Verified    bool    `json:"verified"`
	ContactName *string `json:"contactName"`
	Reason      string  `json:"reason"`
}

func FailedResult() Result {
	return Result{
		Verified: false,
		Reason:   FailedReason,
	}
}

type Verifier interface {
	Verify(ctx context.Context, image []byte, mimeType string) (Result, error)
}

const verifyPrompt = `Analyze this screenshot of a mobile messaging app.
Your ONLY goal is to verify if there is a feminine contact name present at the top header of the chat interface.

1. Look at the top bar/header. Identify the contact name.
2. Determine if it is a female name (e.g., Katelyn, Sarah, Chloe, etc.).

Ignore the actual message content for verification, but ensure it looks like a real chat screen.

Return only a JSON object with:
{
  "verified": boolean,
  "contactName": "The name found at the top, or null if none found",
  "reason": "Brief explanation of why you verified it (e.g., 'Identified female contact Katelyn')"
}`

func parseResult(text string) (Result, error) {
	text = strings.TrimSpace(text)
	// models sometimes wrap JSON in a fenced block
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyResponse
	}

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return Result{}, fmt.Errorf("decode verification result: %w", err)
	}
	if res.ContactName != nil && (*res.ContactName == "" || strings.EqualFold(*res.ContactName, "null")) {
		res.ContactName = nil
	}
	return res, nil
}
