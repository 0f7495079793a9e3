package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"trackmate/internal/log"
)

const defaultReceiptDescription = "Receipt Scan"

const textPrompt = `Extract a financial transaction from the user's message.
Respond with a JSON object with these keys:
  "description": short label for the transaction
  "amount": decimal number as a string, e.g. "450.00"
  "category": one of Food, Transport, Housing, Utilities, Entertainment, Health, Shopping, Other
  "date": ISO date YYYY-MM-DD if the message names one, otherwise ""
  "type": "income" or "expense"
Use "" for anything you cannot determine.`

const receiptPrompt = `This image is a purchase receipt. Extract the total and
respond with a JSON object with these keys:
  "description": merchant name or a short label
  "amount": the receipt total as a decimal string, e.g. "450.00"
  "category": one of Food, Transport, Housing, Utilities, Entertainment, Health, Shopping, Other
  "date": receipt date as YYYY-MM-DD, otherwise ""
  "type": always "expense"
Use "" for anything you cannot read.`

// Client extracts transaction drafts via the OpenAI chat completions API.
type Client struct {
	api    *openai.Client
	model  string
	logger *log.Logger
}

func NewClient(apiKey, model string, logger *log.Logger) *Client {
	return &Client{
		api:    openai.NewClient(apiKey),
		model:  model,
		logger: logger.WithComponent(log.ComponentExtract),
	}
}

// FromText extracts a draft from a natural-language message like
// "spent 450 on groceries yesterday".
func (c *Client) FromText(ctx context.Context, text string) (Draft, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: textPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return Draft{}, fmt.Errorf("text extraction: %w", err)
	}
	return c.parseDraft(ctx, resp)
}

// FromReceipt extracts a draft from a receipt image.
func (c *Client) FromReceipt(ctx context.Context, image []byte, mimeType string) (Draft, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: receiptPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return Draft{}, fmt.Errorf("receipt extraction: %w", err)
	}

	draft, err := c.parseDraft(ctx, resp)
	if err != nil {
		return Draft{}, err
	}
	if strings.TrimSpace(draft.Description) == "" {
		draft.Description = defaultReceiptDescription
	}
	return draft, nil
}

func (c *Client) parseDraft(ctx context.Context, resp openai.ChatCompletionResponse) (Draft, error) {
	if len(resp.Choices) == 0 {
		return Draft{}, fmt.Errorf("empty completion response")
	}

	content := resp.Choices[0].Message.Content
	var draft Draft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		c.logger.WarnContext(ctx, "Model returned non-JSON content",
			log.FieldError, err.Error())
		return Draft{}, fmt.Errorf("parse draft: %w", err)
	}

	c.logger.DebugContext(ctx, "Draft extracted",
		log.FieldCategory, draft.Category,
		log.FieldTransactionType, draft.Type)
	return draft, nil
}
