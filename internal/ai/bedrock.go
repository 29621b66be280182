package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockAnswerer answers open questions through the Bedrock Converse API.
type BedrockAnswerer struct {
	api       bedrockConverseAPI
	modelID   string
	maxTokens int32
}

// NewBedrockAnswerer creates a Bedrock-backed answerer.
func NewBedrockAnswerer(api bedrockConverseAPI, modelID string, maxTokens int32) (*BedrockAnswerer, error) {
	if api == nil {
		return nil, errors.New("ai: bedrock client is required")
	}
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("ai: bedrock model id is required")
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &BedrockAnswerer{api: api, modelID: modelID, maxTokens: maxTokens}, nil
}

// Answer sends the question to Bedrock and returns the reply text.
func (c *BedrockAnswerer) Answer(ctx context.Context, userID, question string) (string, error) {
	out, err := c.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		System: []brtypes.SystemContentBlock{
			&brtypes.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []brtypes.Message{{
			Role: brtypes.ConversationRoleUser,
			Content: []brtypes.ContentBlock{
				&brtypes.ContentBlockMemberText{Value: question},
			},
		}},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens: aws.Int32(c.maxTokens),
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: bedrock converse failed: %w", err)
	}

	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return "", errors.New("ai: bedrock returned no message content")
	}

	var text strings.Builder
	for _, block := range msg.Value.Content {
		if t, ok := block.(*brtypes.ContentBlockMemberText); ok {
			text.WriteString(t.Value)
		}
	}
	reply := strings.TrimSpace(text.String())
	if reply == "" {
		return "", errors.New("ai: bedrock returned no text blocks")
	}
	return reply, nil
}
