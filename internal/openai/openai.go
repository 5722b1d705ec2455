package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/glizzus/themedeck/generator"

	oagc "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"golang.org/x/time/rate"
)

const defaultModel = "gpt-4o-mini"

type openai struct {
	oac   *oagc.Client
	model string

	rl *rate.Limiter // For requests to the OpenAI API
}

var _ generator.Generator = &openai{}

func Init(model, baseURL string, httpClient *http.Client) *openai {
	if model == "" {
		model = defaultModel
	}

	opts := []option.RequestOption{option.WithHTTPClient(httpClient)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openai{
		oac:   oagc.NewClient(opts...),
		model: model,
		rl:    rate.NewLimiter(rate.Every(time.Minute/20), 1),
	}
}

func (o *openai) Name() string { return "openai" }

func (o *openai) Model() string { return o.model }

func (o *openai) IsHealthy() bool {
	// TODO
	return true
}

func (o *openai) Generate(ctx context.Context, greq generator.Request) (string, error) {
	// Rate limit use of the OpenAI API
	if err := o.rl.Wait(ctx); err != nil {
		return "", err
	}

	params := oagc.ChatCompletionNewParams{
		Model: oagc.F(o.model),
		Messages: oagc.F([]oagc.ChatCompletionMessageParamUnion{
			oagc.SystemMessage(greq.System),
			oagc.UserMessage(greq.Prompt),
		}),
		Temperature: oagc.Float(0.0),
	}

	if len(greq.Format) > 0 {
		var schema any
		if err := json.Unmarshal(greq.Format, &schema); err != nil {
			return "", fmt.Errorf("decode format schema: %w", err)
		}

		params.ResponseFormat = oagc.F[oagc.ChatCompletionNewParamsResponseFormatUnion](
			shared.ResponseFormatJSONSchemaParam{
				Type: oagc.F(shared.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: oagc.F(shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   oagc.F("presentation_theme"),
					Schema: oagc.F(schema),
					Strict: oagc.F(true),
				}),
			},
		)
	}

	stream := o.oac.Chat.Completions.NewStreaming(ctx, params)

	acc := oagc.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) > 0 {
			if tok := chunk.Choices[0].Delta.Content; tok != "" && greq.OnToken != nil {
				greq.OnToken(tok)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", err
	}

	if len(acc.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return acc.Choices[0].Message.Content, nil
}
