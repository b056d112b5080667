package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pressroom/internal/profile"
	"pressroom/internal/trace"
)

// OpenAIExecutor streams a task through the responses API with the
// profile's persona as system instructions.
type OpenAIExecutor struct {
	client *openai.Client
	model  string
}

func NewOpenAI(baseURL, apiKey, model string) *OpenAIExecutor {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, option.WithHTTPClient(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}))
	client := openai.NewClient(opts...)
	return &OpenAIExecutor{client: &client, model: model}
}

func (e *OpenAIExecutor) Execute(ctx context.Context, p *profile.Profile, task string, emit func(Event)) error {
	ctx, span := trace.Tracer().Start(ctx, "adapter.execute")
	defer span.End()
	span.SetAttributes(attribute.String("pressroom.agent", p.Name))

	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(e.model),
		Instructions: openai.String(p.Persona),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(task, "user"),
			},
		},
	}

	stream := e.client.Responses.NewStreaming(ctx, params)

	for stream.Next() {
		event := stream.Current()

		switch event.Type {
		case "response.output_text.delta":
			if event.Delta != "" {
				emit(Event{Type: EventToken, Data: event.Delta})
			}
		case "response.completed":
			emit(Event{Type: EventDone, Data: map[string]any{}})
		case "response.failed":
			err := fmt.Errorf("response failed: %s", event.Response.Error.Message)
			span.SetStatus(codes.Error, err.Error())
			emit(Event{Type: EventError, Data: err.Error()})
			return err
		}
	}

	if err := stream.Err(); err != nil {
		span.RecordError(err)
		emit(Event{Type: EventError, Data: err.Error()})
		return err
	}

	return nil
}
