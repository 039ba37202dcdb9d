package forecast

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tonkolab/astrobot/internal/birthdata"
	"github.com/tonkolab/astrobot/internal/config"
)

type fakeAPI struct {
	resp openai.ChatCompletionResponse
	err  error
	last openai.ChatCompletionRequest
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	return f.resp, f.err
}

func testClient(api completionAPI) *Client {
	return &Client{
		api: api,
		cfg: config.OpenAIConfig{
			Model:              "gpt-4o-mini",
			PreviewMaxTokens:   400,
			FullMaxTokens:      1200,
			PreviewTemperature: 0.9,
			FullTemperature:    0.8,
		},
		timeout: 2 * time.Second,
	}
}

func mustParse(t *testing.T, raw string) birthdata.BirthData {
	t.Helper()
	data, err := birthdata.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return data
}

func TestPreviewUsesSignAndLimits(t *testing.T) {
	api := &fakeAPI{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "  teaser text  "}}},
	}}
	c := testClient(api)

	got, err := c.Preview(context.Background(), mustParse(t, "15.03.1990"))
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if got != "teaser text" {
		t.Errorf("got %q, want trimmed completion", got)
	}
	if api.last.MaxTokens != 400 {
		t.Errorf("max tokens = %d, want 400", api.last.MaxTokens)
	}
	if len(api.last.Messages) != 1 || api.last.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("unexpected messages: %+v", api.last.Messages)
	}
	prompt := api.last.Messages[0].Content
	for _, want := range []string{"Pisces", "15.03.1990 12:00", "TONKO"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFullUsesFullLimits(t *testing.T) {
	api := &fakeAPI{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "full text"}}},
	}}
	c := testClient(api)

	if _, err := c.Full(context.Background(), mustParse(t, "01.08.1990")); err != nil {
		t.Fatalf("full: %v", err)
	}
	if api.last.MaxTokens != 1200 {
		t.Errorf("max tokens = %d, want 1200", api.last.MaxTokens)
	}
	if !strings.Contains(api.last.Messages[0].Content, "Leo") {
		t.Error("prompt missing derived sign")
	}
}

func TestGenerateFailureWrapsErrUnavailable(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	c := testClient(api)

	_, err := c.Preview(context.Background(), mustParse(t, "15.03.1990"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	api := &fakeAPI{}
	c := testClient(api)

	_, err := c.Preview(context.Background(), mustParse(t, "15.03.1990"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

