package llm

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Summarizer is the optional generative tier of the FAQ.  Implementations
// must be failure-tolerant: the caller treats any error or empty string as
// "no summary" and falls back to the deterministic answer, never retrying.
type Summarizer interface {
	Summarize(ctx context.Context, question string, passages []string) (string, error)
}

// summaryPreamble pins the safety framing: educational tone, no diagnosis or
// prescription, emergencies directed to care.
const summaryPreamble = "Você é um assistente educativo em saúde materna. Responda em português, " +
	"curto e claro, sem diagnosticar nem prescrever. Em sinais de alerta, " +
	"oriente procurar serviço de saúde/SAMU 192."

// callTimeout bounds every provider call; the conversational reply must not
// hang on a slow provider.
const callTimeout = 8 * time.Second

// OpenAIClient summarises FAQ passages through the OpenAI chat completion
// API.  API credentials and the model name are loaded from the environment.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed summarizer.  It reads the API
// key and model name from the environment and falls back to a sensible
// default model.
func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{client: openai.NewClient(apiKey), model: model}
}

// Summarize grounds the answer on the retrieved passages and asks for a
// short objective reply.  The call is bounded by callTimeout.
func (c *OpenAIClient) Summarize(ctx context.Context, question string, passages []string) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}
	if len(passages) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	prompt := summaryPreamble + "\n\n" +
		"PERGUNTA:\n" + question + "\n\n" +
		"FONTES:\n- " + strings.Join(passages, "\n- ") + "\n\n" +
		"Responda objetivamente (bullets quando útil)."
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: 0.2,
		MaxTokens:   300,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
