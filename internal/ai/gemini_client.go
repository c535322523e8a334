package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"
	"time"

	"patchpulse/pkg/config"
	"patchpulse/pkg/logger"
	"patchpulse/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const jsonOnlyInstruction = "\n\nRespond with a single JSON object only. No markdown, no code fences, no commentary."

// geminiAPIRequest is the request payload for the Gemini generateContent API.
type geminiAPIRequest struct {
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

// geminiAPIResponse is the response from the Gemini API.
type geminiAPIResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// geminiClient is a Client implementation backed by the Google Gemini API.
type geminiClient struct {
	client         *http.Client
	cfg            config.Gemini
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiClient creates a Gemini-backed gateway. The genai client is only
// used for token counting; completions go through the HTTP API directly.
func NewGeminiClient(cfg config.Gemini, log *logger.Logger, genAiClient *genai.Client) (Client, error) {
	if cfg.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &geminiClient{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.MaxTokenPerMinute),
		genAiClient:    genAiClient,
	}, nil
}

// GenerateCompletion returns the raw text completion for the prompt pair.
func (c *geminiClient) GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	resp, err := c.execute(ctx, systemPrompt, userPrompt, opts)
	if err != nil {
		return "", err
	}
	return c.firstCandidateText(resp)
}

// GenerateJSON runs the prompt with a JSON-only instruction appended and
// unmarshals the fenced-or-bare JSON response into out.
func (c *geminiClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts Options, out any) error {
	resp, err := c.execute(ctx, systemPrompt, userPrompt+jsonOnlyInstruction, opts)
	if err != nil {
		return err
	}

	text, err := c.firstCandidateText(resp)
	if err != nil {
		return err
	}

	raw := StripJSONFence(text)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.logger.Error("Failed to unmarshal structured model output", logger.ErrorField(err), logger.StringField("response", raw))
		return fmt.Errorf("failed to unmarshal structured model output: %w", err)
	}
	return nil
}

// Embed returns a pseudo-hash vector derived from FNV hashes of the text.
// Placeholder only: the values carry no semantic meaning.
func (c *geminiClient) Embed(text string) []float32 {
	const dims = 64
	vec := make([]float32, dims)
	h := fnv.New32a()
	for i := 0; i < dims; i++ {
		h.Reset()
		fmt.Fprintf(h, "%d:%s", i, text)
		vec[i] = float32(h.Sum32()%1000) / 1000.0
	}
	return vec
}

func (c *geminiClient) execute(ctx context.Context, systemPrompt, userPrompt string, opts Options) (*geminiAPIResponse, error) {
	model := opts.Model
	if model == "" {
		model = c.cfg.Model
	}
	maxTokens := opts.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxOutputTokens
	}

	contents := []*genai.Content{
		genai.NewContentFromText(systemPrompt+"\n"+userPrompt, "user"),
	}
	tokenResp, err := c.genAiClient.Models.CountTokens(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	c.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", c.tokenLimiter.GetRemaining()),
	)

	if err := c.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}
	if err := c.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := geminiAPIRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: userPrompt}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     opts.Temperature,
		},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", c.cfg.BaseURL, model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp geminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return &geminiResp, nil
}

func (c *geminiClient) firstCandidateText(resp *geminiAPIResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content found in Gemini response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// StripJSONFence removes a wrapping markdown code fence, if present, from a
// model response so it can be passed to json.Unmarshal.
func StripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
