package gemini

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm"
)

// Config for the Vertex AI Gemini backend. Credentials come from Application Default
// Credentials.
type Config struct {
	ProjectID   string
	Region      string
	Model       string // default "gemini-2.5-pro"
	Temperature float32
}

// generator is the slice of *genai.GenerativeModel we depend on.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Client struct {
	cfg    Config
	model  generator
	closer io.Closer
	log    *slog.Logger
}

// NewClient dials Vertex AI and configures a JSON-mode model.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("gemini.NewClient: projectID and region cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-pro"
	}

	base, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := base.GenerativeModel(cfg.Model)
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(cfg.Temperature),
	}

	return newClient(cfg, model, base, logger), nil
}

func newClient(cfg Config, model generator, closer io.Closer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, model: model, closer: closer, log: logger}
}

func (c *Client) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// Structure implements llm.Structurer.
func (c *Client) Structure(ctx context.Context, prompt string) (llm.ExtractionResult, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()

	c.log.Info("llm.structure.start",
		"req_id", rid,
		"provider", common.ProviderGemini,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"prompt_len", len(prompt),
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		serr := llm.CallError(ctx, "gemini request failed", err)
		c.log.Error("llm.structure.call_error",
			"req_id", rid, "kind", serr.Kind, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionResult{}, nil, serr
	}

	text, ok := responseText(resp)
	if !ok {
		c.log.Error("llm.structure.no_candidates",
			"req_id", rid, "blocked", blockReason(resp),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionResult{}, nil, common.NewStructuringError(common.KindTransport, "no candidates in gemini response "+blockReason(resp), nil)
	}
	content := []byte(strings.TrimSpace(text))

	out, err := llm.ParseExtractionResult(content)
	if err != nil {
		c.log.Error("llm.structure.parse_failed",
			"req_id", rid, "error", err, "content_len", len(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionResult{}, content, err
	}

	c.log.Info("llm.structure.ok",
		"req_id", rid,
		"entries", len(out.Entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, content, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String(), true
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.PromptFeedback == nil {
		return ""
	}
	return resp.PromptFeedback.BlockReason.String()
}
