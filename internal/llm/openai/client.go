package openai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Temperature    float32        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Structure implements llm.Structurer using chat/completions in JSON mode.
func (c *Client) Structure(ctx context.Context, prompt string) (llm.ExtractionResult, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()

	c.log.Info("llm.structure.start",
		"req_id", rid,
		"provider", common.ProviderOpenAI,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"prompt_len", len(prompt),
	)

	body := chatRequest{
		Model:          c.cfg.Model,
		Temperature:    c.cfg.Temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		serr := llm.CallError(ctx, "openai request failed", err)
		c.log.Error("llm.structure.call_error",
			"req_id", rid, "kind", serr.Kind, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionResult{}, raw, serr
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.structure.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionResult{}, raw, common.NewStructuringError(common.KindTransport, "decode openai response", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.structure.no_choices",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionResult{}, raw, common.NewStructuringError(common.KindTransport, "no choices in openai response", nil)
	}
	if fr := cc.Choices[0].FinishReason; fr == "length" {
		c.log.Warn("llm.structure.truncated", "req_id", rid, "finish_reason", fr)
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

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
