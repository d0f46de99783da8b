package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Answer is what the RAG pipeline produces for a question: the generated
// text plus the retrieved context chunks it was grounded on.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Answerer is the boundary to the answer-generation pipeline. The
// backend only orchestrates; retrieval and generation happen elsewhere.
type Answerer interface {
	Answer(ctx context.Context, question string) (*Answer, error)
	Ready(ctx context.Context) error
}

// RAGClient talks to the inference service over plain JSON HTTP.
type RAGClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewRAGClient(baseURL string, logger *zap.Logger) *RAGClient {
	return &RAGClient{
		baseURL: baseURL,
		client: &http.Client{
			// Generation is slow; this bounds a hung upstream, not a
			// normal request.
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

func (c *RAGClient) Answer(ctx context.Context, question string) (*Answer, error) {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("marshal ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call rag service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rag service returned %d", resp.StatusCode)
	}

	var answer Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode rag response: %w", err)
	}

	c.logger.Debug("rag answer generated",
		zap.Int("answer_len", len(answer.Text)),
		zap.Int("sources", len(answer.Sources)),
	)
	return &answer, nil
}

// Ready probes the inference service health endpoint.
func (c *RAGClient) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call rag service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rag service returned %d", resp.StatusCode)
	}
	return nil
}
