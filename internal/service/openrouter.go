package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
)

// ChatMessage is one role/content pair of the payload sent to the model
// endpoint. The ordered []ChatMessage list is the wire contract between the
// context assembler and the model client.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelClient invokes the hosted model endpoint: payload in, assistant text
// out. Failures are always *domain.ProviderError.
type ModelClient interface {
	Chat(ctx context.Context, messages []ChatMessage, model string, temperature *float64) (string, error)
}

type OpenRouterService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *ModelsCache
	maxTokens  int
	stop       []string
}

func NewOpenRouterService(apiKey string, maxTokens int, stop []string) *OpenRouterService {
	return &OpenRouterService{
		apiKey:     apiKey,
		baseURL:    "https://openrouter.ai/api/v1",
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		cache:      NewModelsCache(config.ModelCacheDuration),
		maxTokens:  maxTokens,
		stop:       stop,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Chat performs one bounded model invocation. No retries: transient failures
// surface as classified ProviderErrors and the caller decides what to show.
func (s *OpenRouterService) Chat(ctx context.Context, messages []ChatMessage, model string, temperature *float64) (string, error) {
	chatReq := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   s.maxTokens,
		Stop:        s.stop,
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return "", &domain.ProviderError{Kind: domain.ProviderOther, Message: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &domain.ProviderError{Kind: domain.ProviderOther, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", &domain.ProviderError{Kind: domain.ProviderTimeout, Message: "model invocation timed out"}
		}
		return "", &domain.ProviderError{Kind: domain.ProviderUnavailable, Message: fmt.Sprintf("chat request: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.ProviderError{Kind: domain.ProviderOther, Message: fmt.Sprintf("read response: %v", err)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil && resp.StatusCode == http.StatusOK {
		return "", &domain.ProviderError{Kind: domain.ProviderOther, Message: fmt.Sprintf("parse response: %v", err)}
	}

	apiMessage := ""
	if chatResp.Error != nil {
		apiMessage = chatResp.Error.Message
	}

	if pe := classify(resp.StatusCode, apiMessage); pe != nil {
		return "", pe
	}

	if len(chatResp.Choices) == 0 {
		return "", &domain.ProviderError{Kind: domain.ProviderOther, Message: "model returned no choices"}
	}
	return chatResp.Choices[0].Message.Content, nil
}

// classify maps an HTTP status and provider error message to a ProviderError,
// or nil when the response is usable. Decommissioned models are recognized
// separately so the user gets an actionable notice instead of a raw error.
func classify(status int, apiMessage string) *domain.ProviderError {
	lower := strings.ToLower(apiMessage)
	decommissioned := strings.Contains(lower, "decommission") ||
		strings.Contains(lower, "deprecat") ||
		strings.Contains(lower, "no longer")

	switch {
	case decommissioned:
		return &domain.ProviderError{Kind: domain.ProviderDecommissioned, Message: apiMessage}
	case status == http.StatusTooManyRequests:
		return &domain.ProviderError{Kind: domain.ProviderRateLimited, Message: "rate limited (429)"}
	case status == http.StatusServiceUnavailable || status == http.StatusBadGateway:
		return &domain.ProviderError{Kind: domain.ProviderUnavailable, Message: fmt.Sprintf("service unavailable (%d)", status)}
	case status == http.StatusNotFound || status == http.StatusGone:
		return &domain.ProviderError{Kind: domain.ProviderDecommissioned, Message: apiMessage}
	case status != http.StatusOK:
		msg := apiMessage
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", status)
		}
		return &domain.ProviderError{Kind: domain.ProviderOther, Message: msg}
	}
	return nil
}

// ListModels fetches the provider model catalog, cached for the configured
// TTL.
func (s *OpenRouterService) ListModels(ctx context.Context) ([]domain.AIModel, error) {
	if cached := s.cache.Get(); cached != nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Description   string `json:"description"`
			ContextLength int    `json:"context_length"`
			TopProvider   struct {
				ContextLength int `json:"context_length"`
			} `json:"top_provider"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	models := make([]domain.AIModel, 0, len(result.Data))
	for _, m := range result.Data {
		ctxLen := m.ContextLength
		if m.TopProvider.ContextLength > 0 {
			ctxLen = m.TopProvider.ContextLength
		}
		models = append(models, domain.AIModel{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			ContextLength: ctxLen,
		})
	}

	s.cache.Set(models)
	return models, nil
}

// GetModel resolves one model id from the catalog.
func (s *OpenRouterService) GetModel(ctx context.Context, modelID string) (*domain.AIModel, error) {
	models, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		if m.ID == modelID {
			return &m, nil
		}
	}
	return nil, domain.ErrModelNotFound
}
