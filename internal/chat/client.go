package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JackVanta/VantaSDK/internal/models"
)

// ErrRequestFailed is returned for an unsuccessful response that carried no error text.
var ErrRequestFailed = errors.New("API request failed")

// Send answers the request in process. An unsuccessful response is returned as an error
// carrying its error text.
func (s *Service) Send(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	resp, _ := s.Handle(ctx, req)
	return resp, responseError(resp)
}

// RemoteClient sends chat requests to a builder server over HTTP.
type RemoteClient struct {
	endpoint string
	http     *http.Client
}

// NewRemoteClient creates a client for the chat endpoint at endpoint, e.g.
// http://localhost:8080/api/builder/chat.
func NewRemoteClient(endpoint string, timeout time.Duration) *RemoteClient {
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &RemoteClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Send posts the request and decodes the response whatever its status.
func (c *RemoteClient) Send(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("send chat request: %w", err)
	}
	defer httpResp.Body.Close()

	var resp models.ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return models.ChatResponse{}, fmt.Errorf("decode chat response (status %d): %w", httpResp.StatusCode, err)
	}
	return resp, responseError(resp)
}

func responseError(resp models.ChatResponse) error {
	if resp.Success {
		return nil
	}
	if resp.Error != "" {
		return errors.New(resp.Error)
	}
	return ErrRequestFailed
}
