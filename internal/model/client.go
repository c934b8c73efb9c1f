package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const clientTimeout = 30 * time.Second

// Client calls a remote inference server implementing the model
// contract. Retry policy lives here, outside the pure pipeline core.
type Client struct {
	baseURL string
	name    string
	client  *http.Client
}

// NewClient returns a model backed by a remote inference server.
func NewClient(baseURL, name string) *Client {
	if name == "" {
		name = "WeatherLSTM"
	}
	return &Client{
		baseURL: baseURL,
		name:    name,
		client:  &http.Client{Timeout: clientTimeout},
	}
}

func (c *Client) Name() string { return c.name }

type predictRequest struct {
	Window [][]float64 `json:"window"`
}

type predictResponse struct {
	Prediction []float64 `json:"prediction"`
}

// Predict posts the normalized window to the inference server. Server
// overload responses are retried with exponential backoff; malformed
// requests and transport failures are permanent.
func (c *Client) Predict(window [][]float64) ([]float64, error) {
	payload, err := json.Marshal(predictRequest{Window: window})
	if err != nil {
		return nil, fmt.Errorf("marshal window: %w", err)
	}

	var body []byte
	operation := func() error {
		resp, err := c.client.Post(c.baseURL+"/predict", "application/json", bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("predict: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("predict: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("predict: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read prediction: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	var data predictResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal prediction: %w", err)
	}
	if len(data.Prediction) == 0 {
		return nil, fmt.Errorf("predict: empty prediction from %s", c.baseURL)
	}
	return data.Prediction, nil
}
