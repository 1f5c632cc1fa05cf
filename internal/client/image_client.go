package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ImageClient handles communication with the Image Association Service
type ImageClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewImageClient creates a new image service client
func NewImageClient(baseURL, serviceKey string, logger *zap.Logger) *ImageClient {
	return &ImageClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// PersistImagesForReport durably associates uploaded photo keys with a
// report and returns the stored references
func (c *ImageClient) PersistImagesForReport(ctx context.Context, keys []string, reportID int) ([]string, error) {
	payload := struct {
		Keys     []string `json:"keys"`
		ReportID int      `json:"report_id"`
	}{
		Keys:     keys,
		ReportID: reportID,
	}

	var response struct {
		References []string `json:"references"`
	}

	url := fmt.Sprintf("%s/api/v1/images/persist", c.baseURL)
	if err := c.post(ctx, url, payload, &response); err != nil {
		return nil, err
	}

	return response.References, nil
}

// GetMultipleImages resolves stored references to retrievable URLs
func (c *ImageClient) GetMultipleImages(ctx context.Context, references []string) ([]string, error) {
	if len(references) == 0 {
		return []string{}, nil
	}

	payload := struct {
		References []string `json:"references"`
	}{
		References: references,
	}

	var response struct {
		URLs []string `json:"urls"`
	}

	url := fmt.Sprintf("%s/api/v1/images/resolve", c.baseURL)
	if err := c.post(ctx, url, payload, &response); err != nil {
		return nil, err
	}

	return response.URLs, nil
}

// DeleteImages removes the stored images behind the given references
func (c *ImageClient) DeleteImages(ctx context.Context, references []string) error {
	if len(references) == 0 {
		return nil
	}

	payload := struct {
		References []string `json:"references"`
	}{
		References: references,
	}

	url := fmt.Sprintf("%s/api/v1/images/delete", c.baseURL)
	return c.post(ctx, url, payload, nil)
}

// post sends a JSON request to the image service and decodes the response
// into out when it is non-nil
func (c *ImageClient) post(ctx context.Context, url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Key", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to send request to image service", zap.Error(err), zap.String("url", url))
		return fmt.Errorf("failed to send request to image service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("image service returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("url", url))
		return fmt.Errorf("image service returned status code %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("failed to decode image service response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
