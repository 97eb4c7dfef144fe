package oracle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
	"github.com/MeKo-Tech/stagehand/internal/metrics"
)

// ClientConfig holds HTTP oracle client settings.
type ClientConfig struct {
	// BaseURL is the oracle service root, without a trailing slash.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`

	// APIKey is sent as a bearer token when set.
	APIKey string `mapstructure:"api_key" yaml:"api_key" json:"api_key"`

	// Timeout caps a single round trip. Callers enforce per-call
	// deadlines through context; this is the transport backstop.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// DefaultClientConfig returns default client settings. Inpainting can poll
// for several minutes, so the backstop is generous.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{Timeout: 10 * time.Minute}
}

// Client implements every oracle capability against an HTTP JSON service.
// Images travel as base64 PNG in both directions.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates an HTTP oracle client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

func encodeImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeImage(data string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return img, nil
}

// post sends a JSON request and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, name, path string, payload, out any) error {
	start := time.Now()
	err := c.doPost(ctx, path, payload, out)
	metrics.RecordOracleRequest(name, err, time.Since(start))
	return err
}

func (c *Client) doPost(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrUnavailable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrUnavailable, path, err)
	}
	return nil
}

type imageRequest struct {
	Image string `json:"image"`
	Label string `json:"label,omitempty"`
}

type imageResponse struct {
	Image string `json:"image"`
}

// SegmentAuto implements AutoSegmenter.
func (c *Client) SegmentAuto(ctx context.Context, img image.Image) (image.Image, error) {
	enc, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	var resp imageResponse
	if err := c.post(ctx, "segment_auto", "/v1/segment/auto", imageRequest{Image: enc}, &resp); err != nil {
		return nil, err
	}
	if resp.Image == "" {
		return nil, fmt.Errorf("%w: segment_auto", ErrEmptyResult)
	}
	return decodeImage(resp.Image)
}

// SegmentLabel implements AutoSegmenter.
func (c *Client) SegmentLabel(ctx context.Context, img image.Image, label string) (image.Image, error) {
	enc, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	var resp imageResponse
	if err := c.post(ctx, "segment_label", "/v1/segment/label", imageRequest{Image: enc, Label: label}, &resp); err != nil {
		return nil, err
	}
	if resp.Image == "" {
		return nil, fmt.Errorf("%w: segment_label %q", ErrEmptyResult, label)
	}
	return decodeImage(resp.Image)
}

type pointsRequest struct {
	Image  string   `json:"image"`
	Points [][2]int `json:"points"`
}

// SegmentAtPoints implements PointSegmenter.
func (c *Client) SegmentAtPoints(ctx context.Context, img image.Image, points []image.Point) (image.Image, error) {
	enc, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	pts := make([][2]int, len(points))
	for i, p := range points {
		pts[i] = [2]int{p.X, p.Y}
	}
	var resp imageResponse
	if err := c.post(ctx, "segment_points", "/v1/segment/points", pointsRequest{Image: enc, Points: pts}, &resp); err != nil {
		return nil, err
	}
	if resp.Image == "" {
		return nil, fmt.Errorf("%w: segment_at_points", ErrEmptyResult)
	}
	return decodeImage(resp.Image)
}

type detectRequest struct {
	Image    string   `json:"image"`
	Products []string `json:"products"`
}

type detectResponse struct {
	Detections []Detection `json:"detections"`
}

// DetectBoxes implements BoxDetector.
func (c *Client) DetectBoxes(ctx context.Context, img image.Image, products []catalog.Product) ([]Detection, error) {
	enc, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.ID + ":" + p.Name
	}
	var resp detectResponse
	if err := c.post(ctx, "detect_boxes", "/v1/detect", detectRequest{Image: enc, Products: names}, &resp); err != nil {
		return nil, err
	}
	return resp.Detections, nil
}

type inpaintRequest struct {
	Image          string `json:"image"`
	Mask           string `json:"mask"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

// Inpaint implements Inpainter.
func (c *Client) Inpaint(ctx context.Context, img, maskImg image.Image, prompt, negativePrompt string) (image.Image, error) {
	encImg, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	encMask, err := encodeImage(maskImg)
	if err != nil {
		return nil, err
	}
	var resp imageResponse
	req := inpaintRequest{Image: encImg, Mask: encMask, Prompt: prompt, NegativePrompt: negativePrompt}
	if err := c.post(ctx, "inpaint", "/v1/inpaint", req, &resp); err != nil {
		return nil, err
	}
	if resp.Image == "" {
		return nil, fmt.Errorf("%w: inpaint", ErrEmptyResult)
	}
	return decodeImage(resp.Image)
}

type describeRequest struct {
	ImageURL string `json:"image_url"`
}

type describeResponse struct {
	Description string `json:"description"`
}

// DescribeProduct implements ProductDescriber.
func (c *Client) DescribeProduct(ctx context.Context, imageURL string) (string, error) {
	var resp describeResponse
	if err := c.post(ctx, "describe", "/v1/describe", describeRequest{ImageURL: imageURL}, &resp); err != nil {
		return "", err
	}
	return resp.Description, nil
}
