package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/archway-discovery/service-routes/internal/domain/route"
)

// Params describe the route the caller wants points for.
type Params struct {
	City               string
	Country            string
	PointCount         int
	Transport          route.TransportProfile
	Difficulty         route.Difficulty
	Style              string
	MaxDurationMinutes int
	RadiusKm           float64
}

// PointSuggester produces candidate stop points for a generated route.
type PointSuggester interface {
	SuggestPoints(ctx context.Context, params Params) ([]route.Waypoint, error)
}

// Client calls an OpenAI-compatible chat-completions endpoint and parses the
// reply as a JSON list of landmark points.
type Client struct {
	url    string
	model  string
	apiKey string
	hc     *http.Client
	logger *zap.Logger
}

// NewClient creates a suggestion client. If httpClient is nil a default with
// a generous timeout is used.
func NewClient(url, model, apiKey string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{url: url, model: model, apiKey: apiKey, hc: httpClient, logger: logger}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// suggestedPoint is the shape the model is asked to reply with.
type suggestedPoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// SuggestPoints asks the model for candidate landmarks and returns them as
// ordered waypoints.
func (c *Client) SuggestPoints(ctx context.Context, params Params) ([]route.Waypoint, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(params)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("suggest marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("suggest new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("suggest read response: %w", err)
	}
	c.logger.Debug("suggestion request complete",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("suggest request failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("suggest decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("suggest response had no choices")
	}

	points, err := parsePoints(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	waypoints := make([]route.Waypoint, len(points))
	for i, p := range points {
		waypoints[i] = route.Waypoint{Lat: p.Lat, Lng: p.Lng, Title: p.Name}
	}
	return waypoints, nil
}

const systemPrompt = "You are a guide for notable architecture. Reply with a JSON array only, " +
	`each element {"name": string, "lat": number, "lng": number}, no prose.`

func buildPrompt(params Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d architectural landmarks in %s", params.PointCount, params.City)
	if params.Country != "" {
		fmt.Fprintf(&b, ", %s", params.Country)
	}
	fmt.Fprintf(&b, " for a %s route", params.Transport)
	if params.Difficulty != "" {
		fmt.Fprintf(&b, " of %s difficulty", params.Difficulty)
	}
	if params.Style != "" {
		fmt.Fprintf(&b, ", focused on %s architecture", params.Style)
	}
	if params.MaxDurationMinutes > 0 {
		fmt.Fprintf(&b, ", doable within %d minutes", params.MaxDurationMinutes)
	}
	if params.RadiusKm > 0 {
		fmt.Fprintf(&b, ", all within a %.1f km radius", params.RadiusKm)
	}
	b.WriteString(". Order them as a sensible walking sequence.")
	return b.String()
}

// parsePoints decodes the model reply, tolerating markdown code fences.
func parsePoints(content string) ([]suggestedPoint, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var points []suggestedPoint
	if err := json.Unmarshal([]byte(content), &points); err != nil {
		return nil, fmt.Errorf("suggest parse points: %w", err)
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("suggest returned %d points, need at least 2", len(points))
	}
	return points, nil
}
