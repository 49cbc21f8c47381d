package sentiment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/attune-labs/attune-agent/internal/config"
)

const scorePrompt = "Rate the emotional sentiment of the following message on a scale " +
	"from -1.0 (very negative) to 1.0 (very positive). Reply with only the number.\n\nMessage: %s"

// VertexAnalyzer scores text with a Gemini model on Vertex AI.
type VertexAnalyzer struct {
	client    *genai.Client
	modelName string
}

func NewVertexAnalyzer(ctx context.Context, cfg *config.Config) (*VertexAnalyzer, error) {
	if cfg.GCPProjectID == "" || cfg.GCPLocation == "" {
		return nil, fmt.Errorf("ATTUNE_GCP_PROJECT and ATTUNE_GCP_LOCATION must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.GCPProjectID,
		Location: cfg.GCPLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexAnalyzer{client: client, modelName: cfg.ModelName}, nil
}

// Analyze implements domain.SentimentAnalyzer.
func (v *VertexAnalyzer) Analyze(ctx context.Context, text string) (float64, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(scorePrompt, text), genai.RoleUser),
	}

	temp := float32(0.0)
	maxTokens := int32(16)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: maxTokens,
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return 0, fmt.Errorf("vertex sentiment: %w", err)
	}

	raw := strings.TrimSpace(res.Text())
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("vertex sentiment: unparseable score %q", raw)
	}

	return clamp(score), nil
}

func clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
