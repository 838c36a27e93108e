package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/ascenso/config"
	"github.com/lshigami/ascenso/internal/dto"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FeedbackInput describes a finished attempt for the narrative generator.
type FeedbackInput struct {
	ExamTitle    string
	TrackName    string
	ApprovalMode string
	Result       dto.ResultView
}

// FeedbackGenerator writes a short narrative about a submitted result. It
// never changes scores; a disabled generator is skipped entirely.
type FeedbackGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, in FeedbackInput) (string, error)
}

type geminiFeedbackGenerator struct {
	client *genai.GenerativeModel
}

func NewFeedbackGenerator(cfg *config.Config) (FeedbackGenerator, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Result feedback is disabled.")
		return &geminiFeedbackGenerator{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiFeedbackGenerator{client: client.GenerativeModel(cfg.GeminiModel)}, nil
}

func (g *geminiFeedbackGenerator) Enabled() bool {
	return g.client != nil
}

func (g *geminiFeedbackGenerator) Generate(ctx context.Context, in FeedbackInput) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	resp, err := g.client.GenerateContent(ctx, genai.Text(buildFeedbackPrompt(in)))
	if err != nil {
		log.Error().Err(err).Uint("attemptID", in.Result.AttemptID).Msg("Gemini API error during feedback generation")
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	feedback := parseFeedback(text.String())
	if feedback == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return feedback, nil
}

func buildFeedbackPrompt(in FeedbackInput) string {
	var b strings.Builder
	b.WriteString("You are an advisor for teachers going through a professional promotion exam.\n")
	b.WriteString("Write brief, encouraging and concrete feedback (at most 120 words) about the result below.\n")
	b.WriteString("Mention which sections need work and which were strong. Do not restate the numbers as a table.\n\n")

	fmt.Fprintf(&b, "Exam: %s\n", in.ExamTitle)
	fmt.Fprintf(&b, "Track: %s (%s approval)\n", in.TrackName, in.ApprovalMode)
	fmt.Fprintf(&b, "Total score: %.2f\n", in.Result.TotalScore)
	fmt.Fprintf(&b, "Approved: %t\n", in.Result.IsApproved)
	b.WriteString("Sections:\n")
	for _, st := range in.Result.PerSubTest {
		name := st.SubTestName
		if name == "" {
			name = fmt.Sprintf("Section %d", st.SubTestID)
		}
		fmt.Fprintf(&b, "- %s: %.2f points, %d/%d correct", name, st.ScoreObtained, st.CorrectCount, st.TotalQuestions)
		if st.MinimumRequired != nil {
			fmt.Fprintf(&b, ", minimum %.2f", *st.MinimumRequired)
		}
		fmt.Fprintf(&b, ", approved: %t\n", st.IsApproved)
	}
	b.WriteString("\nFormat your response strictly as:\nFeedback:\n[Your feedback here]\n")
	return b.String()
}

// parseFeedback strips the "Feedback:" label the prompt asks for, tolerating
// models that omit it.
func parseFeedback(raw string) string {
	const prefix = "Feedback:"
	if i := strings.Index(raw, prefix); i != -1 {
		raw = raw[i+len(prefix):]
	}
	return strings.TrimSpace(raw)
}
