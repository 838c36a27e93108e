package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lshigami/ascenso/config"
	"github.com/lshigami/ascenso/internal/dto"
)

func TestBuildFeedbackPrompt(t *testing.T) {
	prompt := buildFeedbackPrompt(FeedbackInput{
		ExamTitle:    "Evaluación docente 2026",
		TrackName:    "Conjunta",
		ApprovalMode: "joint",
		Result: dto.ResultView{
			TotalScore: 13.5,
			IsApproved: false,
			PerSubTest: []dto.SubTestResultDTO{
				{SubTestID: 1, SubTestName: "Pedagogía", ScoreObtained: 8, MinimumRequired: floatPtr(10), CorrectCount: 4, TotalQuestions: 10},
				{SubTestID: 2, ScoreObtained: 5.5, IsApproved: true, CorrectCount: 5, TotalQuestions: 5},
			},
		},
	})

	for _, want := range []string{
		"Exam: Evaluación docente 2026",
		"Track: Conjunta (joint approval)",
		"Total score: 13.50",
		"Approved: false",
		"- Pedagogía: 8.00 points, 4/10 correct, minimum 10.00, approved: false",
		"- Section 2: 5.50 points, 5/5 correct, approved: true",
		"Feedback:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\n%s", want, prompt)
		}
	}
}

func TestParseFeedback(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"Feedback:\nGood work on pedagogy.", "Good work on pedagogy."},
		{"Some preamble\nFeedback: Keep going.\n", "Keep going."},
		{"  No label at all  ", "No label at all"},
		{"Feedback:", ""},
	}
	for _, tt := range tests {
		if got := parseFeedback(tt.raw); got != tt.want {
			t.Errorf("parseFeedback(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFeedbackGeneratorDisabledWithoutKey(t *testing.T) {
	gen, err := NewFeedbackGenerator(&config.Config{})
	if err != nil {
		t.Fatalf("NewFeedbackGenerator: %v", err)
	}
	if gen.Enabled() {
		t.Fatalf("generator enabled without an API key")
	}
	if _, err := gen.Generate(context.Background(), FeedbackInput{}); err == nil {
		t.Fatalf("Generate on a disabled generator should fail")
	}
}
