package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jyou106/JobAssistantAgent/internal/ai"
	"github.com/jyou106/JobAssistantAgent/internal/logger"
)

//go:embed resume_prompt.md
var resumePrompt string

//go:embed market_prompt.md
var marketPrompt string

//go:embed score_prompt.md
var scorePrompt string

//go:embed tailor_prompt.md
var tailorPrompt string

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Oracle answers the agent's scoring and drafting queries through Gemini.
type Oracle struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewOracle wires a content generator into the ai.Oracle contract.
func NewOracle(generator contentGenerator, log *zap.Logger, maxLogLength int) *Oracle {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Oracle{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

var _ ai.Oracle = (*Oracle)(nil)

// AnalyzeResume asks the model for a standalone review of the resume.
func (o *Oracle) AnalyzeResume(ctx context.Context, resumeText string) (*ai.ResumeInsights, error) {
	message := fmt.Sprintf("Resume:\n%s", resumeText)

	raw, err := o.generate(ctx, "analyze_resume", resumePrompt, message)
	if err != nil {
		return nil, err
	}

	var insights ai.ResumeInsights
	if err := decodeModelJSON(raw, &insights); err != nil {
		return nil, err
	}
	insights.StrengthScore = clampScore(insights.StrengthScore)

	return &insights, nil
}

// AnalyzeMarket asks the model to judge the market around one job posting.
func (o *Oracle) AnalyzeMarket(ctx context.Context, jobText string) (*ai.MarketSnapshot, error) {
	message := fmt.Sprintf("Job description:\n%s", jobText)

	raw, err := o.generate(ctx, "analyze_market", marketPrompt, message)
	if err != nil {
		return nil, err
	}

	var snapshot ai.MarketSnapshot
	if err := decodeModelJSON(raw, &snapshot); err != nil {
		return nil, err
	}
	snapshot.OpportunityScore = clampScore(snapshot.OpportunityScore)

	return &snapshot, nil
}

// ScoreResume compares the resume with a concrete job description.
func (o *Oracle) ScoreResume(ctx context.Context, resumeText, jobText string) (*ai.MatchReport, error) {
	message := fmt.Sprintf("Resume:\n%s\n\nJob Description:\n%s", resumeText, jobText)

	raw, err := o.generate(ctx, "score_resume", scorePrompt, message)
	if err != nil {
		return nil, err
	}

	var report ai.MatchReport
	if err := decodeModelJSON(raw, &report); err != nil {
		return nil, err
	}
	report.MatchScore = clampScore(report.MatchScore)

	return &report, nil
}

// TailorAnswers drafts one answer per application question.
func (o *Oracle) TailorAnswers(ctx context.Context, resumeText, jobText string, questions []string) (*ai.TailoredAnswers, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("at least one question is required")
	}

	var list strings.Builder
	for i, question := range questions {
		fmt.Fprintf(&list, "%d. %s\n", i+1, question)
	}

	message := fmt.Sprintf("Profile:\n%s\n\nJob Description:\n%s\n\nQuestions:\n%s", resumeText, jobText, list.String())

	raw, err := o.generate(ctx, "tailor_answers", tailorPrompt, message)
	if err != nil {
		return nil, err
	}

	var answers ai.TailoredAnswers
	if err := decodeModelJSON(raw, &answers); err != nil {
		return nil, err
	}
	answers.OverallQualityScore = clampScore(answers.OverallQualityScore)

	return &answers, nil
}

func (o *Oracle) generate(ctx context.Context, query, system, message string) (string, error) {
	o.logger.Debug("gemini oracle request",
		zap.String("query", query),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", logger.TruncateForLog(message, o.maxLogLen)),
	)

	raw, err := o.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return "", fmt.Errorf("%s: %w", query, err)
	}

	o.logger.Debug("gemini oracle response",
		zap.String("query", query),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, o.maxLogLen)),
	)

	return raw, nil
}

// decodeModelJSON extracts the JSON object from a model response and decodes
// it into target. Decoding is weakly typed because models routinely return
// numbers as strings.
func decodeModelJSON(raw string, target any) error {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}

	return nil
}

// extractJSON strips markdown code fences and surrounding prose, keeping the
// outermost JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}

	return raw
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
