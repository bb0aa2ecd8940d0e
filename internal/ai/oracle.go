package ai

import "context"

// ResumeInsights is the structured verdict of a standalone resume review.
type ResumeInsights struct {
	StrengthScore       float64  `mapstructure:"strength_score" json:"strength_score"`
	SkillGaps           []string `mapstructure:"skill_gaps" json:"skill_gaps"`
	Strengths           []string `mapstructure:"strengths" json:"strengths"`
	ExperienceLevel     string   `mapstructure:"experience_level" json:"experience_level"`
	IndustryFit         string   `mapstructure:"industry_fit" json:"industry_fit"`
	ImprovementPriority string   `mapstructure:"improvement_priority" json:"improvement_priority"`
}

// MarketSnapshot summarizes how attractive the market around a single job
// posting looks.
type MarketSnapshot struct {
	OpportunityScore float64 `mapstructure:"opportunity_score" json:"opportunity_score"`
	MarketDemand     string  `mapstructure:"market_demand" json:"market_demand"`
	SalaryPotential  string  `mapstructure:"salary_potential" json:"salary_potential"`
	GrowthPotential  string  `mapstructure:"growth_potential" json:"growth_potential"`
	CompetitiveLevel string  `mapstructure:"competitive_level" json:"competitive_level"`
}

// MatchReport scores a resume against a concrete job description.
type MatchReport struct {
	MatchScore float64  `mapstructure:"match_score" json:"match_score"`
	Insights   []string `mapstructure:"insights" json:"insights"`
}

// Answer is a drafted response to one application question.
type Answer struct {
	Question string `mapstructure:"question" json:"question"`
	Answer   string `mapstructure:"answer" json:"answer"`
}

// TailoredAnswers carries drafted answers for a set of application questions.
type TailoredAnswers struct {
	Answers             []Answer `mapstructure:"answers" json:"answers"`
	OverallQualityScore float64  `mapstructure:"overall_quality_score" json:"overall_quality_score"`
}

// Oracle is the LLM-backed collaborator the agent consults. Implementations
// return an error when the model is unreachable or its output cannot be
// parsed; they never retry at the semantic level.
type Oracle interface {
	AnalyzeResume(ctx context.Context, resumeText string) (*ResumeInsights, error)
	AnalyzeMarket(ctx context.Context, jobText string) (*MarketSnapshot, error)
	ScoreResume(ctx context.Context, resumeText, jobText string) (*MatchReport, error)
	TailorAnswers(ctx context.Context, resumeText, jobText string, questions []string) (*TailoredAnswers, error)
}
