package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jyou106/JobAssistantAgent/internal/ai"
)

// CareerStage is the coarse trajectory bucket derived from recent outcomes.
type CareerStage string

const (
	StageEarlyCareer    CareerStage = "early_career"
	StageMidCareer      CareerStage = "mid_career"
	StageAdvancedCareer CareerStage = "advanced_career"
)

// Focus areas recommended by the analyzer.
const (
	FocusSkillDevelopment    = "skill_development"
	FocusCareerAdvancement   = "career_advancement"
	FocusBalancedImprovement = "balanced_improvement"
)

// minJobDescriptionLength is the shortest fetched job description the agent
// accepts as usable.
const minJobDescriptionLength = 20

// Situation is the ephemeral snapshot driving one run. It is rebuilt from
// scratch on every workflow invocation and never persisted as-is.
type Situation struct {
	ResumeStrength    float64     `json:"resume_strength"`
	MarketOpportunity float64     `json:"market_opportunity"`
	CareerStage       CareerStage `json:"career_stage"`
	SkillGaps         []string    `json:"skill_gaps"`
	Opportunities     []string    `json:"opportunities"`
	Threats           []string    `json:"threats"`
	RecommendedFocus  string      `json:"recommended_focus"`
	JobURL            string      `json:"job_url,omitempty"`
	Questions         []string    `json:"questions,omitempty"`

	// Error marks a failed analysis. All other fields hold zero values then;
	// downstream goal and obstacle derivation works off those zero values.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the analysis could not produce a usable snapshot.
func (s *Situation) Failed() bool {
	return s.Error != ""
}

// analyzeSituation builds the situation snapshot for one run. Collaborator
// failures inside the sub-analyses degrade the affected scores to zero and
// never abort the run.
func (a *Agent) analyzeSituation(ctx context.Context, resumeText, jobURL string, mem *UserMemory) *Situation {
	if strings.TrimSpace(resumeText) == "" {
		return &Situation{
			CareerStage: StageEarlyCareer,
			Error:       "resume text is required",
		}
	}

	insights := a.analyzeResume(ctx, resumeText, jobURL)

	var market ai.MarketSnapshot
	if jobURL != "" {
		market = a.analyzeMarket(ctx, jobURL)
	}

	stage := careerStage(mem)

	return &Situation{
		ResumeStrength:    insights.StrengthScore,
		MarketOpportunity: market.OpportunityScore,
		CareerStage:       stage,
		SkillGaps:         insights.SkillGaps,
		Opportunities:     detectOpportunities(insights, market),
		Threats:           detectThreats(insights, market),
		RecommendedFocus:  determineFocus(insights, market),
	}
}

// analyzeResume asks the oracle for a standalone resume review. When a job
// URL is present it additionally runs the match scoring; a scoring failure is
// logged and swallowed, the review stands on its own.
func (a *Agent) analyzeResume(ctx context.Context, resumeText, jobURL string) ai.ResumeInsights {
	insights, err := a.oracle.AnalyzeResume(ctx, resumeText)
	if err != nil {
		a.logger.Error("resume analysis failed", zap.Error(err))
		return ai.ResumeInsights{}
	}

	if jobURL != "" {
		report, err := a.scoreAgainstPosting(ctx, resumeText, jobURL)
		if err != nil {
			a.logger.Error("job matching failed", zap.String("job_url", jobURL), zap.Error(err))
		} else {
			a.logger.Debug("job match during analysis",
				zap.Float64("match_score", report.MatchScore),
				zap.Int("insights", len(report.Insights)),
			)
		}
	}

	return *insights
}

// analyzeMarket fetches the posting and asks the oracle for a market read.
// Failures degrade to a zero snapshot.
func (a *Agent) analyzeMarket(ctx context.Context, jobURL string) ai.MarketSnapshot {
	jobText, err := a.fetchJobDescription(ctx, jobURL)
	if err != nil {
		a.logger.Error("market analysis failed", zap.String("job_url", jobURL), zap.Error(err))
		return ai.MarketSnapshot{}
	}

	snapshot, err := a.oracle.AnalyzeMarket(ctx, jobText)
	if err != nil {
		a.logger.Error("market analysis failed", zap.String("job_url", jobURL), zap.Error(err))
		return ai.MarketSnapshot{}
	}

	return *snapshot
}

// careerStage buckets the user by success rate over the last five outcomes.
// A user without history is early career by definition.
func careerStage(mem *UserMemory) CareerStage {
	recent := lastOutcomes(mem, 5)
	if len(recent) == 0 {
		return StageEarlyCareer
	}

	switch rate := successRate(recent); {
	case rate > 0.8:
		return StageAdvancedCareer
	case rate > 0.5:
		return StageMidCareer
	default:
		return StageEarlyCareer
	}
}

// detectOpportunities and detectThreats run independent checks; an item can
// show up in neither, one, or both lists.
func detectOpportunities(insights ai.ResumeInsights, market ai.MarketSnapshot) []string {
	opportunities := make([]string, 0, 3)

	if insights.StrengthScore > 0.7 {
		opportunities = append(opportunities, "strong_resume")
	}
	if market.OpportunityScore > 0.8 {
		opportunities = append(opportunities, "high_market_opportunity")
	}
	if len(insights.SkillGaps) > 0 {
		opportunities = append(opportunities, "skill_development_potential")
	}

	return opportunities
}

func detectThreats(insights ai.ResumeInsights, market ai.MarketSnapshot) []string {
	threats := make([]string, 0, 3)

	if insights.StrengthScore < 0.6 {
		threats = append(threats, "weak_resume")
	}
	if market.OpportunityScore < 0.5 {
		threats = append(threats, "limited_market_opportunity")
	}
	if len(insights.SkillGaps) > 0 {
		threats = append(threats, "skill_gaps")
	}

	return threats
}

func determineFocus(insights ai.ResumeInsights, market ai.MarketSnapshot) string {
	switch {
	case insights.StrengthScore < 0.6:
		return FocusSkillDevelopment
	case market.OpportunityScore > 0.8:
		return FocusCareerAdvancement
	default:
		return FocusBalancedImprovement
	}
}
