package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ActionError fills a result slot when the action's collaborator failed. The
// failure stays inside its slot; the run carries on.
type ActionError struct {
	Error string `json:"error"`
}

// ResumeAnalysisResult is the situation-derived resume review.
type ResumeAnalysisResult struct {
	StrengthScore    float64  `json:"strength_score"`
	SkillGaps        []string `json:"skill_gaps"`
	Opportunities    []string `json:"opportunities"`
	Threats          []string `json:"threats"`
	RecommendedFocus string   `json:"recommended_focus"`
}

// Improvement is one suggested fix with an expected payoff.
type Improvement struct {
	Type           string  `json:"type"`
	Priority       string  `json:"priority"`
	Suggestion     string  `json:"suggestion"`
	ExpectedImpact float64 `json:"expected_impact"`
	Timeline       string  `json:"timeline"`
}

// JobRecommendation is a suggested opening.
type JobRecommendation struct {
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	MatchScore float64 `json:"match_score"`
	Reason     string  `json:"reason"`
	Priority   string  `json:"priority"`
}

// LearningResource pairs a skill with concrete ways to build it.
type LearningResource struct {
	Skill     string   `json:"skill"`
	Resources []string `json:"resources"`
	Timeline  string   `json:"timeline"`
}

// SkillPlan lays out a development plan for the top skill gaps.
type SkillPlan struct {
	Timeline          string             `json:"timeline"`
	SkillsToDevelop   []string           `json:"skills_to_develop"`
	LearningResources []LearningResource `json:"learning_resources"`
	Milestones        []string           `json:"milestones"`
	ExpectedOutcomes  []string           `json:"expected_outcomes"`
}

// NetworkingSuggestion is one venue worth joining.
type NetworkingSuggestion struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

// ProgressReport tracks how the user is doing across runs.
type ProgressReport struct {
	Status             string  `json:"status,omitempty"`
	Progress           float64 `json:"progress"`
	OverallProgress    float64 `json:"overall_progress,omitempty"`
	RecentImprovements int     `json:"recent_improvements,omitempty"`
	GoalsAchieved      int     `json:"goals_achieved,omitempty"`
	NextMilestone      string  `json:"next_milestone,omitempty"`
}

// ScoringResult is the detailed resume-vs-posting match.
type ScoringResult struct {
	MatchScore    float64  `json:"match_score"`
	Insights      []string `json:"insights"`
	ScoringMethod string   `json:"scoring_method"`
	Confidence    string   `json:"confidence"`
}

// TailoredAnswersResult carries drafted application answers.
type TailoredAnswersResult struct {
	Answers             []answerEntry `json:"answers"`
	OverallQualityScore float64       `json:"overall_quality_score"`
	GenerationMethod    string        `json:"generation_method"`
	Confidence          string        `json:"confidence"`
}

type answerEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AdaptationMarker records that the adaptation phase ran this turn.
type AdaptationMarker struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// executeActions runs the planned actions in two phases: every independent
// action first, strategy adaptation strictly last. Each handler isolates its
// own failures into the result slot.
func (a *Agent) executeActions(ctx context.Context, actions []Action, situation *Situation, mem *UserMemory) map[string]any {
	results := make(map[string]any, len(actions))

	adapt := false
	for _, action := range actions {
		if action == ActionAdaptStrategy {
			adapt = true
			continue
		}

		key, value := a.executeAction(ctx, action, situation, mem)

		a.logger.Debug("action executed",
			zap.String("action", string(action)),
			zap.String("result_key", key),
		)

		results[key] = value
	}

	if adapt {
		a.adaptStrategy(mem)
		results[keyAdaptation] = AdaptationMarker{
			Status:    "adapted",
			Timestamp: a.now().Format(time.RFC3339),
		}
	}

	return results
}

// executeAction dispatches a single non-adaptation action to its handler and
// returns the fixed result key plus the payload.
func (a *Agent) executeAction(ctx context.Context, action Action, situation *Situation, mem *UserMemory) (string, any) {
	switch action {
	case ActionAnalyzeResume:
		return keyResumeAnalysis, resumeAnalysis(situation)
	case ActionSuggestImprovements:
		return keyImprovements, suggestImprovements(situation)
	case ActionRecommendJobs:
		return keyJobRecommendations, recommendJobs()
	case ActionPlanSkillDevelopment:
		return keySkillDevelopment, planSkillDevelopment(situation)
	case ActionSuggestNetworking:
		return keyNetworking, suggestNetworking()
	case ActionTrackProgress:
		return keyProgress, trackProgress(mem)
	case ActionScoreResume:
		return keyResumeScoring, a.scoreResume(ctx, situation, mem)
	case ActionGenerateTailoredAnswers:
		return keyTailoredAnswers, a.generateTailoredAnswers(ctx, situation, mem)
	case ActionAdaptStrategy:
		// Handled by the second executor phase.
		return keyAdaptation, nil
	default:
		return string(action), ActionError{Error: fmt.Sprintf("unknown action: %s", action)}
	}
}

// resumeAnalysis passes the situation-level review through as a result slot.
func resumeAnalysis(situation *Situation) ResumeAnalysisResult {
	focus := situation.RecommendedFocus
	if focus == "" {
		focus = FocusBalancedImprovement
	}

	return ResumeAnalysisResult{
		StrengthScore:    situation.ResumeStrength,
		SkillGaps:        situation.SkillGaps,
		Opportunities:    situation.Opportunities,
		Threats:          situation.Threats,
		RecommendedFocus: focus,
	}
}

func suggestImprovements(situation *Situation) []Improvement {
	improvements := make([]Improvement, 0, 4)

	if situation.ResumeStrength < 0.7 {
		improvements = append(improvements, Improvement{
			Type:           "resume",
			Priority:       "high",
			Suggestion:     "Add more quantifiable achievements",
			ExpectedImpact: 0.8,
			Timeline:       "1-2 weeks",
		})
	}

	for _, skill := range topSkillGaps(situation, 3) {
		improvements = append(improvements, Improvement{
			Type:           "skill_development",
			Priority:       "medium",
			Suggestion:     fmt.Sprintf("Develop expertise in %s", skill),
			ExpectedImpact: 0.7,
			Timeline:       "2-3 months",
		})
	}

	return improvements
}

// recommendJobs returns placeholder recommendations. A job-board integration
// would replace this with live search results.
func recommendJobs() []JobRecommendation {
	return []JobRecommendation{
		{
			Title:      "Senior ML Engineer",
			Company:    "Tech Company",
			MatchScore: 0.85,
			Reason:     "Strong ML background matches requirements",
			Priority:   "high",
		},
		{
			Title:      "Data Scientist",
			Company:    "AI Startup",
			MatchScore: 0.78,
			Reason:     "Research background valuable for startup",
			Priority:   "medium",
		},
	}
}

func planSkillDevelopment(situation *Situation) SkillPlan {
	skills := topSkillGaps(situation, 3)

	plan := SkillPlan{
		Timeline:          "3-6 months",
		SkillsToDevelop:   skills,
		LearningResources: make([]LearningResource, 0, len(skills)),
		Milestones:        []string{},
		ExpectedOutcomes:  []string{},
	}

	for _, skill := range skills {
		plan.LearningResources = append(plan.LearningResources, LearningResource{
			Skill: skill,
			Resources: []string{
				fmt.Sprintf("Online course for %s", skill),
				fmt.Sprintf("Project in %s", skill),
			},
			Timeline: "2-3 months",
		})
	}

	return plan
}

func suggestNetworking() []NetworkingSuggestion {
	return []NetworkingSuggestion{
		{
			Type:     "professional_group",
			Name:     "ML Engineers Network",
			Reason:   "Aligns with career goals",
			Priority: "high",
		},
		{
			Type:     "conference",
			Name:     "AI/ML Conference",
			Reason:   "Stay updated with industry trends",
			Priority: "medium",
		},
	}
}

func trackProgress(mem *UserMemory) ProgressReport {
	if len(mem.Outcomes) == 0 {
		return ProgressReport{Status: "new_user", Progress: 0}
	}

	recent := lastOutcomes(mem, 5)

	improvements := 0
	goalsAchieved := 0
	for _, outcome := range recent {
		if outcome.SuccessIndicators.Improvement {
			improvements++
		}
		if outcome.SuccessIndicators.GoalAchieved {
			goalsAchieved++
		}
	}

	return ProgressReport{
		OverallProgress:    successRate(recent),
		RecentImprovements: improvements,
		GoalsAchieved:      goalsAchieved,
		NextMilestone:      nextMilestone(mem),
	}
}

func nextMilestone(mem *UserMemory) string {
	if len(mem.Outcomes) == 0 {
		return "complete_initial_assessment"
	}

	recent := lastOutcomes(mem, 5)

	if successRate(recent) < 0.5 {
		return "improve_basic_skills"
	}

	goalsAchieved := 0
	for _, outcome := range recent {
		if outcome.SuccessIndicators.GoalAchieved {
			goalsAchieved++
		}
	}
	if goalsAchieved < 2 {
		return "achieve_career_goals"
	}

	return "advance_to_next_level"
}

// scoreResume runs the detailed resume-vs-posting scoring through the oracle.
func (a *Agent) scoreResume(ctx context.Context, situation *Situation, mem *UserMemory) any {
	if situation.JobURL == "" {
		return ActionError{Error: "no job URL provided for scoring"}
	}

	report, err := a.scoreAgainstPosting(ctx, latestResumeText(mem), situation.JobURL)
	if err != nil {
		a.logger.Error("resume scoring failed", zap.String("job_url", situation.JobURL), zap.Error(err))
		return ActionError{Error: err.Error()}
	}

	return ScoringResult{
		MatchScore:    report.MatchScore,
		Insights:      report.Insights,
		ScoringMethod: "ATS-style",
		Confidence:    "high",
	}
}

// generateTailoredAnswers drafts an answer per application question.
func (a *Agent) generateTailoredAnswers(ctx context.Context, situation *Situation, mem *UserMemory) any {
	if situation.JobURL == "" || len(situation.Questions) == 0 {
		return ActionError{Error: "missing job URL or questions for tailored answers"}
	}

	jobText, err := a.fetchJobDescription(ctx, situation.JobURL)
	if err != nil {
		a.logger.Error("tailored answer generation failed", zap.String("job_url", situation.JobURL), zap.Error(err))
		return ActionError{Error: err.Error()}
	}

	answers, err := a.oracle.TailorAnswers(ctx, latestResumeText(mem), jobText, situation.Questions)
	if err != nil {
		a.logger.Error("tailored answer generation failed", zap.String("job_url", situation.JobURL), zap.Error(err))
		return ActionError{Error: err.Error()}
	}

	result := TailoredAnswersResult{
		Answers:             make([]answerEntry, 0, len(answers.Answers)),
		OverallQualityScore: answers.OverallQualityScore,
		GenerationMethod:    "AI-tailored",
		Confidence:          "high",
	}
	for _, answer := range answers.Answers {
		result.Answers = append(result.Answers, answerEntry{
			Question: answer.Question,
			Answer:   answer.Answer,
		})
	}

	return result
}

func topSkillGaps(situation *Situation, n int) []string {
	gaps := situation.SkillGaps
	if len(gaps) > n {
		gaps = gaps[:n]
	}
	return gaps
}

func latestResumeText(mem *UserMemory) string {
	if len(mem.Interactions) == 0 {
		return ""
	}
	return mem.Interactions[len(mem.Interactions)-1].ResumeText
}
