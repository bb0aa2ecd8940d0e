package agent

// Action is one of the closed set of moves the agent can execute.
type Action string

const (
	ActionAnalyzeResume           Action = "analyze_resume"
	ActionSuggestImprovements     Action = "suggest_improvements"
	ActionRecommendJobs           Action = "recommend_jobs"
	ActionPlanSkillDevelopment    Action = "plan_skill_development"
	ActionSuggestNetworking       Action = "suggest_networking"
	ActionTrackProgress           Action = "track_progress"
	ActionAdaptStrategy           Action = "adapt_strategy"
	ActionScoreResume             Action = "score_resume"
	ActionGenerateTailoredAnswers Action = "generate_tailored_answers"
)

// Result bag keys, one fixed key per action type.
const (
	keyResumeAnalysis     = "resume_analysis"
	keyImprovements       = "improvements"
	keyJobRecommendations = "job_recommendations"
	keySkillDevelopment   = "skill_development"
	keyNetworking         = "networking"
	keyProgress           = "progress"
	keyResumeScoring      = "resume_scoring"
	keyTailoredAnswers    = "tailored_answers"
	keyAdaptation         = "strategy_adaptation"
)

// planActions maps the situation, goals and obstacles to a deduplicated
// action set. adapt_strategy joins the set only for users with enough history
// and a recent failure; that guard keeps adaptation from running on a user's
// first few interactions.
func planActions(situation *Situation, goals []Goal, obstacles []string, mem *UserMemory) []Action {
	planned := make([]Action, 0, 8)
	seen := make(map[Action]bool)

	add := func(action Action) {
		if !seen[action] {
			seen[action] = true
			planned = append(planned, action)
		}
	}

	add(ActionAnalyzeResume)
	add(ActionTrackProgress)

	for _, goal := range goals {
		switch goal {
		case GoalSkillDevelopment:
			add(ActionPlanSkillDevelopment)
		case GoalCareerAdvancement:
			add(ActionRecommendJobs)
		case GoalNetworkBuilding:
			add(ActionSuggestNetworking)
		case GoalSalaryImprovement, GoalWorkLifeBalance:
			// No dedicated action yet; these goals only shape the analysis.
		}
	}

	for _, obstacle := range obstacles {
		switch obstacle {
		case ObstacleWeakResume:
			add(ActionSuggestImprovements)
		case ObstacleSkillGaps:
			add(ActionPlanSkillDevelopment)
		}
	}

	if situation.JobURL != "" {
		add(ActionScoreResume)
		if len(situation.Questions) > 0 {
			add(ActionGenerateTailoredAnswers)
		}
	}

	if adaptationDue(mem) {
		add(ActionAdaptStrategy)
	}

	return planned
}

// adaptationDue requires at least three recorded outcomes and a failure among
// the last three of them.
func adaptationDue(mem *UserMemory) bool {
	if len(mem.Outcomes) < 3 {
		return false
	}

	for _, outcome := range lastOutcomes(mem, 3) {
		if !outcome.SuccessIndicators.OverallSuccess {
			return true
		}
	}

	return false
}

func actionNames(actions []Action) []string {
	names := make([]string, 0, len(actions))
	for _, action := range actions {
		names = append(names, string(action))
	}
	return names
}
