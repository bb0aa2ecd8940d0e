package agent

// organizeResults regroups the raw result bag into the presentation shape
// handed back to the caller. It is pure relabeling: keys absent from the bag
// are omitted, never padded with placeholders.
func organizeResults(results map[string]any) map[string]any {
	organized := make(map[string]any, 4)

	matching := make(map[string]any, 3)
	if analysis, ok := results[keyResumeAnalysis]; ok {
		matching["resume_analysis"] = analysis
	}
	if scoring, ok := results[keyResumeScoring]; ok {
		matching["job_matching"] = scoring
	}
	if answers, ok := results[keyTailoredAnswers]; ok {
		matching["tailored_answers"] = answers
	}
	if len(matching) > 0 {
		organized["resume_and_job_matching"] = matching
	}

	if plan, ok := results[keySkillDevelopment]; ok {
		organized["skill_development"] = plan
	}

	career := make(map[string]any, 2)
	if networking, ok := results[keyNetworking]; ok {
		career["networking"] = networking
	}
	if progress, ok := results[keyProgress]; ok {
		career["progress"] = progress
	}
	if len(career) > 0 {
		organized["career_development"] = career
	}

	if adaptation, ok := results[keyAdaptation]; ok {
		organized["agent_learning"] = map[string]any{
			"strategy_adaptation": adaptation,
		}
	}

	return organized
}
