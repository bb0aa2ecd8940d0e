package agent

import "slices"

// Goal is one of the closed set of objectives the agent can pursue.
type Goal string

const (
	GoalCareerAdvancement Goal = "career_advancement"
	GoalSkillDevelopment  Goal = "skill_development"
	GoalNetworkBuilding   Goal = "network_building"
	GoalSalaryImprovement Goal = "salary_improvement"
	GoalWorkLifeBalance   Goal = "work_life_balance"
)

// Obstacle names recognized by the planner.
const (
	ObstacleWeakResume     = "weak_resume"
	ObstacleSkillGaps      = "skill_gaps"
	ObstacleLimitedMarket  = "limited_market_opportunity"
	ObstacleLimitedNetwork = "limited_network"
)

// identifyGoals derives the active goal set from the situation and memory.
// The rules are independent; the set is never empty.
func identifyGoals(situation *Situation, mem *UserMemory) []Goal {
	goals := make([]Goal, 0, 4)

	if situation.ResumeStrength < 0.7 {
		goals = append(goals, GoalSkillDevelopment)
	}

	if situation.MarketOpportunity > 0.8 {
		goals = append(goals, GoalCareerAdvancement)
	}

	if len(mem.Interactions) < 5 {
		goals = append(goals, GoalNetworkBuilding)
	}

	for _, outcome := range mem.Outcomes {
		if outcome.SalaryLevel == "below_market" {
			goals = append(goals, GoalSalaryImprovement)
			break
		}
	}

	if len(goals) == 0 {
		goals = append(goals, GoalCareerAdvancement)
	}

	return goals
}

// identifyObstacles derives the obstacle set standing between the user and
// the active goals. knownUsers is the number of users across the whole store.
func identifyObstacles(situation *Situation, goals []Goal, knownUsers int) []string {
	obstacles := make([]string, 0, 4)

	if situation.ResumeStrength < 0.6 {
		obstacles = append(obstacles, ObstacleWeakResume)
	}

	if len(situation.SkillGaps) > 0 {
		obstacles = append(obstacles, ObstacleSkillGaps)
	}

	if situation.MarketOpportunity < 0.5 {
		obstacles = append(obstacles, ObstacleLimitedMarket)
	}

	if slices.Contains(goals, GoalNetworkBuilding) && knownUsers < 3 {
		obstacles = append(obstacles, ObstacleLimitedNetwork)
	}

	return obstacles
}

func goalNames(goals []Goal) []string {
	names := make([]string, 0, len(goals))
	for _, goal := range goals {
		names = append(names, string(goal))
	}
	return names
}
