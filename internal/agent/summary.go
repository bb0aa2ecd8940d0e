package agent

import (
	"fmt"
	"time"
)

// MemorySummary is a read-only view of one user's memory.
type MemorySummary struct {
	UserID            string           `json:"user_id"`
	TotalInteractions int              `json:"total_interactions"`
	TotalOutcomes     int              `json:"total_outcomes"`
	StrategiesUsed    int              `json:"strategies_used"`
	GoalsIdentified   []string         `json:"goals_identified"`
	CreatedAt         time.Time        `json:"created_at"`
	LastUpdated       time.Time        `json:"last_updated"`
	RecentOutcomes    []OutcomeRecord  `json:"recent_outcomes"`
	CurrentStrategies []StrategyRecord `json:"current_strategies"`
}

// MemorySummary reports the agent's memory for a user, creating an empty
// record on first access like every other memory read.
func (a *Agent) MemorySummary(userID string) *MemorySummary {
	mem := a.store.GetOrCreate(userID)
	mem.mu.Lock()
	defer mem.mu.Unlock()

	recentOutcomes := lastOutcomes(mem, 5)
	outcomes := make([]OutcomeRecord, len(recentOutcomes))
	copy(outcomes, recentOutcomes)

	strategies := mem.Strategies
	if len(strategies) > 3 {
		strategies = strategies[len(strategies)-3:]
	}
	current := make([]StrategyRecord, len(strategies))
	copy(current, strategies)

	return &MemorySummary{
		UserID:            mem.UserID,
		TotalInteractions: len(mem.Interactions),
		TotalOutcomes:     len(mem.Outcomes),
		StrategiesUsed:    len(mem.Strategies),
		GoalsIdentified:   goalNames(mem.Goals),
		CreatedAt:         mem.CreatedAt,
		LastUpdated:       mem.LastUpdated,
		RecentOutcomes:    outcomes,
		CurrentStrategies: current,
	}
}

// LearningSummary is a read-only view of the cross-user aggregate.
type LearningSummary struct {
	TotalUsers             int      `json:"total_users"`
	SuccessfulStrategies   int      `json:"successful_strategies"`
	CommonObstacles        []string `json:"common_obstacles"`
	MarketTrends           []string `json:"market_trends"`
	SkillDemands           []string `json:"skill_demands"`
	MostSuccessfulStrategy string   `json:"most_successful_strategy"`
	MostCommonObstacle     string   `json:"most_common_obstacle"`
	LearningEffectiveness  float64  `json:"learning_effectiveness"`
}

// GlobalLearningSummary reports what the agent has learned across all users.
func (a *Agent) GlobalLearningSummary() *LearningSummary {
	users := a.store.Count()

	a.learning.mu.Lock()
	defer a.learning.mu.Unlock()

	effectiveness := float64(len(a.learning.successfulStrategies))
	if users > 0 {
		effectiveness /= float64(users)
	}

	return &LearningSummary{
		TotalUsers:             users,
		SuccessfulStrategies:   len(a.learning.successfulStrategies),
		CommonObstacles:        uniqueStrings(a.learning.commonObstacles),
		MarketTrends:           append([]string(nil), a.learning.marketTrends...),
		SkillDemands:           append([]string(nil), a.learning.skillDemands...),
		MostSuccessfulStrategy: mostSuccessfulStrategy(a.learning.successfulStrategies),
		MostCommonObstacle:     mostCommon(a.learning.commonObstacles, "No obstacles identified yet"),
		LearningEffectiveness:  effectiveness,
	}
}

func mostSuccessfulStrategy(strategies []StrategyOutcome) string {
	if len(strategies) == 0 {
		return "No strategies yet"
	}

	counts := make(map[string]int, len(strategies))
	for _, strategy := range strategies {
		counts[fmt.Sprintf("%v", strategy.Strategy)]++
	}

	best := ""
	bestCount := 0
	for key, count := range counts {
		if count > bestCount {
			best = key
			bestCount = count
		}
	}

	return best
}

func mostCommon(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}

	counts := make(map[string]int, len(values))
	for _, value := range values {
		counts[value]++
	}

	best := ""
	bestCount := 0
	for value, count := range counts {
		if count > bestCount {
			best = value
			bestCount = count
		}
	}

	return best
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			unique = append(unique, value)
		}
	}
	return unique
}
