package agent

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// adaptationCooldown is the minimum wall-clock gap between two strategy
// adaptations for the same user.
const adaptationCooldown = 300 * time.Second

// StrategyOutcome is one entry of the cross-user success log.
type StrategyOutcome struct {
	Timestamp time.Time `json:"timestamp"`
	Strategy  []string  `json:"strategy"`
	Outcome   string    `json:"outcome"`
}

// GlobalLearning aggregates signals across every user the process has seen.
// It only ever grows.
type GlobalLearning struct {
	mu                   sync.Mutex
	successfulStrategies []StrategyOutcome
	commonObstacles      []string
	marketTrends         []string
	skillDemands         []string
}

// NewGlobalLearning creates an empty aggregate.
func NewGlobalLearning() *GlobalLearning {
	return &GlobalLearning{}
}

func (g *GlobalLearning) record(entry OutcomeRecord, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if entry.SuccessIndicators.OverallSuccess {
		g.successfulStrategies = append(g.successfulStrategies, StrategyOutcome{
			Timestamp: now,
			Strategy:  entry.ActionsTaken,
			Outcome:   "success",
		})
	}

	if obstacles, ok := entry.Outcomes["obstacles"].([]string); ok {
		g.commonObstacles = append(g.commonObstacles, obstacles...)
	}
}

// learnFromOutcome appends one outcome record for the run and folds it into
// the global aggregate. It runs unconditionally, success or not.
func (a *Agent) learnFromOutcome(results map[string]any, mem *UserMemory) {
	now := a.now()

	record := OutcomeRecord{
		Timestamp:         now,
		ActionsTaken:      sortedKeys(results),
		Outcomes:          results,
		SuccessIndicators: extractSuccessIndicators(results),
		LessonsLearned:    extractLessons(results),
	}

	mem.Outcomes = append(mem.Outcomes, record)
	mem.LastUpdated = now

	a.learning.record(record, now)
}

// adaptStrategy appends a new strategy record when the recent success rate is
// low. It is a no-op with fewer than two outcomes or while the cooldown since
// the last adaptation is still running.
func (a *Agent) adaptStrategy(mem *UserMemory) {
	if len(mem.Outcomes) < 2 {
		return
	}

	now := a.now()
	for _, strategy := range mem.Strategies {
		if now.Sub(strategy.Timestamp) < adaptationCooldown {
			return
		}
	}

	recent := lastOutcomes(mem, 5)
	if len(recent) == 0 {
		return
	}

	if successRate(recent) < 0.5 {
		mem.Strategies = append(mem.Strategies, StrategyRecord{
			Timestamp:           now,
			Strategy:            developNewStrategy(mem),
			Reason:              "low_success_rate",
			ExpectedImprovement: "high",
		})
	}
}

// developNewStrategy picks the next strategy from the recent failure count.
func developNewStrategy(mem *UserMemory) string {
	if len(mem.Outcomes) == 0 {
		return "balanced"
	}

	failures := 0
	for _, outcome := range lastOutcomes(mem, 3) {
		if !outcome.SuccessIndicators.OverallSuccess {
			failures++
		}
	}

	if failures > 1 {
		return "aggressive"
	}
	return "balanced"
}

// extractSuccessIndicators derives the success signals of a run from its raw
// result bag. The improvement/goal flags come from a substring scan over the
// rendered values; they are heuristic signals, not guarantees.
func extractSuccessIndicators(results map[string]any) SuccessIndicators {
	return SuccessIndicators{
		OverallSuccess:   len(results) > 0,
		Improvement:      anyValueContains(results, "improvement"),
		GoalAchieved:     anyValueContains(results, "goal"),
		ActionsCompleted: len(results),
	}
}

// extractLessons records which headline result slots were produced.
func extractLessons(results map[string]any) []string {
	lessons := make([]string, 0, 3)

	if _, ok := results[keyResumeAnalysis]; ok {
		lessons = append(lessons, "Resume analysis completed successfully")
	}
	if _, ok := results[keyImprovements]; ok {
		lessons = append(lessons, "Improvement suggestions generated")
	}
	if _, ok := results[keyJobRecommendations]; ok {
		lessons = append(lessons, "Job recommendations provided")
	}

	return lessons
}

// anyValueContains scans the lowercased textual rendering of every result
// value for the needle.
func anyValueContains(results map[string]any, needle string) bool {
	for _, value := range results {
		rendered := strings.ToLower(fmt.Sprintf("%+v", value))
		if strings.Contains(rendered, needle) {
			return true
		}
	}
	return false
}

func successRate(outcomes []OutcomeRecord) float64 {
	if len(outcomes) == 0 {
		return 0
	}

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.SuccessIndicators.OverallSuccess {
			succeeded++
		}
	}

	return float64(succeeded) / float64(len(outcomes))
}

func lastOutcomes(mem *UserMemory, n int) []OutcomeRecord {
	if len(mem.Outcomes) <= n {
		return mem.Outcomes
	}
	return mem.Outcomes[len(mem.Outcomes)-n:]
}

func sortedKeys(results map[string]any) []string {
	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
