package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jyou106/JobAssistantAgent/internal/ai"
)

type stubOracle struct {
	insights    ai.ResumeInsights
	insightsErr error
	market      ai.MarketSnapshot
	marketErr   error
	report      ai.MatchReport
	scoreErr    error
	answers     ai.TailoredAnswers
	tailorErr   error

	calls int
}

func (s *stubOracle) AnalyzeResume(context.Context, string) (*ai.ResumeInsights, error) {
	s.calls++
	if s.insightsErr != nil {
		return nil, s.insightsErr
	}
	insights := s.insights
	return &insights, nil
}

func (s *stubOracle) AnalyzeMarket(context.Context, string) (*ai.MarketSnapshot, error) {
	s.calls++
	if s.marketErr != nil {
		return nil, s.marketErr
	}
	market := s.market
	return &market, nil
}

func (s *stubOracle) ScoreResume(context.Context, string, string) (*ai.MatchReport, error) {
	s.calls++
	if s.scoreErr != nil {
		return nil, s.scoreErr
	}
	report := s.report
	return &report, nil
}

func (s *stubOracle) TailorAnswers(context.Context, string, string, []string) (*ai.TailoredAnswers, error) {
	s.calls++
	if s.tailorErr != nil {
		return nil, s.tailorErr
	}
	answers := s.answers
	return &answers, nil
}

type stubFetcher struct {
	text  string
	err   error
	calls int
}

func (s *stubFetcher) FetchJobDescription(context.Context, string) (string, error) {
	s.calls++
	return s.text, s.err
}

const longPosting = "We are hiring a Go engineer to build distributed systems and infrastructure tooling."

func newTestAgent(oracle *stubOracle, fetcher *stubFetcher) *Agent {
	return New(oracle, fetcher, zap.NewNop())
}

func TestWorkflowAppendsExactlyOneInteractionAndOutcome(t *testing.T) {
	oracle := &stubOracle{insights: ai.ResumeInsights{StrengthScore: 0.9}}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	for i := 1; i <= 3; i++ {
		result := agent.AutonomousWorkflow(context.Background(), Request{
			UserID:     "u-1",
			ResumeText: "experienced engineer",
		})
		if !result.Success {
			t.Fatalf("run %d failed: %s", i, result.Error)
		}

		mem := agent.store.GetOrCreate("u-1")
		if len(mem.Interactions) != i {
			t.Fatalf("expected %d interactions after run %d, got %d", i, i, len(mem.Interactions))
		}
		if len(mem.Outcomes) != i {
			t.Fatalf("expected %d outcomes after run %d, got %d", i, i, len(mem.Outcomes))
		}
	}
}

func TestWorkflowSerializesConcurrentRuns(t *testing.T) {
	oracle := &stubOracle{insights: ai.ResumeInsights{StrengthScore: 0.9}}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	const runs = 8
	var wg sync.WaitGroup
	for range runs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agent.AutonomousWorkflow(context.Background(), Request{
				UserID:     "u-1",
				ResumeText: "text",
			})
		}()
	}
	wg.Wait()

	mem := agent.store.GetOrCreate("u-1")
	if len(mem.Interactions) != runs {
		t.Fatalf("expected %d interactions, got %d", runs, len(mem.Interactions))
	}
	if len(mem.Outcomes) != runs {
		t.Fatalf("expected %d outcomes, got %d", runs, len(mem.Outcomes))
	}
}

func TestWorkflowRecursionGuard(t *testing.T) {
	oracle := &stubOracle{}
	fetcher := &stubFetcher{text: longPosting}
	agent := newTestAgent(oracle, fetcher)

	result := agent.AutonomousWorkflow(context.Background(), Request{
		UserID:     "u-1",
		ResumeText: "text",
		Depth:      4,
	})

	if result.Success {
		t.Fatal("expected failure past the recursion cap")
	}
	if !result.FallbackToBasic {
		t.Fatal("expected fallback_to_basic to be set")
	}
	if oracle.calls != 0 {
		t.Fatalf("oracle must not be invoked, got %d calls", oracle.calls)
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher must not be invoked, got %d calls", fetcher.calls)
	}
	if agent.store.Count() != 0 {
		t.Fatalf("no memory should be created, got %d users", agent.store.Count())
	}
}

func TestWorkflowDepthAtCapStillRuns(t *testing.T) {
	oracle := &stubOracle{insights: ai.ResumeInsights{StrengthScore: 0.9}}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	result := agent.AutonomousWorkflow(context.Background(), Request{
		UserID:     "u-1",
		ResumeText: "text",
		Depth:      3,
	})

	if !result.Success {
		t.Fatalf("depth 3 should still run, got: %s", result.Error)
	}
}

func TestWorkflowIsolatesScoringFailure(t *testing.T) {
	oracle := &stubOracle{
		insights: ai.ResumeInsights{StrengthScore: 0.9},
		market:   ai.MarketSnapshot{OpportunityScore: 0.9},
		scoreErr: errors.New("model returned garbage"),
	}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	result := agent.AutonomousWorkflow(context.Background(), Request{
		UserID:     "u-1",
		ResumeText: "text",
		JobURL:     "https://example.com/job/1",
	})

	if !result.Success {
		t.Fatalf("run should succeed despite scoring failure, got: %s", result.Error)
	}

	matching, ok := result.ExecutionResults["resume_and_job_matching"].(map[string]any)
	if !ok {
		t.Fatalf("expected resume_and_job_matching group, got %v", result.ExecutionResults)
	}

	slot, ok := matching["job_matching"].(ActionError)
	if !ok {
		t.Fatalf("expected an error slot for job_matching, got %T", matching["job_matching"])
	}
	if !strings.Contains(slot.Error, "model returned garbage") {
		t.Fatalf("unexpected error message: %s", slot.Error)
	}
}

func TestWorkflowRejectsShortJobDescription(t *testing.T) {
	oracle := &stubOracle{insights: ai.ResumeInsights{StrengthScore: 0.9}}
	agent := newTestAgent(oracle, &stubFetcher{text: "too short"})

	result := agent.AutonomousWorkflow(context.Background(), Request{
		UserID:     "u-1",
		ResumeText: "text",
		JobURL:     "https://example.com/job/1",
	})

	if !result.Success {
		t.Fatalf("run should succeed, got: %s", result.Error)
	}

	matching := result.ExecutionResults["resume_and_job_matching"].(map[string]any)
	slot, ok := matching["job_matching"].(ActionError)
	if !ok {
		t.Fatalf("expected an error slot for job_matching, got %T", matching["job_matching"])
	}
	if !strings.Contains(slot.Error, "too short") {
		t.Fatalf("unexpected error message: %s", slot.Error)
	}
}

func TestWorkflowTailorsAnswers(t *testing.T) {
	oracle := &stubOracle{
		insights: ai.ResumeInsights{StrengthScore: 0.9},
		market:   ai.MarketSnapshot{OpportunityScore: 0.9},
		report:   ai.MatchReport{MatchScore: 0.85, Insights: []string{"strong fit"}},
		answers: ai.TailoredAnswers{
			Answers:             []ai.Answer{{Question: "Why us?", Answer: "Because."}},
			OverallQualityScore: 0.9,
		},
	}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	result := agent.AutonomousWorkflow(context.Background(), Request{
		UserID:     "u-1",
		ResumeText: "text",
		JobURL:     "https://example.com/job/1",
		Questions:  []string{"Why us?"},
	})

	if !result.Success {
		t.Fatalf("run failed: %s", result.Error)
	}

	matching := result.ExecutionResults["resume_and_job_matching"].(map[string]any)

	scoring, ok := matching["job_matching"].(ScoringResult)
	if !ok {
		t.Fatalf("expected scoring result, got %T", matching["job_matching"])
	}
	if scoring.MatchScore != 0.85 {
		t.Fatalf("unexpected match score: %v", scoring.MatchScore)
	}

	answers, ok := matching["tailored_answers"].(TailoredAnswersResult)
	if !ok {
		t.Fatalf("expected tailored answers, got %T", matching["tailored_answers"])
	}
	if len(answers.Answers) != 1 || answers.Answers[0].Answer != "Because." {
		t.Fatalf("unexpected answers: %+v", answers.Answers)
	}
}

func TestWorkflowCooldownLimitsAdaptations(t *testing.T) {
	oracle := &stubOracle{insights: ai.ResumeInsights{StrengthScore: 0.9}}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	current := base
	agent.now = func() time.Time { return current }

	mem := agent.store.GetOrCreate("u-1")
	for range 3 {
		mem.Outcomes = append(mem.Outcomes, OutcomeRecord{
			Timestamp:         base.Add(-time.Hour),
			SuccessIndicators: SuccessIndicators{OverallSuccess: false},
		})
	}

	first := agent.AutonomousWorkflow(context.Background(), Request{UserID: "u-1", ResumeText: "text"})
	if !first.Success {
		t.Fatalf("first run failed: %s", first.Error)
	}
	if len(mem.Strategies) != 1 {
		t.Fatalf("expected one strategy after first adaptation, got %d", len(mem.Strategies))
	}
	if mem.Strategies[0].Strategy != "aggressive" {
		t.Fatalf("three recent failures should pick aggressive, got %q", mem.Strategies[0].Strategy)
	}

	current = base.Add(10 * time.Second)
	second := agent.AutonomousWorkflow(context.Background(), Request{UserID: "u-1", ResumeText: "text"})
	if !second.Success {
		t.Fatalf("second run failed: %s", second.Error)
	}
	if len(mem.Strategies) != 1 {
		t.Fatalf("cooldown should keep strategies at 1, got %d", len(mem.Strategies))
	}
}

func TestWorkflowResultShape(t *testing.T) {
	oracle := &stubOracle{insights: ai.ResumeInsights{StrengthScore: 0.5, SkillGaps: []string{"leadership"}}}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	result := agent.AutonomousWorkflow(context.Background(), Request{UserID: "u-1", ResumeText: "text"})
	if !result.Success {
		t.Fatalf("run failed: %s", result.Error)
	}

	if len(result.AgentGoals) == 0 {
		t.Fatal("goal list must never be empty")
	}
	if !result.LearningApplied {
		t.Fatal("learning must be applied on every successful run")
	}
	if result.StrategyAdaptation == nil || result.StrategyAdaptation.Status != "initial_strategy" {
		t.Fatalf("expected initial strategy summary, got %+v", result.StrategyAdaptation)
	}
	if result.AutonomousAnalysis == nil || result.AutonomousAnalysis.CareerStage != StageEarlyCareer {
		t.Fatalf("expected early career stage for a new user, got %+v", result.AutonomousAnalysis)
	}
}

func TestMemorySummaryCounts(t *testing.T) {
	oracle := &stubOracle{insights: ai.ResumeInsights{StrengthScore: 0.9}}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	for range 2 {
		agent.AutonomousWorkflow(context.Background(), Request{UserID: "u-1", ResumeText: "text"})
	}

	summary := agent.MemorySummary("u-1")
	if summary.TotalInteractions != 2 || summary.TotalOutcomes != 2 {
		t.Fatalf("unexpected summary counts: %+v", summary)
	}
	if len(summary.RecentOutcomes) != 2 {
		t.Fatalf("expected 2 recent outcomes, got %d", len(summary.RecentOutcomes))
	}
}

func TestGlobalLearningSummary(t *testing.T) {
	oracle := &stubOracle{insights: ai.ResumeInsights{StrengthScore: 0.9}}
	agent := newTestAgent(oracle, &stubFetcher{text: longPosting})

	agent.AutonomousWorkflow(context.Background(), Request{UserID: "u-1", ResumeText: "text"})
	agent.AutonomousWorkflow(context.Background(), Request{UserID: "u-2", ResumeText: "text"})

	summary := agent.GlobalLearningSummary()
	if summary.TotalUsers != 2 {
		t.Fatalf("expected 2 users, got %d", summary.TotalUsers)
	}
	if summary.SuccessfulStrategies != 2 {
		t.Fatalf("expected 2 successful strategies, got %d", summary.SuccessfulStrategies)
	}
	if summary.LearningEffectiveness != 1 {
		t.Fatalf("expected effectiveness 1, got %v", summary.LearningEffectiveness)
	}
	if summary.MostCommonObstacle != "No obstacles identified yet" {
		t.Fatalf("unexpected obstacle summary: %s", summary.MostCommonObstacle)
	}
}
