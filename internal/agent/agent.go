package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jyou106/JobAssistantAgent/internal/ai"
	"github.com/jyou106/JobAssistantAgent/internal/jobposting"
)

// maxRecursionDepth caps how deep the workflow may invoke itself. Adaptation
// could in principle kick off another full run; the cap holds regardless.
const maxRecursionDepth = 3

// Agent is the autonomous career agent: it owns all user memories and the
// global learning state, and drives the situation -> goals -> obstacles ->
// actions pipeline against the oracle and fetcher collaborators.
type Agent struct {
	oracle   ai.Oracle
	fetcher  jobposting.Fetcher
	store    *MemoryStore
	learning *GlobalLearning
	logger   *zap.Logger

	now func() time.Time
}

// New creates an agent with empty memory.
func New(oracle ai.Oracle, fetcher jobposting.Fetcher, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		oracle:   oracle,
		fetcher:  fetcher,
		store:    NewMemoryStore(),
		learning: NewGlobalLearning(),
		logger:   logger,
		now:      time.Now,
	}
}

// Request is one workflow invocation.
type Request struct {
	UserID     string
	ResumeText string
	JobURL     string
	Questions  []string

	// Depth is the recursion depth of this call. Callers start at zero;
	// nested invocations must pass the incremented value through.
	Depth int
}

// WorkflowResult is the full outcome of one autonomous run, or a structured
// failure when the run could not happen at all.
type WorkflowResult struct {
	Success         bool   `json:"success"`
	Error           string `json:"error,omitempty"`
	FallbackToBasic bool   `json:"fallback_to_basic,omitempty"`

	AutonomousAnalysis  *Situation         `json:"autonomous_analysis,omitempty"`
	AgentGoals          []string           `json:"agent_goals,omitempty"`
	IdentifiedObstacles []string           `json:"identified_obstacles,omitempty"`
	AgentActions        []string           `json:"agent_actions,omitempty"`
	ExecutionResults    map[string]any     `json:"execution_results,omitempty"`
	LearningApplied     bool               `json:"learning_applied,omitempty"`
	StrategyAdaptation  *AdaptationSummary `json:"strategy_adaptation,omitempty"`
}

// AdaptationSummary describes the user's current strategy stance.
type AdaptationSummary struct {
	Status              string `json:"status,omitempty"`
	Adaptations         int    `json:"adaptations"`
	CurrentStrategy     string `json:"current_strategy,omitempty"`
	AdaptationReason    string `json:"adaptation_reason,omitempty"`
	ExpectedImprovement string `json:"expected_improvement,omitempty"`
	TotalAdaptations    int    `json:"total_adaptations,omitempty"`
}

// AutonomousWorkflow runs the whole decision loop for one user call. Failures
// of individual actions are isolated in their result slots; only the
// recursion cap and a panic in the orchestration abort the run.
func (a *Agent) AutonomousWorkflow(ctx context.Context, req Request) (result *WorkflowResult) {
	if req.Depth > maxRecursionDepth {
		return &WorkflowResult{
			Success:         false,
			Error:           "maximum recursion depth exceeded",
			FallbackToBasic: true,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("autonomous workflow panicked", zap.Any("panic", r))
			result = &WorkflowResult{
				Success: false,
				Error:   fmt.Sprintf("autonomous workflow failed: %v", r),
			}
		}
	}()

	log := a.logger.With(zap.String("user_id", req.UserID))
	log.Info("starting autonomous workflow",
		zap.Int("depth", req.Depth),
		zap.Bool("has_job_url", req.JobURL != ""),
		zap.Int("questions", len(req.Questions)),
	)

	mem := a.store.GetOrCreate(req.UserID)
	mem.mu.Lock()
	defer mem.mu.Unlock()

	mem.Interactions = append(mem.Interactions, Interaction{
		Timestamp:  a.now(),
		ResumeText: req.ResumeText,
		JobURL:     req.JobURL,
		Questions:  req.Questions,
	})

	situation := a.analyzeSituation(ctx, req.ResumeText, req.JobURL, mem)
	situation.JobURL = req.JobURL
	situation.Questions = req.Questions

	goals := identifyGoals(situation, mem)
	obstacles := identifyObstacles(situation, goals, a.store.Count())
	mem.Goals = goals

	actions := planActions(situation, goals, obstacles, mem)

	log.Info("actions planned",
		zap.Strings("goals", goalNames(goals)),
		zap.Strings("obstacles", obstacles),
		zap.Strings("actions", actionNames(actions)),
	)

	results := a.executeActions(ctx, actions, situation, mem)

	a.learnFromOutcome(results, mem)

	return &WorkflowResult{
		Success:             true,
		AutonomousAnalysis:  situation,
		AgentGoals:          goalNames(goals),
		IdentifiedObstacles: obstacles,
		AgentActions:        actionNames(actions),
		ExecutionResults:    organizeResults(results),
		LearningApplied:     true,
		StrategyAdaptation:  adaptationSummary(mem),
	}
}

// fetchJobDescription pulls the posting text and rejects unusable results.
func (a *Agent) fetchJobDescription(ctx context.Context, jobURL string) (string, error) {
	text, err := a.fetcher.FetchJobDescription(ctx, jobURL)
	if err != nil {
		return "", err
	}

	if len(strings.TrimSpace(text)) < minJobDescriptionLength {
		return "", fmt.Errorf("job description too short to analyze (%d chars)", len(strings.TrimSpace(text)))
	}

	return text, nil
}

// scoreAgainstPosting fetches the posting and scores the resume against it.
func (a *Agent) scoreAgainstPosting(ctx context.Context, resumeText, jobURL string) (*ai.MatchReport, error) {
	jobText, err := a.fetchJobDescription(ctx, jobURL)
	if err != nil {
		return nil, err
	}

	return a.oracle.ScoreResume(ctx, resumeText, jobText)
}

func adaptationSummary(mem *UserMemory) *AdaptationSummary {
	if len(mem.Strategies) == 0 {
		return &AdaptationSummary{Status: "initial_strategy", Adaptations: 0}
	}

	latest := mem.Strategies[len(mem.Strategies)-1]
	return &AdaptationSummary{
		CurrentStrategy:     latest.Strategy,
		AdaptationReason:    latest.Reason,
		ExpectedImprovement: latest.ExpectedImprovement,
		TotalAdaptations:    len(mem.Strategies),
	}
}
