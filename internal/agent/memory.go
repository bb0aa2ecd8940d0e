package agent

import (
	"sync"
	"time"
)

// Interaction is one workflow invocation as remembered for a user.
type Interaction struct {
	Timestamp  time.Time `json:"timestamp"`
	ResumeText string    `json:"resume_text"`
	JobURL     string    `json:"job_url,omitempty"`
	Questions  []string  `json:"questions,omitempty"`
}

// SuccessIndicators are the derived success signals of one run.
type SuccessIndicators struct {
	OverallSuccess   bool `json:"overall_success"`
	Improvement      bool `json:"improvement"`
	GoalAchieved     bool `json:"goal_achieved"`
	ActionsCompleted int  `json:"action_completed"`
}

// OutcomeRecord is the immutable log entry appended after every run.
type OutcomeRecord struct {
	Timestamp         time.Time         `json:"timestamp"`
	ActionsTaken      []string          `json:"actions_taken"`
	Outcomes          map[string]any    `json:"outcomes"`
	SuccessIndicators SuccessIndicators `json:"success_indicators"`
	LessonsLearned    []string          `json:"lessons_learned"`

	// SalaryLevel is an optional tag set by external enrichment; the value
	// "below_market" activates the salary_improvement goal.
	SalaryLevel string `json:"salary_level,omitempty"`
}

// StrategyRecord captures one strategy adaptation.
type StrategyRecord struct {
	Timestamp           time.Time `json:"timestamp"`
	Strategy            string    `json:"strategy"`
	Reason              string    `json:"reason"`
	ExpectedImprovement string    `json:"expected_improvement"`
}

// UserMemory is the append-only per-user state. Interactions, outcomes and
// strategies never shrink; chronological order is the only ordering signal.
type UserMemory struct {
	// mu serializes workflow runs for this user. The store hands out the
	// same record to every caller, so concurrent runs for one user contend
	// here instead of corrupting the slices.
	mu sync.Mutex

	UserID       string            `json:"user_id"`
	Interactions []Interaction     `json:"interactions"`
	Outcomes     []OutcomeRecord   `json:"outcomes"`
	Strategies   []StrategyRecord  `json:"strategies"`
	Goals        []Goal            `json:"goals"`
	Preferences  map[string]string `json:"preferences"`
	CreatedAt    time.Time         `json:"created_at"`
	LastUpdated  time.Time         `json:"last_updated"`
}

// MemoryStore owns the map from user id to memory. Lifecycle is process start
// to process shutdown; there is no eviction and no persistence.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*UserMemory

	now func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*UserMemory),
		now:   time.Now,
	}
}

// GetOrCreate returns the memory record for the user, creating it on first
// access. It always returns the same record for the same id and cannot fail.
func (s *MemoryStore) GetOrCreate(userID string) *UserMemory {
	s.mu.RLock()
	mem, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return mem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mem, ok := s.users[userID]; ok {
		return mem
	}

	now := s.now()
	mem = &UserMemory{
		UserID:      userID,
		Preferences: make(map[string]string),
		CreatedAt:   now,
		LastUpdated: now,
	}
	s.users[userID] = mem

	return mem
}

// Count reports how many users the store knows about.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
