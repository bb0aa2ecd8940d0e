package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jyou106/JobAssistantAgent/internal/agent"
	"github.com/jyou106/JobAssistantAgent/internal/ai"
	"github.com/jyou106/JobAssistantAgent/internal/ai/gemini"
	"github.com/jyou106/JobAssistantAgent/internal/jobposting"
	"github.com/jyou106/JobAssistantAgent/internal/logger"
	"github.com/jyou106/JobAssistantAgent/internal/secrets"
)

const (
	PromptRunAgain     = "Run the workflow again"
	PromptShowMemory   = "Show agent memory for this user"
	PromptShowLearning = "Show global agent learning"
	PromptQuit         = "Quit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptRunAgain, PromptShowMemory, PromptShowLearning, PromptQuit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one autonomous workflow for a resume and optional job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume-file", "r", "", "path to the resume text file")
	runCmd.Flags().StringP("job-url", "u", "", "job posting URL to score the resume against")
	runCmd.Flags().StringArrayP("question", "q", nil, "application question to draft an answer for (repeatable, requires --job-url)")
	runCmd.Flags().String("user", "", "stable user identifier (a random one is generated when unset)")
	runCmd.Flags().BoolP("auto-approve", "y", false, "print the result and exit without the interactive menu")

	viper.BindPFlag("resume.file", runCmd.Flags().Lookup("resume-file"))
	viper.BindPFlag("user", runCmd.Flags().Lookup("user"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-assistant", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		config = &Config{}
	}

	resumeFile := strings.TrimSpace(viper.GetString("resume.file"))
	if resumeFile == "" && config.Resume != nil {
		resumeFile = strings.TrimSpace(config.Resume.File)
	}
	if resumeFile == "" {
		logger.Fatal("resume file is required", zap.String("hint", "pass --resume-file or set resume.file in the configuration file"))
	}

	resumeText, err := os.ReadFile(resumeFile)
	if err != nil {
		logger.Fatal("reading resume file", zap.String("path", resumeFile), zap.Error(err))
	}

	userID := strings.TrimSpace(viper.GetString("user"))
	if userID == "" {
		userID = uuid.NewString()
		logger.Info("no user id provided, generated one", zap.String("user_id", userID))
	}

	oracle, err := newOracle(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the oracle", zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or the GEMINI_API_KEY environment variable"),
		)
	}

	fetcher := jobposting.NewClient(logger)
	if config.Fetch != nil && config.Fetch.UserAgent != "" {
		fetcher.UserAgent = config.Fetch.UserAgent
	}

	careerAgent := agent.New(oracle, fetcher, logger)

	request := agent.Request{
		UserID:     userID,
		ResumeText: string(resumeText),
		JobURL:     cmd.Flag("job-url").Value.String(),
		Questions:  questionFlags(cmd),
	}

	if err := runWorkflow(ctx, careerAgent, request, logger); err != nil {
		logger.Fatal("workflow failed", zap.Error(err))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, careerAgent, request, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, careerAgent *agent.Agent, request agent.Request, logger *zap.Logger) error {
	switch action {
	case PromptRunAgain:
		return runWorkflow(ctx, careerAgent, request, logger)
	case PromptShowMemory:
		return printJSON(careerAgent.MemorySummary(request.UserID))
	case PromptShowLearning:
		return printJSON(careerAgent.GlobalLearningSummary())
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func runWorkflow(ctx context.Context, careerAgent *agent.Agent, request agent.Request, logger *zap.Logger) error {
	result := careerAgent.AutonomousWorkflow(ctx, request)
	if !result.Success {
		return fmt.Errorf("autonomous workflow: %s", result.Error)
	}

	logger.Info("workflow complete",
		zap.String("user_id", request.UserID),
		zap.Strings("goals", result.AgentGoals),
		zap.Strings("actions", result.AgentActions),
	)

	return printJSON(result)
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	fmt.Println(string(pretty))
	return nil
}

func questionFlags(cmd *cobra.Command) []string {
	questions, err := cmd.Flags().GetStringArray("question")
	if err != nil {
		return nil
	}
	return questions
}

func newOracle(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Oracle, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	geminiCfg := cfg.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	keyFile := geminiCfg.APIKeyFile
	if keyFile == "" {
		keyFile = viper.GetString("gemini-api-key-file")
	}

	apiKey, err := secrets.Load("gemini api key", keyFile, viper.GetString("gemini-api-key"))
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithFields(log, logger.ProviderFields("gemini", geminiCfg.Model)...)

	generator, err := gemini.NewGenerator(ctx, apiKey, geminiCfg.Model, geminiCfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewOracle(generator, genLogger, geminiCfg.MaxLogLength), nil
}
