package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quizdeck/quizdeck/internal/ai"
	"github.com/quizdeck/quizdeck/internal/ai/prompts"
	"github.com/quizdeck/quizdeck/internal/handler"
	appI18n "github.com/quizdeck/quizdeck/internal/i18n"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/quiz"
	"github.com/quizdeck/quizdeck/internal/speech"
	"github.com/quizdeck/quizdeck/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quizdeck",
		Short: "Interactive quiz server with AI-assisted grading",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `quizdeck --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP quiz server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "quizdeck.db", "SQLite database path for the report archive")
	f.StringSliceP("questions", "q", []string{"questions/quiz.json"}, "Paths to questions JSON files (repeatable)")
	f.StringP("title", "t", "Quiz", "Quiz title shown to users and stamped on reports")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for the LLM endpoint")
	f.String("llm-model", "llama3.2", "LLM model name for answer evaluation")
	f.String("tts-model", "tts-1", "Speech synthesis model name")
	f.String("tts-voice", speech.DefaultVoice, "Default speech synthesis voice")
	f.String("prompt-variant", string(prompts.PromptStandard), "Evaluation prompt variant (strict, standard, lenient)")
	f.StringP("lang", "l", "en", "UI language (en, ko)")
	f.IntP("num-questions", "n", 0, "Number of questions per session (0 = all available)")
	f.Bool("shuffle", false, "Randomize question order per session")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins (default: any)")
	f.Duration("session-max-age", 6*time.Hour, "Drop in-memory sessions older than this")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived quiz reports as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "quizdeck.db", "SQLite database path for the report archive")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("QUIZDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("quizdeck")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/quizdeck")
	v.AddConfigPath("/etc/quizdeck")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Load questions from all specified files.
	questions, err := loadQuestions(v.GetStringSlice("questions"))
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		slog.Warn("no questions loaded, sessions cannot be started until questions are supplied")
	}

	promptVariant := strings.ToLower(strings.TrimSpace(v.GetString("prompt-variant")))
	if !prompts.IsValidVariant(promptVariant) {
		slog.Warn("invalid prompt-variant, using standard", "variant", promptVariant)
		promptVariant = string(prompts.PromptStandard)
	}

	cfg := model.QuizConfig{
		Title:         v.GetString("title"),
		NumQuestions:  v.GetInt("num-questions"),
		Shuffle:       v.GetBool("shuffle"),
		Voice:         v.GetString("tts-voice"),
		PromptVariant: promptVariant,
	}

	// Open the report archive and stamp it with this quiz's metadata.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	err = db.SetQuizInfo(model.QuizInfo{
		Title:         cfg.Title,
		Language:      lang,
		LLMModel:      v.GetString("llm-model"),
		SpeechModel:   v.GetString("tts-model"),
		Voice:         cfg.Voice,
		PromptVariant: promptVariant,
	})
	if err != nil {
		return fmt.Errorf("store quiz metadata: %w", err)
	}

	// Create the AI evaluator. The endpoint being down is not fatal:
	// evaluations are advisory and the quiz works without them.
	evaluator, err := ai.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
		promptVariant,
	)
	if err != nil {
		return fmt.Errorf("create AI evaluator: %w", err)
	}
	if err := evaluator.Ping(context.Background()); err != nil {
		slog.Warn("AI endpoint unreachable, evaluations will fail until it recovers",
			"url", v.GetString("llm-url"), "error", err)
	} else {
		slog.Info("AI endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	}

	tts := speech.New(v.GetString("llm-url"), v.GetString("llm-key"), v.GetString("tts-model"))

	sessions := quiz.NewRegistry()
	go sessions.PurgeLoop(context.Background(), 10*time.Minute, v.GetDuration("session-max-age"))

	h := handler.New(sessions, questions, evaluator, tts, db, cfg)

	origins := v.GetStringSlice("cors-origins")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"title", cfg.Title,
		"questions", len(questions),
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"lang", lang,
		"num_questions", cfg.NumQuestions,
		"shuffle", cfg.Shuffle,
		"prompt_variant", promptVariant,
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportReports()
	if err != nil {
		return fmt.Errorf("export reports: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

// loadQuestions reads and merges every questions file. Sessions hold their
// own copy of the list, so the files are read once at boot.
func loadQuestions(paths []string) ([]model.Question, error) {
	var questions []model.Question
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var qs []model.Question
		if err := json.Unmarshal(data, &qs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		questions = append(questions, qs...)
		slog.Info("loaded questions", "path", path, "count", len(qs))
	}
	return questions, nil
}
