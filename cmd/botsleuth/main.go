package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alienxp03/botsleuth/internal/config"
	"github.com/alienxp03/botsleuth/internal/core"
	"github.com/alienxp03/botsleuth/internal/dataset"
	"github.com/alienxp03/botsleuth/internal/debate"
	"github.com/alienxp03/botsleuth/internal/eval"
	"github.com/alienxp03/botsleuth/internal/export"
	"github.com/alienxp03/botsleuth/internal/storage"
	"github.com/alienxp03/botsleuth/web/handlers"
)

var (
	dbPath      string
	cfgPath     string
	verboseFlag bool
	appConfig   *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "botsleuth",
	Short: "LLM debate-based bot detection",
	Long: `botsleuth classifies social media accounts as bots or humans by
staging a structured debate between two adversarial LLM experts and
letting a neutral judge deliver the verdict.

Evaluate whole labeled datasets, inspect per-account transcripts, and
export run reports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		var err error
		if cfgPath != "" {
			appConfig, err = config.LoadFrom(cfgPath)
		} else {
			appConfig, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: ~/.botsleuth/botsleuth.db)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default: ~/.botsleuth/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

func setupLogging() {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func getStorage() (storage.Storage, error) {
	path := dbPath
	if path == "" {
		path = storage.DefaultDBPath()
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(); err != nil {
		return nil, err
	}

	return store, nil
}

// ============================================================================
// RUN COMMAND
// ============================================================================

var (
	datasetFlag     string
	formatFlag      string
	protocolFlag    string
	temperatureFlag float64
	workersFlag     int
	limitFlag       int
	modelFlag       string
	providerFlag    string
	noSaveFlag      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a labeled dataset",
	Long: `Run the debate over every account in a labeled CSV dataset and
report classification metrics.

Examples:
  botsleuth run --dataset bot_detection_data.csv
  botsleuth run --dataset twitter_profiles.csv --format rich --protocol critique
  botsleuth run --dataset data.csv --limit 50 --workers 8
  botsleuth run --dataset data.csv --provider mock`,
	RunE: runEvaluation,
}

func init() {
	runCmd.Flags().StringVarP(&datasetFlag, "dataset", "d", "", "Dataset CSV path")
	runCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Dataset format: flat or rich")
	runCmd.Flags().StringVarP(&protocolFlag, "protocol", "p", "", "Debate protocol: simple or critique")
	runCmd.Flags().Float64VarP(&temperatureFlag, "temperature", "t", -1, "Sampling temperature")
	runCmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "Parallel accounts (0 = number of CPUs)")
	runCmd.Flags().IntVarP(&limitFlag, "limit", "l", 0, "Max accounts to evaluate (0 = all)")
	runCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model override")
	runCmd.Flags().StringVar(&providerFlag, "provider", "", "Provider: openai or mock")
	runCmd.Flags().BoolVar(&noSaveFlag, "no-save", false, "Do not persist the run")
}

func runEvaluation(cmd *cobra.Command, args []string) error {
	// Flags override config, config overrides defaults.
	datasetPath := appConfig.Defaults.DatasetPath
	if datasetFlag != "" {
		datasetPath = datasetFlag
	}
	if datasetPath == "" {
		return fmt.Errorf("no dataset: pass --dataset or set defaults.dataset_path")
	}

	format := appConfig.Defaults.Format
	if formatFlag != "" {
		format = formatFlag
	}

	protocolName := appConfig.Defaults.Protocol
	if protocolFlag != "" {
		protocolName = protocolFlag
	}
	protocol, ok := core.ParseProtocol(protocolName)
	if !ok {
		return fmt.Errorf("unknown protocol: %s (expected simple or critique)", protocolName)
	}

	temperature := appConfig.Defaults.Temperature
	if temperatureFlag >= 0 {
		temperature = temperatureFlag
	}

	workers := appConfig.Defaults.Workers
	if workersFlag > 0 {
		workers = workersFlag
	}

	limit := appConfig.Defaults.Limit
	if limitFlag > 0 {
		limit = limitFlag
	}

	if providerFlag != "" {
		appConfig.Provider.Name = providerFlag
	}
	if modelFlag != "" {
		appConfig.Provider.Model = modelFlag
	}

	registry := appConfig.CreateRegistry()
	prov, err := registry.Get(appConfig.Provider.Name)
	if err != nil {
		return err
	}

	accounts, err := dataset.Read(datasetPath, format, limit)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return fmt.Errorf("dataset contains no usable accounts: %s", datasetPath)
	}

	orch := debate.New(prov, debate.Options{
		Protocol:    protocol,
		Temperature: temperature,
	})

	fmt.Printf("\n🔎 Evaluating %d accounts\n", len(accounts))
	fmt.Printf("   Dataset:  %s (%s)\n", datasetPath, format)
	fmt.Printf("   Protocol: %s\n", protocol)
	fmt.Printf("   Provider: %s (%s)\n", prov.Name(), appConfig.Provider.Model)
	fmt.Println(strings.Repeat("─", 60))

	var store storage.Storage
	var run *core.Run
	if !noSaveFlag {
		store, err = getStorage()
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		now := time.Now()
		run = &core.Run{
			ID:          core.GenerateID(),
			DatasetPath: datasetPath,
			Format:      format,
			Protocol:    protocol,
			Provider:    prov.Name(),
			Model:       appConfig.Provider.Model,
			Temperature: temperature,
			Status:      core.StatusArguing,
			Total:       len(accounts),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.CreateRun(run); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\nInterrupted. Finishing in-flight debates...")
		cancel()
	}()

	harness := eval.NewHarness(orch, workers)
	harness.OnProgress(func(done, total int, res *core.AccountResult) {
		mark := "✓"
		detail := fmt.Sprintf("predicted %s, truth %s", res.Predicted, res.TrueLabel)
		if res.Status == core.StatusFailed {
			mark = "✗"
			detail = fmt.Sprintf("failed at %s", res.Stage)
		} else if !res.Correct() {
			mark = "✗"
		}
		fmt.Printf("[%d/%d] %s %s (%s)\n", done, total, mark, res.Username, detail)
	})

	report := harness.Evaluate(ctx, accounts)

	if run != nil {
		for _, res := range report.Results {
			res.RunID = run.ID
			if err := store.AddResult(res); err != nil {
				slog.Error("Failed to persist result", "username", res.Username, "error", err)
			}
		}

		run.Status = core.StatusClassified
		run.Metrics = &report.Metrics
		completed := time.Now()
		run.CompletedAt = &completed
		if err := store.UpdateRun(run); err != nil {
			slog.Error("Failed to persist run", "run", run.ID, "error", err)
		}
	}

	printMetrics(report.Metrics)
	if run != nil {
		fmt.Printf("\nSaved as run %s. Inspect with: botsleuth show %s\n", run.ID, run.ID)
	}

	return nil
}

func printMetrics(m core.Metrics) {
	fmt.Printf("\n%s\n", strings.Repeat("═", 60))
	fmt.Println("📊 PERFORMANCE")
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("Accounts:  %d", m.Total)
	if m.Failed > 0 {
		fmt.Printf(" (%d failed, defaulted to human)", m.Failed)
	}
	fmt.Println()
	fmt.Printf("Correct:   %d\n", m.Correct)
	fmt.Printf("Accuracy:  %.2f%%\n", m.Accuracy*100)
	fmt.Printf("Precision: %.2f%%\n", m.Precision*100)
	fmt.Printf("Recall:    %.2f%%\n", m.Recall*100)
	fmt.Printf("F1 Score:  %.2f%%\n", m.F1*100)
}

// ============================================================================
// ACCOUNT COMMAND
// ============================================================================

var (
	usernameFlag  string
	tweetsFlag    int
	retweetsFlag  int
	mentionsFlag  int
	followersFlag int
	verifiedFlag  bool
	locationFlag  string
	createdFlag   string
	hashtagsFlag  string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Classify a single account",
	Long: `Run the debate for one ad hoc account described by flags and print
the full transcript and verdict.

Example:
  botsleuth account --username spambot --tweets 9000 --retweets 4500 \
    --followers 3 --created "2023-11-11 00:00:00" --hashtags crypto,giveaway`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if usernameFlag == "" {
			return fmt.Errorf("--username is required")
		}

		protocolName := appConfig.Defaults.Protocol
		if protocolFlag != "" {
			protocolName = protocolFlag
		}
		protocol, ok := core.ParseProtocol(protocolName)
		if !ok {
			return fmt.Errorf("unknown protocol: %s (expected simple or critique)", protocolName)
		}

		if providerFlag != "" {
			appConfig.Provider.Name = providerFlag
		}
		registry := appConfig.CreateRegistry()
		prov, err := registry.Get(appConfig.Provider.Name)
		if err != nil {
			return err
		}

		acc := core.NewFlatAccount(0, usernameFlag, tweetsFlag, retweetsFlag,
			mentionsFlag, followersFlag, verifiedFlag, core.LabelHuman,
			locationFlag, createdFlag, hashtagsFlag)

		orch := debate.New(prov, debate.Options{
			Protocol:    protocol,
			Temperature: appConfig.Defaults.Temperature,
		})

		fmt.Printf("\n🔎 Debating account %s (%s protocol)\n", acc.Identifier(), protocol)
		fmt.Println(strings.Repeat("─", 60))

		res := orch.Classify(cmd.Context(), acc)
		if res.Status == core.StatusFailed {
			return fmt.Errorf("debate failed at %s: %s", res.Stage, res.Error)
		}

		tr := res.Transcript
		printSection("🤖 Bot Expert", tr.BotArgument)
		printSection("🙂 Human Expert", tr.HumanArgument)
		printSection("🤖 Bot Expert Critique", tr.BotCritique)
		printSection("🙂 Human Expert Critique", tr.HumanCritique)
		printSection("⚖️  Judge", tr.JudgeText)

		fmt.Printf("\n%s\n", strings.Repeat("═", 60))
		fmt.Printf("🏁 VERDICT: %s\n", strings.ToUpper(res.Predicted.String()))
		fmt.Println(strings.Repeat("═", 60))
		return nil
	},
}

func init() {
	accountCmd.Flags().StringVar(&usernameFlag, "username", "", "Account username (required)")
	accountCmd.Flags().IntVar(&tweetsFlag, "tweets", 0, "Total tweet count")
	accountCmd.Flags().IntVar(&retweetsFlag, "retweets", 0, "Retweet count")
	accountCmd.Flags().IntVar(&mentionsFlag, "mentions", 0, "Mention count")
	accountCmd.Flags().IntVar(&followersFlag, "followers", 0, "Follower count")
	accountCmd.Flags().BoolVar(&verifiedFlag, "verified", false, "Account is verified")
	accountCmd.Flags().StringVar(&locationFlag, "location", "", "Profile location")
	accountCmd.Flags().StringVar(&createdFlag, "created", "", "Creation time (2006-01-02 15:04:05)")
	accountCmd.Flags().StringVar(&hashtagsFlag, "hashtags", "", "Comma-separated hashtags")
	accountCmd.Flags().StringVarP(&protocolFlag, "protocol", "p", "", "Debate protocol: simple or critique")
	accountCmd.Flags().StringVar(&providerFlag, "provider", "", "Provider: openai or mock")
}

func printSection(title, content string) {
	if content == "" {
		return
	}
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("─", 40))
	fmt.Println(content)
}

// ============================================================================
// RESULTS COMMAND
// ============================================================================

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List saved runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(50, 0)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs found. Start one with: botsleuth run --dataset data.csv")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATASET\tPROTOCOL\tMODEL\tSTATUS\tACCOUNTS\tACCURACY\tCREATED")

		for _, r := range runs {
			datasetName := r.DatasetPath
			if len(datasetName) > 30 {
				datasetName = "..." + datasetName[len(datasetName)-27:]
			}
			accuracy := "-"
			if r.Status == core.StatusClassified {
				accuracy = fmt.Sprintf("%.2f%%", r.Accuracy*100)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				r.ID,
				datasetName,
				r.Protocol,
				r.Model,
				r.Status,
				r.Total,
				accuracy,
				r.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		w.Flush()

		return nil
	},
}

// ============================================================================
// SHOW COMMAND
// ============================================================================

var showTranscripts bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show run details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := findRunByPrefix(store, args[0])
		if err != nil {
			return err
		}

		run, err := store.GetRun(runID)
		if err != nil {
			return err
		}

		fmt.Printf("\n🔎 Run: %s\n", run.ID)
		fmt.Printf("   Dataset:  %s (%s)\n", run.DatasetPath, run.Format)
		fmt.Printf("   Protocol: %s\n", run.Protocol)
		fmt.Printf("   Provider: %s (%s)\n", run.Provider, run.Model)
		fmt.Printf("   Status:   %s\n", run.Status)
		fmt.Printf("   Created:  %s\n", run.CreatedAt.Format(time.RFC3339))

		if run.Metrics != nil {
			printMetrics(*run.Metrics)
		}

		results, err := store.GetResults(run.ID)
		if err != nil {
			return err
		}

		if len(results) > 0 {
			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ACCOUNT\tTRUTH\tPREDICTED\tOUTCOME")
			for _, res := range results {
				outcome := "correct"
				if res.Status == core.StatusFailed {
					outcome = "failed at " + res.Stage
				} else if !res.Correct() {
					outcome = "wrong"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Username, res.TrueLabel, res.Predicted, outcome)
			}
			w.Flush()
		}

		if showTranscripts {
			for _, res := range results {
				if res.Transcript == nil {
					continue
				}
				fmt.Printf("\n%s\n", strings.Repeat("═", 60))
				fmt.Printf("📢 %s\n", res.Username)
				fmt.Println(strings.Repeat("═", 60))
				printSection("🤖 Bot Expert", res.Transcript.BotArgument)
				printSection("🙂 Human Expert", res.Transcript.HumanArgument)
				printSection("🤖 Bot Expert Critique", res.Transcript.BotCritique)
				printSection("🙂 Human Expert Critique", res.Transcript.HumanCritique)
				printSection("⚖️  Judge", res.Transcript.JudgeText)
			}
		}

		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showTranscripts, "transcripts", false, "Print full debate transcripts")
}

// ============================================================================
// DELETE COMMAND
// ============================================================================

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := findRunByPrefix(store, args[0])
		if err != nil {
			return err
		}

		if err := store.DeleteRun(runID); err != nil {
			return err
		}

		fmt.Printf("Deleted run: %s\n", runID)
		return nil
	},
}

// ============================================================================
// EXPORT COMMAND
// ============================================================================

var exportCmd = &cobra.Command{
	Use:   "export [id] [format]",
	Short: "Export a run report to file",
	Long: `Export a run report to markdown, PDF, or JSON.

Examples:
  botsleuth export abc123 markdown
  botsleuth export abc123 pdf
  botsleuth export abc123 json -o report.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := findRunByPrefix(store, args[0])
		if err != nil {
			return err
		}

		run, err := store.GetRun(runID)
		if err != nil {
			return err
		}
		results, err := store.GetResults(runID)
		if err != nil {
			return err
		}

		format := export.Format(strings.ToLower(args[1]))
		exporter, err := export.GetExporter(format)
		if err != nil {
			return err
		}

		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			outputPath = export.GenerateFilename(run, exporter.FileExtension())
		}

		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer file.Close()

		if err := exporter.Export(run, results, file); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		fmt.Printf("Exported to: %s\n", outputPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file path")
}

// ============================================================================
// PROVIDERS COMMAND
// ============================================================================

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available completion providers",
	Run: func(cmd *cobra.Command, args []string) {
		registry := appConfig.CreateRegistry()

		fmt.Println("\nAvailable Providers:")
		fmt.Println(strings.Repeat("─", 50))
		for _, name := range registry.Names() {
			marker := " "
			if name == appConfig.Provider.Name {
				marker = "*"
			}
			fmt.Printf("  %s %s\n", marker, name)
		}
		if _, err := registry.Get("openai"); err != nil {
			fmt.Println("\nopenai is unavailable: set API_KEY (or provider.api_key) to enable it.")
		}
	},
}

// ============================================================================
// CONFIG COMMAND
// ============================================================================

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config file: %s\n\n", config.DefaultConfigPath())

		fmt.Println("Current settings:")
		fmt.Printf("  Protocol:    %s\n", appConfig.Defaults.Protocol)
		fmt.Printf("  Temperature: %.2f\n", appConfig.Defaults.Temperature)
		fmt.Printf("  Workers:     %d\n", appConfig.Defaults.Workers)
		fmt.Printf("  Format:      %s\n", appConfig.Defaults.Format)
		fmt.Printf("  Dataset:     %s\n", appConfig.Defaults.DatasetPath)
		fmt.Printf("  Provider:    %s (%s)\n", appConfig.Provider.Name, appConfig.Provider.Model)
		fmt.Printf("  Timeout:     %s\n", appConfig.Provider.Timeout)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create example config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}

		example := config.GenerateExample()
		if err := os.MkdirAll(strings.TrimSuffix(path, "/config.yaml"), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(example), 0644); err != nil {
			return err
		}

		fmt.Printf("Created config at: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// ============================================================================
// SERVE COMMAND
// ============================================================================

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the results API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("port") && appConfig.Server.Port != 0 {
			servePort = appConfig.Server.Port
		}

		store, err := getStorage()
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		fmt.Printf("\n🌐 Starting botsleuth API server on http://localhost:%d\n\n", servePort)
		fmt.Println("Available endpoints:")
		fmt.Printf("  GET  http://localhost:%d/api/runs                       - List runs\n", servePort)
		fmt.Printf("  GET  http://localhost:%d/api/runs/:id                   - Run details\n", servePort)
		fmt.Printf("  GET  http://localhost:%d/api/runs/:id/results           - Per-account results\n", servePort)
		fmt.Printf("  GET  http://localhost:%d/api/runs/:id/export/:format    - Export report\n", servePort)
		fmt.Println("\nPress Ctrl+C to stop the server")

		h := handlers.New(store)
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", servePort),
			Handler: h.Routes(),
		}

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			fmt.Println("\nShutting down...")
			server.Close()
		}()

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8183, "Server port")
}

// ============================================================================
// HELPERS
// ============================================================================

func findRunByPrefix(store storage.Storage, prefix string) (string, error) {
	runs, err := store.ListRuns(100, 0)
	if err != nil {
		return "", err
	}
	for _, r := range runs {
		if strings.HasPrefix(r.ID, prefix) {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("run not found: %s", prefix)
}
