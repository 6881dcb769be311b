// Package main provides the momentumx-cli entrypoint: resolve today's split,
// parse or generate workouts locally, sync them to a server and expose a remote
// account over stdio MCP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/config"
	"github.com/momentumx/momentumx/internal/gemini"
	"github.com/momentumx/momentumx/internal/mcp"
	"github.com/momentumx/momentumx/internal/prompt"
	"github.com/momentumx/momentumx/internal/schedule"
	"github.com/momentumx/momentumx/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const (
	defaultSplit      = string(schedule.SplitUpperLower)
	defaultDifficulty = "intermediate"
	defaultHistory    = 10
	displayDate       = "Monday, January 2, 2006"
	generateTimeout   = 2 * time.Minute
)

var (
	configPath string

	daySplit    string
	dayOverride string
	dayWeekday  int

	parseFormat string
	parseType   string

	genDifficulty string
	genNoSave     bool

	historyLast int
	historyShow int64

	syncDryRun bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "momentumx-cli",
		Short:         "Workout split planner and parser",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", cli.DefaultConfigPath(), "path to TOML config")

	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMCPCmd())
	return rootCmd
}

func addDayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&daySplit, "split", defaultSplit, "split schedule ("+strings.Join(splitNames(), ", ")+")")
	cmd.Flags().StringVar(&dayOverride, "override", schedule.Auto, "day override, or auto to follow the split")
	cmd.Flags().IntVar(&dayWeekday, "weekday", -1, "day of week 0-6 (Sunday = 0); default today")
}

func newTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the workout type and focus for a day",
		Args:  cobra.NoArgs,
		RunE:  runTodayCmd,
	}
	addDayFlags(cmd)
	return cmd
}

func runTodayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := cli.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	weekday, day, err := resolveDay(cmd, fileCfg, time.Now())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return cli.NewRenderer(out).Day(out, schedule.DayName(weekday), day)
}

// resolveDay applies config values to flags not set on the command line and
// resolves the selected weekday.
func resolveDay(cmd *cobra.Command, fileCfg cli.FileConfig, now time.Time) (int, schedule.ResolvedDay, error) {
	applyStringConfig(cmd, "split", &daySplit, fileCfg.Profile.Split)
	applyStringConfig(cmd, "override", &dayOverride, fileCfg.Profile.Override)

	weekday := dayWeekday
	if weekday < 0 {
		weekday = int(now.Weekday())
	}
	day, err := schedule.Resolve(schedule.Splits, schedule.Overrides, schedule.Split(daySplit), dayOverride, weekday)
	if err != nil {
		return 0, schedule.ResolvedDay{}, fmt.Errorf("resolving day: %w", err)
	}
	return weekday, day, nil
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse workout text into blocks",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runParseCmd,
	}
	cmd.Flags().StringVar(&parseFormat, "format", "text", "output format: text, json or html")
	cmd.Flags().StringVar(&parseType, "type", "Custom", "workout type shown in the header")
	return cmd
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	src := "-"
	if len(args) == 1 {
		src = args[0]
	}
	text, err := readInput(cmd.InOrStdin(), src)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("workout text is empty")
	}

	doc := workout.Build(text, workout.Meta{WorkoutType: parseType, Date: time.Now().Format(displayDate)})
	return writeDocument(cmd.OutOrStdout(), doc, parseFormat)
}

func readInput(stdin io.Reader, src string) (string, error) {
	if src == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}
	return string(data), nil
}

func writeDocument(out io.Writer, doc workout.Document, format string) error {
	switch format {
	case "text":
		return cli.NewRenderer(out).Document(out, doc)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			workout.Document
			ItemCount int            `json:"item_count"`
			Chips     []workout.Chip `json:"chips"`
		}{doc, doc.ItemCount(), doc.Chips()})
	case "html":
		html, err := workout.RenderHTML(doc)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, string(html))
		return err
	default:
		return fmt.Errorf("--format must be text, json or html")
	}
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate today's workout with Gemini and save it locally",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	addDayFlags(cmd)
	cmd.Flags().StringVar(&genDifficulty, "difficulty", defaultDifficulty, "beginner, intermediate or advanced")
	cmd.Flags().BoolVar(&genNoSave, "no-save", false, "do not store the workout in local history")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := cli.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "difficulty", &genDifficulty, fileCfg.Profile.Difficulty)

	now := time.Now()
	_, day, err := resolveDay(cmd, fileCfg, now)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	r := cli.NewRenderer(out)
	date := now.Format(displayDate)
	if day.IsRest() {
		return r.RestDay(out, date)
	}

	machines := fileCfg.Profile.Machines
	if len(machines) == 0 {
		return fmt.Errorf("no machines configured: add machines to [profile] in %s", configPath)
	}
	client, err := geminiClient(fileCfg.Gemini)
	if err != nil {
		return err
	}

	opts := promptOptions(fileCfg.Profile, day, machines)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, generateTimeout)
	defer cancelTimeout()

	logErrf("Generating %s workout with %s...\n", day.WorkoutType, client.Model())
	text, err := client.Generate(ctx, prompt.Build(opts))
	if err != nil {
		return fmt.Errorf("failed to generate workout: %w", err)
	}

	doc := workout.Build(text, workout.Meta{
		WorkoutType: day.WorkoutType,
		Date:        date,
		Difficulty:  genDifficulty,
		SplitType:   daySplit,
		RepsStyle:   opts.RepsStyle,
		RestSeconds: opts.RestSeconds,
	})
	if err := r.Document(out, doc); err != nil {
		return err
	}
	if genNoSave {
		return nil
	}

	hist, err := cli.OpenHistory(cli.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := hist.Close(); cerr != nil {
			logErrf("failed to close history: %v\n", cerr)
		}
	}()
	id, err := hist.Insert(ctx, cli.Entry{
		CreatedAt:   now,
		WorkoutDate: now.Format("2006-01-02"),
		WorkoutType: day.WorkoutType,
		Focus:       day.WorkoutFocus,
		SplitType:   daySplit,
		Difficulty:  genDifficulty,
		Model:       client.Model(),
		Content:     text,
	})
	if err != nil {
		return fmt.Errorf("failed to save workout: %w", err)
	}
	logErrf("Saved as #%d\n", id)
	return nil
}

func geminiClient(c cli.GeminiConfig) (*gemini.Client, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if c.APIKey != nil && *c.APIKey != "" {
		key = *c.APIKey
	}
	if key == "" {
		return nil, fmt.Errorf("no Gemini API key: set api-key under [gemini] or GEMINI_API_KEY")
	}
	baseURL, model := config.DefaultGeminiBaseURL, config.DefaultGeminiModel
	if c.BaseURL != nil && *c.BaseURL != "" {
		baseURL = *c.BaseURL
	}
	if c.Model != nil && *c.Model != "" {
		model = *c.Model
	}
	return gemini.NewClient(baseURL, key, model, config.DefaultGeminiTimeout), nil
}

func promptOptions(p cli.ProfileConfig, day schedule.ResolvedDay, machines []string) prompt.Options {
	return prompt.Options{
		WorkoutType:        day.WorkoutType,
		Focus:              day.WorkoutFocus,
		Difficulty:         genDifficulty,
		Machines:           machines,
		RepsStyle:          deref(p.RepsStyle, "auto"),
		RepsMin:            deref(p.RepsMin, prompt.DefaultRepsMin),
		RepsMax:            deref(p.RepsMax, prompt.DefaultRepsMax),
		ExercisesPerMuscle: deref(p.ExercisesPerMuscle, "auto"),
		SetsPerExercise:    deref(p.SetsPerExercise, "auto"),
		RestSeconds:        deref(p.RestSeconds, "auto"),
		IncludeBodyweight:  deref(p.IncludeBodyweight, true),
		FocusedMuscle:      deref(p.FocusedMuscle, "none"),
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or show locally generated workouts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistory, "number of workouts to list")
	cmd.Flags().Int64Var(&historyShow, "show", 0, "render the workout with this ID")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast <= 0 {
		return fmt.Errorf("--last must be > 0")
	}
	hist, err := cli.OpenHistory(cli.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := hist.Close(); cerr != nil {
			logErrf("failed to close history: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if historyShow > 0 {
		e, err := hist.Get(ctx, historyShow)
		if err != nil {
			return err
		}
		date := e.CreatedAt.Local().Format(displayDate)
		doc := workout.Build(e.Content, workout.Meta{
			WorkoutType: e.WorkoutType,
			Date:        date,
			Difficulty:  e.Difficulty,
			SplitType:   e.SplitType,
		})
		return cli.NewRenderer(out).Document(out, doc)
	}

	entries, err := hist.Recent(ctx, historyLast)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No workouts yet. Run: momentumx-cli generate")
		return err
	}
	return writeHistoryTable(out, entries)
}

func writeHistoryTable(out io.Writer, entries []cli.Entry) error {
	headers := []string{"ID", "DATE", "TYPE", "FOCUS"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{fmt.Sprint(e.ID), e.WorkoutDate, e.WorkoutType, e.Focus})
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range append([][]string{headers}, rows...) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		if _, err := fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload locally generated workouts to the server",
		Args:  cobra.NoArgs,
		RunE:  runSyncCmd,
	}
	cmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "list pending workouts without uploading")
	return cmd
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := cli.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	var client *cli.Client
	if !syncDryRun {
		url, token := deref(fileCfg.Server.URL, ""), deref(fileCfg.Server.Token, "")
		if url == "" || token == "" {
			return fmt.Errorf("no server configured: set url and token under [server] in %s", configPath)
		}
		client = cli.NewClient(url, token)
	}

	hist, err := cli.OpenHistory(cli.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := hist.Close(); cerr != nil {
			logErrf("failed to close history: %v\n", cerr)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelInfo}))
	stats, runErr := cli.NewSyncer(client, hist, syncDryRun, log).Run(ctx)
	if stats != nil {
		if err := printSyncStats(cmd.OutOrStdout(), stats, syncDryRun); err != nil {
			return err
		}
	}
	return runErr
}

func printSyncStats(out io.Writer, stats *cli.SyncStats, dryRun bool) error {
	var err error
	if dryRun {
		_, err = fmt.Fprintf(out, "Pending: %d\n", stats.Pending)
	} else {
		_, err = fmt.Fprintf(out, "Pending: %d  Synced: %d  Errors: %d\n", stats.Pending, stats.Synced, stats.Errored)
	}
	return err
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create the config file if missing and print its path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wrote, err := cli.WriteDefaultConfig(configPath)
			if err != nil {
				return err
			}
			if wrote {
				logErrf("Wrote default config\n")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), configPath)
			return err
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve a remote MomentumX account over stdio MCP",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fileCfg, err := cli.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			url := deref(fileCfg.Server.URL, "")
			if url == "" {
				return fmt.Errorf("no server configured: set url under [server] in %s", configPath)
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
			ds := mcp.NewHTTPClient(url, deref(fileCfg.Server.Token, ""))
			log.Info("mcp stdio starting", "server", url)
			return mcpserver.ServeStdio(mcp.New(ds, Version, log))
		},
	}
}

func splitNames() []string {
	return []string{
		string(schedule.SplitUpperLower),
		string(schedule.SplitPushPullLegs),
		string(schedule.SplitFullBody),
		string(schedule.SplitBro),
	}
}

func deref[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
