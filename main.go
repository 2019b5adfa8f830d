package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	configPath string
	outputPath string
	normalize  bool
	showReport bool
	showDiff   bool
	timeBudget time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "dumpferry",
	Short:         "MySQL dump to PostgreSQL migration script converter",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert <dump.sql>",
	Short: "Convert a MySQL dump into a transactional PostgreSQL migration script",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <dump.sql>",
	Short: "Repair trailing commas and in-body index declarations in a dump",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory <dump.sql>",
	Short: "Print the tables of a dump and their record counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runInventory,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dumpferry version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	convertCmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output script path (default <dump>.pg.sql)")
	convertCmd.Flags().BoolVar(&normalize, "normalize", true, "run the syntax normalizer before converting")
	convertCmd.Flags().BoolVar(&showReport, "report", true, "print the inventory report")
	convertCmd.Flags().DurationVar(&timeBudget, "time-budget", 5*time.Minute, "abort when conversion exceeds this duration (0 disables)")

	normalizeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output dump path (default <dump>.normalized.sql)")
	normalizeCmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff of the repairs")

	rootCmd.AddCommand(convertCmd, normalizeCmd, inventoryCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	// Flags override the config file only when set explicitly.
	if cmd.Flags().Changed("normalize") {
		cfg.Normalize = normalize
	}
	var out string
	switch {
	case outputPath != "":
		out = outputPath
	case cfg.Output != "":
		out = cfg.resolvePath(cfg.Output)
	default:
		out = derivedPath(args[0], ".pg.sql")
	}

	start := time.Now()
	log.Printf("dumpferry %s: MySQL dump → PostgreSQL script", versionString())
	log.Printf(
		"config: normalize=%t mapping_table=%s uuid_extension=%s populate_id_map=%t tinyint1_as_boolean=%t datetime_as_timestamptz=%t json_as_jsonb=%t",
		cfg.Normalize,
		mappingTableIdent(cfg),
		cfg.UUIDExtension,
		cfg.PopulateIDMap,
		cfg.TypeMapping.TinyInt1AsBoolean,
		cfg.TypeMapping.DatetimeAsTimestamptz,
		cfg.TypeMapping.JSONAsJSONB,
	)

	log.Printf("reading %s...", args[0])
	dump, err := readDump(args[0])
	if err != nil {
		return err
	}
	log.Printf("  %s read", humanize.Bytes(uint64(len(dump))))

	before, err := loadHookSQL(cfg, cfg.Hooks.BeforeBody, "before_body")
	if err != nil {
		return err
	}
	after, err := loadHookSQL(cfg, cfg.Hooks.AfterBody, "after_body")
	if err != nil {
		return err
	}

	script, stats, err := convertWithBudget(dump, Options{
		Config:     cfg,
		Source:     filepath.Base(args[0]),
		BeforeBody: before,
		AfterBody:  after,
	}, timeBudget)
	if err != nil {
		return err
	}

	if err := writeScript(out, script); err != nil {
		return err
	}

	log.Printf("found %d tables, %s records", len(stats.Inventory.Tables), humanize.Comma(int64(stats.Inventory.Total())))
	if showReport {
		fmt.Fprintln(cmd.OutOrStdout(), renderInventory(stats.Inventory))
	}
	log.Printf("wrote %s (%s) in %s", out, humanize.Bytes(uint64(len(script))), time.Since(start).Round(time.Millisecond))
	log.Printf("next: review the script, then run it with: psql -v ON_ERROR_STOP=1 -f %s", out)
	return nil
}

// convertWithBudget runs convertDump and gives up once budget has passed.
// The conversion itself is CPU-bound and cannot be interrupted, so an
// overrun is reported while the worker finishes in the background.
func convertWithBudget(dump string, opts Options, budget time.Duration) (string, ConvertStats, error) {
	if budget <= 0 {
		script, stats := convertDump(dump, opts)
		return script, stats, nil
	}
	type result struct {
		script string
		stats  ConvertStats
	}
	done := make(chan result, 1)
	go func() {
		script, stats := convertDump(dump, opts)
		done <- result{script, stats}
	}()
	select {
	case r := <-done:
		return r.script, r.stats, nil
	case <-time.After(budget):
		return "", ConvertStats{}, fmt.Errorf("conversion exceeded time budget of %s", budget)
	}
}

func runNormalize(cmd *cobra.Command, args []string) error {
	dump, err := readDump(args[0])
	if err != nil {
		return err
	}
	res := normalizeDump(dump)

	out := outputPath
	if out == "" {
		out = derivedPath(args[0], ".normalized.sql")
	}
	if err := writeScript(out, res.Text); err != nil {
		return err
	}

	log.Printf("normalizer: %d fixes (%d trailing commas, %d relocated indexes)",
		res.Fixes(), res.TrailingCommas, res.RelocatedIndexes)
	for _, idx := range res.Indexes {
		log.Printf("  %s", idx)
	}
	if showDiff && res.Fixes() > 0 {
		if err := writeNormalizeDiff(cmd.OutOrStdout(), dump, res.Text); err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}
	log.Printf("wrote %s", out)
	return nil
}

func runInventory(cmd *cobra.Command, args []string) error {
	dump, err := readDump(args[0])
	if err != nil {
		return err
	}
	inv := buildInventory(dump)
	if len(inv.Tables) == 0 {
		log.Printf("WARN: no tables found in %s", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderInventory(inv))
	return nil
}

// derivedPath replaces the input's extension with suffix.
func derivedPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
