package main

import (
	"log"
	"sort"
	"time"
)

// maxLoggedUnrecognized caps how many unrecognized statements are echoed.
const maxLoggedUnrecognized = 5

// Options configures a single dump conversion.
type Options struct {
	Config     *ConvertConfig
	Source     string           // shown in the script header
	Now        func() time.Time // defaults to time.Now
	BeforeBody string           // inlined before_body hooks
	AfterBody  string           // inlined after_body hooks
}

// convertDump runs the pipeline on an in-memory dump: optional
// normalization, the inventory pass, the rewrite pass and script assembly.
// For a fixed clock the output is a pure function of the input.
func convertDump(dump string, opts Options) (string, ConvertStats) {
	cfg := opts.Config
	if cfg == nil {
		def := defaultConfig()
		cfg = &def
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var stats ConvertStats
	if cfg.Normalize {
		res := normalizeDump(dump)
		stats.Normalize = &res
		dump = res.Text
		if res.Fixes() > 0 {
			log.Printf("normalizer: %d trailing comma(s) removed, %d index declaration(s) relocated",
				res.TrailingCommas, res.RelocatedIndexes)
		}
	}

	stats.Inventory = buildInventory(dump)
	if len(stats.Inventory.Tables) == 0 {
		log.Printf("WARN: no tables found in dump; the script will only contain the preamble")
	}

	body, rw := rewriteDump(dump, cfg.TypeMapping)
	stats.Rewrites = rw.Rewrites
	stats.Unrecognized = rw.Unrecognized
	stats.TransactionControlDropped = rw.TransactionControlDropped
	stats.LockStatementsDropped = rw.LockStatementsDropped
	stats.Warnings = collectWarnings(dump, rw.Unrecognized)
	logRewriteStats(stats)

	script := assembleScript(cfg, ScriptInput{
		Source:      opts.Source,
		GeneratedAt: now(),
		Body:        body,
		Inventory:   stats.Inventory,
		BeforeBody:  opts.BeforeBody,
		AfterBody:   opts.AfterBody,
	})
	return script, stats
}

// collectWarnings gathers the compatibility reports for a normalized dump.
func collectWarnings(dump string, unrecognized []string) []string {
	var warnings []string
	warnings = append(warnings, collectIndexCompatibilityWarnings(dump)...)
	warnings = append(warnings, collectCollationWarnings(dump)...)
	warnings = append(warnings, collectGeneratedColumnWarnings(dump)...)
	warnings = append(warnings, collectUnsupportedTypeWarnings(dump)...)
	warnings = append(warnings, sourceObjectWarnings(collectSourceObjects(unrecognized))...)
	return warnings
}

func logRewriteStats(stats ConvertStats) {
	names := make([]string, 0, len(stats.Rewrites))
	for name, n := range stats.Rewrites {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		log.Printf("  rule %s: %d", name, stats.Rewrites[name])
	}
	if stats.TransactionControlDropped > 0 || stats.LockStatementsDropped > 0 {
		log.Printf("  disabled %d transaction control and %d LOCK/UNLOCK statement(s)",
			stats.TransactionControlDropped, stats.LockStatementsDropped)
	}
	if len(stats.Warnings) > 0 {
		log.Printf("compatibility report: %d item(s) may require manual handling", len(stats.Warnings))
		for _, w := range stats.Warnings {
			log.Printf("  WARN: %s", w)
		}
	}
	if len(stats.Unrecognized) == 0 {
		return
	}
	log.Printf("unrecognized statements: %d (passed through unchanged)", len(stats.Unrecognized))
	for i, s := range stats.Unrecognized {
		if i == maxLoggedUnrecognized {
			log.Printf("  ... and %d more", len(stats.Unrecognized)-i)
			break
		}
		log.Printf("  WARN: %s", truncate(s, 120))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
