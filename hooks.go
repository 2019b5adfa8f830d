package main

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// loadHookSQL reads each SQL file, expands {{mapping_table}}, and returns the
// files' contents ready to be inlined into the migration script. Hook files
// are PostgreSQL and are copied verbatim, never rewritten.
func loadHookSQL(cfg *ConvertConfig, files []string, phase string) (string, error) {
	if len(files) == 0 {
		return "", nil
	}
	log.Printf("  inlining %s hooks (%d files)...", phase, len(files))

	var b strings.Builder
	for _, f := range files {
		path := cfg.resolvePath(f)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("hook %s: read %s: %w", phase, f, err)
		}

		sql := strings.ReplaceAll(string(data), "{{mapping_table}}", mappingTableIdent(cfg))
		log.Printf("    %s: %d statements", f, len(executableStatements(sql)))

		fmt.Fprintf(&b, "-- hook %s: %s\n", phase, f)
		b.WriteString(strings.TrimSpace(sql))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// executableStatements splits SQL into trimmed statements without their
// terminating semicolon, dropping chunks that hold only whitespace and
// comments. Dollar-quoted bodies are not recognized, so the result is only
// an estimate for PostgreSQL function definitions.
func executableStatements(sql string) []string {
	var stmts []string
	for _, chunk := range splitStatements(sql) {
		if classifyStatement(statementCode(chunk)) == stmtBlank {
			continue
		}
		s := strings.TrimSpace(chunk)
		s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
		stmts = append(stmts, s)
	}
	return stmts
}
