package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// ScriptInput is everything assembleScript lays out around the converted body.
type ScriptInput struct {
	Source      string // dump name shown in the provenance header
	GeneratedAt time.Time
	Body        string
	Inventory   Inventory
	BeforeBody  string // inlined before_body hooks
	AfterBody   string // inlined after_body hooks
}

// mappingTableIdent returns the quoted, optionally schema-qualified name of
// the identifier mapping table.
func mappingTableIdent(cfg *ConvertConfig) string {
	if cfg.MappingSchema != "" {
		return pgx.Identifier{cfg.MappingSchema, cfg.MappingTable}.Sanitize()
	}
	return pgx.Identifier{cfg.MappingTable}.Sanitize()
}

// assembleScript wraps the converted body in a single transaction that first
// prepares UUID generation and the identifier mapping table. Every preamble
// statement is idempotent, so the script can be re-run against a database
// where a previous attempt rolled back or the preamble already exists.
func assembleScript(cfg *ConvertConfig, in ScriptInput) string {
	var b strings.Builder
	mapping := mappingTableIdent(cfg)

	fmt.Fprintf(&b, "-- MySQL to PostgreSQL migration generated by dumpferry %s\n", versionString())
	if in.Source != "" {
		fmt.Fprintf(&b, "-- Source: %s\n", in.Source)
	}
	fmt.Fprintf(&b, "-- Generated at: %s\n", in.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "-- Tables: %d, records: %d\n\n", len(in.Inventory.Tables), in.Inventory.Total())

	b.WriteString("BEGIN;\n\n")

	fmt.Fprintf(&b, "CREATE EXTENSION IF NOT EXISTS %s;\n\n", pgIdent(cfg.UUIDExtension))
	if cfg.MappingSchema != "" {
		fmt.Fprintf(&b, "CREATE SCHEMA IF NOT EXISTS %s;\n\n", pgx.Identifier{cfg.MappingSchema}.Sanitize())
	}
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", mapping)
	b.WriteString("    table_name TEXT NOT NULL,\n")
	b.WriteString("    legacy_id BIGINT NOT NULL,\n")
	fmt.Fprintf(&b, "    new_uuid UUID NOT NULL DEFAULT %s,\n", cfg.uuidFunction())
	b.WriteString("    PRIMARY KEY (table_name, legacy_id)\n")
	b.WriteString(");\n\n")

	if in.BeforeBody != "" {
		b.WriteString(in.BeforeBody)
		b.WriteString("\n")
	}

	if body := strings.TrimSpace(in.Body); body != "" {
		b.WriteString("-- Converted schema and data\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	if cfg.PopulateIDMap {
		if stmts := mappingInserts(mapping, in.Inventory); len(stmts) > 0 {
			b.WriteString("-- Legacy id mapping\n")
			for _, s := range stmts {
				b.WriteString(s)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if stmts := sequenceResets(in.Inventory); len(stmts) > 0 {
		b.WriteString("-- Sequence resets\n")
		for _, s := range stmts {
			b.WriteString(s)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if in.AfterBody != "" {
		b.WriteString(in.AfterBody)
		b.WriteString("\n")
	}

	status := fmt.Sprintf("migration complete: %d tables, %d records", len(in.Inventory.Tables), in.Inventory.Total())
	fmt.Fprintf(&b, "SELECT %s AS migration_status;\n\n", pgLiteral(status))
	b.WriteString("COMMIT;\n")
	return b.String()
}

// mappingInserts records every migrated legacy key in the mapping table. The
// UUID itself comes from the column default at execution time.
func mappingInserts(mapping string, inv Inventory) []string {
	var stmts []string
	for _, t := range inv.Tables {
		if !t.Defined || t.keyRef == "" {
			continue
		}
		stmts = append(stmts, fmt.Sprintf(
			"INSERT INTO %s (table_name, legacy_id) SELECT %s, %s FROM %s ON CONFLICT (table_name, legacy_id) DO NOTHING;",
			mapping, pgLiteral(t.Name), t.keyRef, t.ref,
		))
	}
	return stmts
}

// sequenceResets moves every serial sequence past the legacy ids inserted by
// the body, so the next generated id does not collide with migrated rows.
func sequenceResets(inv Inventory) []string {
	var stmts []string
	for _, t := range inv.Tables {
		if !t.Defined || t.keyRef == "" {
			continue
		}
		// pg_get_serial_sequence parses the table argument as a name (quotes
		// keep case) and takes the column argument verbatim.
		column := t.LegacyKey
		if !strings.HasPrefix(t.keyRef, `"`) {
			column = strings.ToLower(column)
		}
		stmts = append(stmts, fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence(%s, %s), COALESCE((SELECT MAX(%s) FROM %s), 0) + 1, false);",
			pgLiteral(t.ref), pgLiteral(column), t.keyRef, t.ref,
		))
	}
	return stmts
}
