package main

// TableInventoryEntry is one table found in a dump.
type TableInventoryEntry struct {
	Name      string
	Records   int    // number of INSERT statements attributed to the table
	LegacyKey string // auto-increment column of the definition, "" if none
	Defined   bool   // a CREATE TABLE statement was seen

	// PostgreSQL references to the table and its legacy key as they appear
	// in the rewritten script.
	ref    string
	keyRef string
}

// Inventory holds every table of a dump in first-seen order.
type Inventory struct {
	Tables []TableInventoryEntry
	index  map[string]int
}

func (inv *Inventory) entry(name string) *TableInventoryEntry {
	if inv.index == nil {
		inv.index = make(map[string]int)
	}
	i, ok := inv.index[name]
	if !ok {
		i = len(inv.Tables)
		inv.index[name] = i
		inv.Tables = append(inv.Tables, TableInventoryEntry{Name: name})
	}
	return &inv.Tables[i]
}

// Lookup returns the entry for a table name.
func (inv *Inventory) Lookup(name string) (TableInventoryEntry, bool) {
	i, ok := inv.index[name]
	if !ok {
		return TableInventoryEntry{}, false
	}
	return inv.Tables[i], true
}

// Counts returns the inventory as a table name → record count mapping.
func (inv *Inventory) Counts() map[string]int {
	counts := make(map[string]int, len(inv.Tables))
	for _, t := range inv.Tables {
		counts[t.Name] = t.Records
	}
	return counts
}

// Total returns the sum of all record counts.
func (inv *Inventory) Total() int {
	n := 0
	for _, t := range inv.Tables {
		n += t.Records
	}
	return n
}

// NormalizeResult is the outcome of the syntax normalizer.
type NormalizeResult struct {
	Text             string
	TrailingCommas   int
	RelocatedIndexes int
	Indexes          []string // synthesized CREATE INDEX statements, first-seen order
}

// Fixes returns the total number of repairs applied.
func (r NormalizeResult) Fixes() int {
	return r.TrailingCommas + r.RelocatedIndexes
}

// ConvertStats summarizes a dump conversion for logging or display.
type ConvertStats struct {
	Inventory                 Inventory
	Normalize                 *NormalizeResult // nil when the normalizer was skipped
	Unrecognized              []string         // statements passed through without a known shape
	TransactionControlDropped int
	LockStatementsDropped     int
	Rewrites                  map[string]int // rule name → number of applications
	Warnings                  []string       // constructs that need manual review
}
