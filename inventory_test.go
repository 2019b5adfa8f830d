package main

import (
	"reflect"
	"testing"
)

func TestBuildInventory(t *testing.T) {
	dump := "CREATE TABLE `users` (`id` INT(11) NOT NULL AUTO_INCREMENT, name VARCHAR(10));\n" +
		"CREATE TABLE empty_t (x INT);\n" +
		"INSERT INTO `users` VALUES (1,'a');\n" +
		"INSERT INTO `users` VALUES (2,'b;c');\n" +
		"-- INSERT INTO `users` VALUES (3,'commented');\n" +
		"INSERT INTO `app`.`orders` VALUES (1);\n"

	inv := buildInventory(dump)

	wantCounts := map[string]int{"users": 2, "empty_t": 0, "orders": 1}
	if got := inv.Counts(); !reflect.DeepEqual(got, wantCounts) {
		t.Fatalf("Counts() = %v, want %v", got, wantCounts)
	}
	if inv.Total() != 3 {
		t.Fatalf("Total() = %d, want 3", inv.Total())
	}

	var order []string
	for _, e := range inv.Tables {
		order = append(order, e.Name)
	}
	if want := []string{"users", "empty_t", "orders"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("table order = %v, want %v", order, want)
	}

	users, ok := inv.Lookup("users")
	if !ok {
		t.Fatal("users missing from inventory")
	}
	if !users.Defined || users.LegacyKey != "id" {
		t.Fatalf("users = %+v, want defined with legacy key id", users)
	}
	if users.ref != `"users"` || users.keyRef != `"id"` {
		t.Fatalf("users refs = %q, %q", users.ref, users.keyRef)
	}

	orders, _ := inv.Lookup("orders")
	if orders.Defined {
		t.Fatal("orders has no CREATE TABLE and must not be marked defined")
	}
	if orders.ref != `"app"."orders"` {
		t.Fatalf("orders ref = %q", orders.ref)
	}

	empty, _ := inv.Lookup("empty_t")
	if empty.LegacyKey != "" {
		t.Fatalf("empty_t LegacyKey = %q, want none", empty.LegacyKey)
	}
}

func TestBuildInventoryEmptyDump(t *testing.T) {
	for _, dump := range []string{"", "-- nothing here\n", "SET NAMES utf8mb4;\n"} {
		inv := buildInventory(dump)
		if len(inv.Tables) != 0 || inv.Total() != 0 {
			t.Fatalf("buildInventory(%q) = %+v, want empty", dump, inv)
		}
	}
}

func TestClassifyStatement(t *testing.T) {
	tests := []struct {
		code string
		want statementKind
	}{
		{"", stmtBlank},
		{";", stmtBlank},
		{"CREATE TABLE t (a INT);", stmtCreateTable},
		{"create temporary table t (a int);", stmtCreateTable},
		{"ALTER TABLE t ADD COLUMN b INT;", stmtAlterTable},
		{"INSERT INTO t VALUES (1);", stmtInsert},
		{"INSERT IGNORE INTO t VALUES (1);", stmtInsert},
		{"CREATE UNIQUE INDEX i ON t(a);", stmtCreateIndex},
		{"DROP TABLE IF EXISTS t;", stmtDrop},
		{"SET NAMES utf8mb4;", stmtSet},
		{"START TRANSACTION;", stmtTransactionControl},
		{"BEGIN;", stmtTransactionControl},
		{"COMMIT;", stmtTransactionControl},
		{"LOCK TABLES `t` WRITE;", stmtLock},
		{"UNLOCK TABLES;", stmtLock},
		{"CREATE VIEW v AS SELECT 1;", stmtOther},
		{"SETTINGS x;", stmtOther},
	}
	for _, tt := range tests {
		if got := classifyStatement(tt.code); got != tt.want {
			t.Errorf("classifyStatement(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestTableNameOf(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"users", "users"},
		{"`users`", "users"},
		{"`app`.`users`", "users"},
		{`"app"."Users"`, "Users"},
		{"`we.ird`", "we.ird"},
		{"`a``b`", "a`b"},
	}
	for _, tt := range tests {
		if got := tableNameOf(tt.ref); got != tt.want {
			t.Errorf("tableNameOf(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestBuildInventoryKeepsIdentifierWhitespace(t *testing.T) {
	dump := "CREATE TABLE `my  table` (`row  id` INT AUTO_INCREMENT);\n" +
		"INSERT INTO   `my  table`\n  VALUES (1);\n"
	inv := buildInventory(dump)

	e, ok := inv.Lookup("my  table")
	if !ok {
		t.Fatalf("inventory = %+v, want entry %q", inv.Tables, "my  table")
	}
	if e.Records != 1 || e.ref != `"my  table"` {
		t.Fatalf("entry = %+v, want 1 record with ref %q", e, `"my  table"`)
	}
	if e.LegacyKey != "row  id" || e.keyRef != `"row  id"` {
		t.Fatalf("legacy key = %q (%s), want %q", e.LegacyKey, e.keyRef, "row  id")
	}
}
