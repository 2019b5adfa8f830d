package main

import (
	"reflect"
	"testing"
)

func TestCollectGeneratedColumnWarnings(t *testing.T) {
	dump := "CREATE TABLE g (\n" +
		"  a INT,\n" +
		"  b INT GENERATED ALWAYS AS ((a * 2)) VIRTUAL,\n" +
		"  c INT AS (a + 1) STORED,\n" +
		"  d INT AS (a + 2) virtual,\n" +
		"  e VARCHAR(10) DEFAULT ') STORED'\n" +
		");\n" +
		"CREATE TABLE plain (a INT);\n"

	got := collectGeneratedColumnWarnings(dump)
	want := []string{
		"g: 2 VIRTUAL generated column(s); PostgreSQL needs STORED (or a view) for these",
		"g: 1 STORED generated column(s); check the expressions use PostgreSQL functions",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("collectGeneratedColumnWarnings() = %q, want %q", got, want)
	}
}
