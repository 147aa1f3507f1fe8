package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "plain statements",
			script: "CREATE TABLE a (id int);\nINSERT INTO a VALUES (1);",
			want:   []string{"CREATE TABLE a (id int)", "INSERT INTO a VALUES (1)"},
		},
		{
			name:   "trailing statement without terminator",
			script: "SELECT 1;\nSELECT 2",
			want:   []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:   "semicolon in string with doubled quote",
			script: "INSERT INTO t VALUES ('it''s; fine');SELECT 1;",
			want:   []string{"INSERT INTO t VALUES ('it''s; fine')", "SELECT 1"},
		},
		{
			name:   "semicolon in escape string",
			script: `INSERT INTO t VALUES (E'a\'; b');SELECT 1;`,
			want:   []string{`INSERT INTO t VALUES (E'a\'; b')`, "SELECT 1"},
		},
		{
			name:   "semicolon in quoted identifier",
			script: `CREATE TABLE "odd;name" (id int);`,
			want:   []string{`CREATE TABLE "odd;name" (id int)`},
		},
		{
			name:   "comments are dropped",
			script: "-- header; with semicolon\nSELECT 1; /* block; comment */ SELECT 2;\n-- trailing",
			want:   []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:   "nested block comment",
			script: "/* outer /* inner; */ still; */SELECT 1;",
			want:   []string{"SELECT 1"},
		},
		{
			name:   "dashes inside string",
			script: "INSERT INTO t VALUES ('a -- b; c');",
			want:   []string{"INSERT INTO t VALUES ('a -- b; c')"},
		},
		{
			name:   "dollar quoted body",
			script: "CREATE FUNCTION f() RETURNS int AS $$ SELECT 1; $$ LANGUAGE sql;SELECT 2;",
			want:   []string{"CREATE FUNCTION f() RETURNS int AS $$ SELECT 1; $$ LANGUAGE sql", "SELECT 2"},
		},
		{
			name:   "tagged dollar quote",
			script: "DO $body$ BEGIN PERFORM 1; END $body$;",
			want:   []string{"DO $body$ BEGIN PERFORM 1; END $body$"},
		},
		{
			name:   "positional parameter is not a tag",
			script: "PREPARE p AS SELECT $1;SELECT 2;",
			want:   []string{"PREPARE p AS SELECT $1", "SELECT 2"},
		},
		{
			name:   "empty statements skipped",
			script: ";;  ;\n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.script)
			if len(got) != len(tt.want) {
				t.Fatalf("Split returned %d statements, want %d: %q", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("statement %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitEmbeddedDump(t *testing.T) {
	stmts := Split(Default())
	if len(stmts) != 18 {
		t.Fatalf("expected 18 statements in embedded dump, got %d", len(stmts))
	}
	creates := 0
	for _, stmt := range stmts {
		if strings.HasPrefix(stmt, "CREATE TABLE") {
			creates++
		}
		if strings.HasPrefix(stmt, "--") {
			t.Fatalf("comment leaked into statement: %q", stmt)
		}
	}
	if creates != 6 {
		t.Fatalf("expected 6 CREATE TABLE statements, got %d", creates)
	}
}

func TestLoad(t *testing.T) {
	script, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded: %v", err)
	}
	if script != Default() {
		t.Fatalf("Load(\"\") should return the embedded script")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.sql")
	if err := os.WriteFile(path, []byte("SELECT 1;"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	script, err = Load(path)
	if err != nil {
		t.Fatalf("Load file: %v", err)
	}
	if script != "SELECT 1;" {
		t.Fatalf("unexpected script %q", script)
	}

	empty := filepath.Join(dir, "empty.sql")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(empty); err == nil {
		t.Fatalf("expected error for empty script")
	}
	if _, err := Load(filepath.Join(dir, "missing.sql")); err == nil {
		t.Fatalf("expected error for missing script")
	}
}
