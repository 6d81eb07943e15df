package backend

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"budget/internal/config"
	"budget/internal/csvstore"
	applog "budget/internal/log"
	"budget/internal/memory"
	"budget/internal/storage"
)

var fixedTime = time.Date(2025, 6, 7, 14, 30, 5, 0, time.UTC)

func quietFactory() Factory {
	return NewFactory(applog.New(applog.Config{Output: io.Discard}))
}

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
		check  func(t *testing.T, r *Result)
	}{
		{
			name: "csv",
			config: Config{
				Type:         CSVBackend,
				LimitsPath:   filepath.Join(dir, "budget_limits.csv"),
				ExpensesPath: filepath.Join(dir, "expenses.csv"),
			},
			check: func(t *testing.T, r *Result) {
				if _, ok := r.Store.(*csvstore.Store); !ok {
					t.Errorf("store = %T, want *csvstore.Store", r.Store)
				}
			},
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "budget.db")},
			check: func(t *testing.T, r *Result) {
				if _, ok := r.Store.(*storage.SQLiteRepository); !ok {
					t.Errorf("store = %T, want *storage.SQLiteRepository", r.Store)
				}
				if r.Cleanup == nil {
					t.Error("sqlite backend should have a cleanup function")
				}
			},
		},
		{
			name:   "memory",
			config: Config{Type: MemoryBackend},
			check: func(t *testing.T, r *Result) {
				if _, ok := r.Store.(*memory.Store); !ok {
					t.Errorf("store = %T, want *memory.Store", r.Store)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := quietFactory().CreateBackend(ctx, tt.config)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer r.Close()
			tt.check(t, r)
			if _, err := r.Store.Load(ctx); err != nil {
				t.Errorf("Load() error = %v", err)
			}
		})
	}
}

func TestCreateBackendInvalid(t *testing.T) {
	ctx := context.Background()
	for _, cfg := range []Config{
		{Type: "sheets"},
		{Type: SQLiteBackend},
		{Type: CSVBackend, LimitsPath: "limits.csv"},
	} {
		if _, err := quietFactory().CreateBackend(ctx, cfg); err == nil {
			t.Errorf("CreateBackend(%+v) expected error", cfg)
		}
	}
}

func TestMemoryBackendSeedsFromDataDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, memory.SeedFile), []byte("Groceries=400\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := quietFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: dir})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := r.Store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Limits.Has("Groceries") {
		t.Error("expected seeded Groceries limit")
	}
}

func TestCreatePublisherDisabled(t *testing.T) {
	if p := quietFactory().CreatePublisher(context.Background(), Config{}); p != nil {
		t.Errorf("CreatePublisher() = %v, want nil", p)
	}
}

func TestCreateExporterCSVOnly(t *testing.T) {
	dir := t.TempDir()
	m := quietFactory().CreateExporter(context.Background(), Config{ExportDir: dir})
	ref, err := m.Export(context.Background(), nil, fixedTime)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if filepath.Dir(ref) != dir {
		t.Errorf("export written to %s, want dir %s", ref, dir)
	}
}

func TestCreateExporterSheetsFailureFallsBack(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	m := quietFactory().CreateExporter(context.Background(), Config{
		ExportDir:             t.TempDir(),
		GoogleSpreadsheetID:   "sheet-id",
		GoogleExportSheetName: "Budget Export",
	})
	results, err := m.ExportAll(context.Background(), nil, fixedTime)
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d targets, want csv only", len(results))
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataDir:      "data",
		LimitsFile:   "budget_limits.csv",
		ExpensesFile: "expenses.csv",
		DataBackend:  "csv",
		ExportDir:    "exports",
	}
	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != CSVBackend || cfg.LimitsPath != filepath.Join("data", "budget_limits.csv") {
		t.Errorf("config = %+v", cfg)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	appCfg.DataBackend = "sheets"
	_, err = FromAppConfig(appCfg)
	if err == nil {
		t.Fatal("expected error for unsupported backend")
	}
	if !strings.Contains(err.Error(), "csv, sqlite, memory") {
		t.Errorf("error %q does not list the valid backends", err)
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	want := config.ValidBackends
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}
