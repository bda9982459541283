package backend

import (
	"context"
	"strings"
	"testing"

	"xaalis/internal/config"
	"xaalis/internal/log"
	"xaalis/internal/sheets/memory"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{ExportBackend: "sqlite"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		ExportBackend:            "sheets",
		GoogleSpreadsheetID:      "abc",
		GoogleLedgerSheet:        "Journal",
		GoogleServiceAccountJSON: "{}",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SheetsBackend || cfg.GoogleSpreadsheetID != "abc" || cfg.GoogleLedgerSheet != "Journal" {
		t.Errorf("unexpected backend config %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"memory", Config{Type: MemoryBackend}, ""},
		{"unknown type", Config{Type: "ftp"}, "invalid backend type"},
		{"sheets without id", Config{Type: SheetsBackend, GoogleServiceAccountJSON: "{}"}, "Spreadsheet ID"},
		{"sheets without credentials", Config{Type: SheetsBackend, GoogleSpreadsheetID: "abc"}, "GoogleServiceAccountJSON"},
		{"sheets complete", Config{Type: SheetsBackend, GoogleSpreadsheetID: "abc", GoogleServiceAccountFile: "/sa.json"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_CreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(log.Discard()).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if _, ok := res.Backend.(*memory.Sink); !ok {
		t.Errorf("expected memory sink, got %T", res.Backend)
	}
	if res.Cleanup != nil {
		t.Error("memory backend should not need cleanup")
	}
}

func TestFactory_RejectsInvalidConfig(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SheetsBackend})
	if err == nil {
		t.Fatal("expected error for incomplete sheets config")
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 2 || got[0] != "memory" || got[1] != "sheets" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}
