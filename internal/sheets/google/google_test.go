package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"xaalis/internal/core"
	"xaalis/internal/log"
	ports "xaalis/internal/sheets"
)

type appendCall struct {
	spreadsheetID string
	rng           string
	rows          [][]any
}

type fakeAppender struct {
	calls []appendCall
	err   error
}

func (f *fakeAppender) Append(_ context.Context, spreadsheetID, rng string, rows [][]any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, appendCall{spreadsheetID, rng, rows})
	return rng, nil
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{CredentialsJSON: "{}"}, log.Discard())
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id"}, log.Discard())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	b, err := credentials(Config{CredentialsFile: path})
	if err != nil || !strings.Contains(string(b), "service_account") {
		t.Fatalf("credentials from file = %q, %v", b, err)
	}
	b, err = credentials(Config{CredentialsJSON: `{"inline":true}`, CredentialsFile: path})
	if err != nil || string(b) != `{"inline":true}` {
		t.Fatalf("inline JSON should win, got %q, %v", b, err)
	}
	if _, err := credentials(Config{CredentialsFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", " abc ")
	t.Setenv("GOOGLE_LEDGER_SHEET_NAME", "Journal")
	t.Setenv("GOOGLE_TONTINE_SHEET_NAME", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/sa.json")

	cfg := ConfigFromEnv()
	if cfg.SpreadsheetID != "abc" || cfg.LedgerSheet != "Journal" || cfg.CredentialsFile != "/etc/sa.json" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestClient_AppendTransaction(t *testing.T) {
	api := &fakeAppender{}
	c := newClient(api, Config{SpreadsheetID: "sheet-id"}, log.Discard())

	tx := core.Transaction{ID: uuid.New(), Type: core.Expense, Amount: core.FCFA(2500), Category: "Transport", Date: core.NewDate(2025, 1, 25)}
	ref, err := c.AppendTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("AppendTransaction() error = %v", err)
	}
	if ref != "Transactions!A:G" || len(api.calls) != 1 {
		t.Fatalf("unexpected ref %q, calls %d", ref, len(api.calls))
	}
	call := api.calls[0]
	if call.spreadsheetID != "sheet-id" || len(call.rows) != 1 || call.rows[0][5] != tx.ID.String() {
		t.Errorf("unexpected call %+v", call)
	}
}

func TestClient_AppendTurn(t *testing.T) {
	api := &fakeAppender{}
	c := newClient(api, Config{SpreadsheetID: "sheet-id", TontineSheet: "Tontine du quartier"}, log.Discard())

	turn := ports.ClosedTurn{
		TontineName: "Tontine du quartier",
		Cycle:       core.Monthly,
		Entry: core.TontineHistoryEntry{
			Turn: 1,
			Date: core.NewDate(2025, 1, 1),
			Amounts: []core.MemberSnapshot{
				{Name: "Awa", Amount: core.FCFA(10000), Paid: true},
				{Name: "Moussa", Amount: core.FCFA(10000)},
			},
		},
	}
	if _, err := c.AppendTurn(context.Background(), turn); err != nil {
		t.Fatalf("AppendTurn() error = %v", err)
	}
	if got := api.calls[0].rng; got != "'Tontine du quartier'!A:G" {
		t.Errorf("range = %q", got)
	}
	if len(api.calls[0].rows) != 2 {
		t.Errorf("expected one row per member, got %d", len(api.calls[0].rows))
	}

	// Empty turns are skipped without calling the API.
	if _, err := c.AppendTurn(context.Background(), ports.ClosedTurn{TontineName: "Vide"}); err != nil {
		t.Fatal(err)
	}
	if len(api.calls) != 1 {
		t.Errorf("empty turn reached the API")
	}
}

func TestClient_AppendErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	c := newClient(&fakeAppender{err: boom}, Config{SpreadsheetID: "sheet-id"}, log.Discard())
	if _, err := c.AppendTransaction(context.Background(), core.Transaction{ID: uuid.New()}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped API error, got %v", err)
	}

	uninit := &Client{}
	if _, err := uninit.AppendTransaction(context.Background(), core.Transaction{}); err == nil {
		t.Error("expected error from client without service")
	}
}

func TestSheetRange(t *testing.T) {
	tests := map[string]string{
		"Transactions": "Transactions!A:G",
		"Mes comptes":  "'Mes comptes'!A:G",
		"Awa's":        "'Awa''s'!A:G",
	}
	for in, want := range tests {
		if got := sheetRange(in); got != want {
			t.Errorf("sheetRange(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestServiceAppender_WritesRawValues(t *testing.T) {
	var gotQuery url.Values
	var gotBody gsheet.ValueRange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"updates":{"updatedRange":"Transactions!A2:F2"}}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatal(err)
	}
	c := newClient(serviceAppender{svc: svc}, Config{SpreadsheetID: "sheet-id"}, log.Discard())

	tx := core.Transaction{ID: uuid.New(), Type: core.Expense, Amount: core.FCFA(500), Category: "=HYPERLINK(\"x\")", Description: "+1", Date: core.NewDate(2025, 1, 2)}
	ref, err := c.AppendTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("AppendTransaction() error = %v", err)
	}
	if ref != "Transactions!A2:F2" {
		t.Errorf("ref = %q", ref)
	}
	if got := gotQuery.Get("valueInputOption"); got != "RAW" {
		t.Errorf("valueInputOption = %q, want RAW", got)
	}
	if len(gotBody.Values) != 1 || gotBody.Values[0][2] != "=HYPERLINK(\"x\")" {
		t.Errorf("formula-like text not sent verbatim: %v", gotBody.Values)
	}
}
