package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"xaalis/internal/core"
	"xaalis/internal/log"
	ports "xaalis/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	DefaultLedgerSheet  = "Transactions"
	DefaultTontineSheet = "Tontines"
)

// Config selects the spreadsheet and the credentials used to reach it.
type Config struct {
	SpreadsheetID string
	LedgerSheet   string
	TontineSheet  string

	// Service account credentials; JSON wins over File.
	CredentialsJSON string
	CredentialsFile string
}

// ConfigFromEnv reads GOOGLE_SPREADSHEET_ID, the sheet names and the
// service account variables.
func ConfigFromEnv() Config {
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	return Config{
		SpreadsheetID:   strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID")),
		LedgerSheet:     strings.TrimSpace(os.Getenv("GOOGLE_LEDGER_SHEET_NAME")),
		TontineSheet:    strings.TrimSpace(os.Getenv("GOOGLE_TONTINE_SHEET_NAME")),
		CredentialsJSON: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")),
		CredentialsFile: file,
	}
}

// Cells are written as typed so free text starting with "=" stays text.
const valueInputOption = "RAW"

// appender is the slice of the Sheets API the client uses.
type appender interface {
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) (updatedRange string, err error)
}

type serviceAppender struct {
	svc *gsheet.Service
}

func (a serviceAppender) Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) (string, error) {
	vr := &gsheet.ValueRange{Values: rows}
	resp, err := a.svc.Spreadsheets.Values.Append(spreadsheetID, rng, vr).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}

type Client struct {
	api           appender
	spreadsheetID string
	ledgerSheet   string
	tontineSheet  string
	logger        *log.Logger
}

var _ ports.Exporter = (*Client)(nil)

// New creates a Sheets exporter authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.FromSlog(nil, log.ComponentSheets)
	}
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	logger.InfoContext(ctx, "Google Sheets service created", log.FieldSpreadsheet, cfg.SpreadsheetID)

	return newClient(serviceAppender{svc: svc}, cfg, logger), nil
}

// NewFromEnv is New with ConfigFromEnv.
func NewFromEnv(ctx context.Context, logger *log.Logger) (*Client, error) {
	return New(ctx, ConfigFromEnv(), logger)
}

func newClient(api appender, cfg Config, logger *log.Logger) *Client {
	ledger := cfg.LedgerSheet
	if ledger == "" {
		ledger = DefaultLedgerSheet
	}
	tontine := cfg.TontineSheet
	if tontine == "" {
		tontine = DefaultTontineSheet
	}
	return &Client{
		api:           api,
		spreadsheetID: cfg.SpreadsheetID,
		ledgerSheet:   ledger,
		tontineSheet:  tontine,
		logger:        logger,
	}
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case cfg.CredentialsJSON != "":
		return []byte(cfg.CredentialsJSON), nil
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// AppendTransaction adds one row to the ledger sheet.
func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if c.api == nil {
		return "", errors.New("sheets service not initialized")
	}
	ref, err := c.api.Append(ctx, c.spreadsheetID, sheetRange(c.ledgerSheet), [][]any{ports.TransactionRow(t)})
	if err != nil {
		return "", fmt.Errorf("append transaction %s: %w", t.ID, err)
	}
	c.logger.InfoContext(ctx, "Transaction exported",
		log.FieldID, t.ID.String(),
		log.FieldAmount, t.Amount.Francs,
		"range", ref)
	return ref, nil
}

// AppendTurn adds one row per member of the closed turn to the tontine sheet.
func (c *Client) AppendTurn(ctx context.Context, turn ports.ClosedTurn) (string, error) {
	if c.api == nil {
		return "", errors.New("sheets service not initialized")
	}
	rows := ports.TurnRows(turn)
	if len(rows) == 0 {
		return "", nil
	}
	ref, err := c.api.Append(ctx, c.spreadsheetID, sheetRange(c.tontineSheet), rows)
	if err != nil {
		return "", fmt.Errorf("append turn %d of %s: %w", turn.Entry.Turn, turn.TontineName, err)
	}
	c.logger.InfoContext(ctx, "Tontine turn exported",
		"tontine", turn.TontineName,
		log.FieldTurn, turn.Entry.Turn,
		"rows", len(rows),
		"range", ref)
	return ref, nil
}

// sheetRange quotes sheet names with spaces the way A1 notation requires.
func sheetRange(sheet string) string {
	if strings.ContainsAny(sheet, " '") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!A:G"
}
