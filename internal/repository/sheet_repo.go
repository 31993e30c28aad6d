package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"inquiry-intake-service/internal/config"
	"inquiry-intake-service/pkg/metrics"
)

// SheetRepository is the append-only row store backed by a Google
// spreadsheet. Insertion order is preserved by the Sheets append semantics;
// nothing here deletes or reorders rows.
type SheetRepository struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *zap.Logger
}

func NewSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SheetRepository, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "シート1"
	}

	// Without an explicit key file the client uses Application Default
	// Credentials, which is how the service runs on Cloud Run.
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &SheetRepository{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

// ReadAll returns every row currently on the sheet, header row included.
func (r *SheetRepository) ReadAll(ctx context.Context) ([][]string, error) {
	start := time.Now()
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, r.sheetName).Context(ctx).Do()
	metrics.RecordSheetOpDuration("read_all", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read sheet values: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append appends a single row after the last non-empty row of the sheet.
func (r *SheetRepository) Append(ctx context.Context, row []string) error {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	start := time.Now()
	_, err := r.svc.Spreadsheets.Values.Append(r.spreadsheetID, r.sheetName, &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	metrics.RecordSheetOpDuration("append", time.Since(start))
	if err != nil {
		return fmt.Errorf("append sheet row: %w", err)
	}
	return nil
}

// Ping verifies the spreadsheet is reachable; used by the readiness probe.
func (r *SheetRepository) Ping(ctx context.Context) error {
	_, err := r.svc.Spreadsheets.Get(r.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}
