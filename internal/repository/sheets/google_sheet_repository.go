package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/posadmin/internal/config"
	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// DashboardRange is the tab and columns dashboard readings are appended to.
const DashboardRange = "Dashboard!A:F"

// RowWriter appends one row of values to a sheet range.
type RowWriter interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository implements RowWriter using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// Ledger appends dashboard readings to a spreadsheet for people who follow
// the numbers outside the application.
type Ledger struct {
	writer RowWriter
}

// NewLedger returns a ledger writing through w.
func NewLedger(w RowWriter) *Ledger {
	return &Ledger{writer: w}
}

// SaveDashboardSnapshot appends snapshot as one row.
func (l *Ledger) SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	return l.writer.WriteRow(ctx, DashboardRange, SnapshotRow(snapshot))
}

// SnapshotRow lays out a snapshot in ledger column order.
func SnapshotRow(s models.DashboardSnapshot) []interface{} {
	return []interface{}{
		s.TakenAt.UTC().Format(time.RFC3339),
		s.SalesToday,
		s.SalesThisWeek,
		s.ItemsSoldToday,
		s.ActiveOrders,
		s.LowStockAlerts,
	}
}
