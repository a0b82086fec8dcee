package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/coilstock/internal/config"
	"github.com/mamadbah2/coilstock/internal/domain/models"
)

// Exporter pushes daily snapshots to an external spreadsheet.
type Exporter interface {
	ExportSnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets
// API, appending one row per snapshot.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetRange    string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed snapshot exporter.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, sheetRange string, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    sheetRange,
		logger:        logger,
	}, nil
}

// ExportSnapshot appends the snapshot's headline figures as a spreadsheet
// row: date, added, deleted, sum/avg weight, avg length, no-data marker.
func (e *GoogleSheetExporter) ExportSnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	row := []interface{}{
		snapshot.Date.String(),
		snapshot.Report.AddedCount,
		snapshot.Report.DeletedCount,
		floatCell(snapshot.Report.SumWeight),
		floatCell(snapshot.Report.AvgWeight),
		floatCell(snapshot.Report.AvgLength),
		snapshot.Report.NoData,
		snapshot.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot row into range %s: %w", e.sheetRange, err)
	}

	e.logger.Debug("snapshot row appended to sheet",
		zap.String("range", e.sheetRange),
		zap.String("date", snapshot.Date.String()))
	return nil
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
