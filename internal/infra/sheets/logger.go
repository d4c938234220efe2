package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Logger appends conversation turns to the first worksheet of a spreadsheet
// looked up by name.
type Logger struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	sheetTitle    string
	logger        *slog.Logger
}

// New authorizes with a service-account key file and resolves the spreadsheet.
func New(ctx context.Context, credentialsFile, spreadsheetName string, logger *slog.Logger) (*Logger, error) {
	return NewWithOptions(ctx, spreadsheetName, logger,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveReadonlyScope),
	)
}

// NewWithOptions is New with caller-supplied client options; the same options
// are passed to the Drive and Sheets services.
func NewWithOptions(ctx context.Context, spreadsheetName string, logger *slog.Logger, opts ...option.ClientOption) (*Logger, error) {
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}
	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	id, err := findSpreadsheet(ctx, driveSvc, spreadsheetName)
	if err != nil {
		return nil, err
	}

	spreadsheet, err := sheetsSvc.Spreadsheets.Get(id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet %q: %w", spreadsheetName, err)
	}
	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
		return nil, fmt.Errorf("spreadsheet %q has no worksheets", spreadsheetName)
	}

	title := spreadsheet.Sheets[0].Properties.Title
	logger.Info("conversation log ready", "spreadsheet", spreadsheetName, "worksheet", title)

	return &Logger{
		values:        sheetsSvc.Spreadsheets.Values,
		spreadsheetID: id,
		sheetTitle:    title,
		logger:        logger,
	}, nil
}

func findSpreadsheet(ctx context.Context, svc *drive.Service, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(name), spreadsheetMimeType)

	list, err := svc.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("looking up spreadsheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found or not shared with the service account", name)
	}
	return list.Files[0].Id, nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// AppendRow adds [timestamp, input, reply] after the last row of the worksheet.
func (l *Logger) AppendRow(ctx context.Context, timestamp, input, reply string) error {
	row := &sheets.ValueRange{
		Values: [][]interface{}{{timestamp, input, reply}},
	}
	rng := fmt.Sprintf("'%s'!A:C", strings.ReplaceAll(l.sheetTitle, "'", "''"))

	_, err := l.values.Append(l.spreadsheetID, rng, row).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	return nil
}
