package googlesheets

import (
	"context"
	"fmt"
	"log"
	"os"

	"google.golang.org/api/sheets/v4"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ReportExporter appends traceability reports to a Google spreadsheet.
type ReportExporter struct {
	sheetsService *sheets.Service
	spreadsheetID string
}

func NewReportExporter() (*ReportExporter, error) {
	ctx := context.Background()

	spreadsheetID := os.Getenv("TRACE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("TRACE_SPREADSHEET_ID is not set")
	}

	credentialsJSON := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON")
	var credentials *google.Credentials
	var err error

	if credentialsJSON != "" {
		log.Println("Using Google credentials from environment variable")
		credentials, err = google.CredentialsFromJSON(ctx, []byte(credentialsJSON), sheets.SpreadsheetsScope)
	} else {
		// Local file, development environment only
		log.Println("Using Google credentials from local file")
		credentialsFile := "configs/google-credentials.json"
		b, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("unable to read credentials file: %v", readErr)
		}
		credentials, err = google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load Google credentials: %v", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Sheets client: %v", err)
	}

	return &ReportExporter{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
	}, nil
}

// AppendReport writes one report row to the spreadsheet.
func (e *ReportExporter) AppendReport(row []interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := e.sheetsService.Spreadsheets.Values.
		Append(e.spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return fmt.Errorf("unable to append report row: %v", err)
	}

	return nil
}
