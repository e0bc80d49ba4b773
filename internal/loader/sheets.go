package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads each table from the tab of a Google spreadsheet named
// after the table file without its extension, e.g. "transactions". The
// first row of a tab is its header, as in the CSV files.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsSource creates a read-only Sheets client. An empty
// credentialsFile uses application default credentials; extra options are
// appended after the credentials.
func NewSheetsSource(ctx context.Context, spreadsheetID, credentialsFile string, extra ...option.ClientOption) (*SheetsSource, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, extra...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsSource{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// TabName maps a table file name onto its spreadsheet tab.
func TabName(file string) string {
	return strings.TrimSuffix(file, ".csv")
}

// Open fetches the tab as unformatted values, so that amounts keep their
// full precision, and re-encodes it as CSV for the table decoders.
func (s *SheetsSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	tab := TabName(name)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, tab).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if isMissingTab(err) {
		return nil, fmt.Errorf("open tab %s: %w", tab, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("read tab %s of spreadsheet %s: %w", tab, s.spreadsheetID, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range resp.Values {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = cellString(v)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("encode tab %s: %w", tab, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode tab %s: %w", tab, err)
	}
	return io.NopCloser(&buf), nil
}

func (s *SheetsSource) String() string { return "sheets:" + s.spreadsheetID }

// isMissingTab recognizes the error the API returns for a range naming a
// tab that does not exist.
func isMissingTab(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range")
}

// cellString renders an unformatted cell. Numbers are written without
// exponent so that large amounts stay parseable as decimals.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
