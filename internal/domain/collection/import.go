package collection

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

var requiredColumns = []string{"id", "name", "type"}

// RowError describes why one CSV row was not imported. Row numbers are 1-based
// and count the header line.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportReport summarizes a CSV import.
type ImportReport struct {
	Created int        `json:"created"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors"`
}

// ImportCSV creates one collection per data row. Rows fail independently;
// ids that already exist are counted as skipped.
func (s *service) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"CSV file is empty", nil, "collection-csv-empty")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Invalid CSV header", err, "collection-csv-header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("CSV is missing required columns: %s", strings.Join(missing, ", ")), nil, "collection-csv-columns")
	}

	report := &ImportReport{Errors: []RowError{}}
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: row, Error: err.Error()})
			continue
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		id, ok := ParseID(field("id"))
		if !ok {
			report.Errors = append(report.Errors, RowError{Row: row, Error: fmt.Sprintf("invalid id %q", field("id"))})
			continue
		}
		c, err := buildCollection(ctx, CreateParams{
			ID:                       &id,
			Name:                     field("name"),
			Type:                     field("type"),
			CollectionPositivePrompt: field("collection_positive_prompt"),
			CollectionNegativePrompt: field("collection_negative_prompt"),
			Comment:                  field("comment"),
		})
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: row, Error: errorMessage(err)})
			continue
		}

		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: row, Error: errorMessage(err)})
			continue
		}
		if exists {
			report.Skipped++
			continue
		}
		if err := s.repo.Create(ctx, c); err != nil {
			report.Errors = append(report.Errors, RowError{Row: row, Error: errorMessage(err)})
			continue
		}
		report.Created++
	}

	s.log.Info().
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Int("errors", len(report.Errors)).
		Msg("collections imported from csv")
	return report, nil
}

func errorMessage(err error) string {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Message
	}
	return err.Error()
}
