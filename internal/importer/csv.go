// Package importer turns sponsorship-campaign CSV exports into
// calendar items ready for a bulk write.
//
// Expected layout, after a header row:
//
//	CampaignName, SponsorName, SponsorType, [ObligationType, Count]...
//
// The trailing obligation pairs repeat; rows may carry any number of
// them. Broken rows are skipped, not fatal: a partner's spreadsheet
// export should never block the rest of the sheet.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sidelinehq/courtside/internal/domain"
)

// fixedColumns precede the repeating obligation pairs.
const fixedColumns = 3

// Parse reads a campaign CSV and builds one sponsored item per usable
// row, all dated to date. It returns the items, the number of rows
// skipped as unusable, and an error only when the date is invalid or
// the stream itself cannot be read as CSV.
func Parse(r io.Reader, date string) ([]domain.CalendarItem, int, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, 0, &domain.ValidationError{Field: "date", Reason: "must be formatted YYYY-MM-DD"}
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, 0, nil
	}

	items := make([]domain.CalendarItem, 0, len(records)-1)
	skipped := 0
	for _, row := range records[1:] {
		item, ok := parseRow(row, date)
		if !ok {
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped, nil
}

// parseRow builds one sponsored item from a data row. A row without a
// campaign name is unusable; broken obligation pairs are dropped
// individually.
func parseRow(row []string, date string) (domain.CalendarItem, bool) {
	if len(row) < fixedColumns {
		return domain.CalendarItem{}, false
	}
	campaign := strings.TrimSpace(row[0])
	if campaign == "" {
		return domain.CalendarItem{}, false
	}

	item := domain.CalendarItem{
		Date:        date,
		Type:        domain.TypeSponsored,
		Title:       campaign,
		Status:      domain.StatusPlanned,
		IsSponsored: true,
		SponsorName: strings.TrimSpace(row[1]),
		SponsorType: strings.TrimSpace(row[2]),
	}

	obs := parsePairs(row[fixedColumns:])
	if len(obs) > 0 {
		item.Obligations = obs
	}
	return item, true
}

// parsePairs walks the repeating (kind, count) columns. A dangling
// kind with no count, an empty kind, or a count below 1 drops that
// pair only.
func parsePairs(cols []string) map[string]domain.Obligation {
	obs := map[string]domain.Obligation{}
	for n := 0; n+1 < len(cols); n += 2 {
		kind := strings.TrimSpace(cols[n])
		if kind == "" {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(cols[n+1]))
		if err != nil || count < 1 {
			continue
		}
		obs[kind] = domain.Obligation{Required: count}
	}
	if len(obs) == 0 {
		return nil
	}
	return obs
}
