package seed

import (
	"fmt"

	"github.com/sidelinehq/courtside/internal/domain"
)

// Mapper converts dataset entries to domain.CalendarItem values
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapItems converts a Dataset to calendar items ready for a bulk
// write. Entries that fail validation are skipped and counted;
// mapping fails only when nothing valid remains.
func (m *Mapper) MapItems(ds Dataset) ([]domain.CalendarItem, int, error) {
	var items []domain.CalendarItem
	skipped := 0
	orders := map[string]int{}

	for _, e := range ds.Calendar {
		item := domain.CalendarItem{
			Date:      e.Date,
			Type:      domain.ItemType(e.Type),
			Title:     e.Title,
			Assignees: e.Assignees,
			Status:    domain.ItemStatus(e.Status),
			Notes:     e.Notes,
			Links:     e.Links,
			Themes:    e.Themes,
			Order:     orders[e.Date],
		}
		if item.Status == "" {
			item.Status = domain.StatusPlanned
		}
		if e.Sponsor != nil {
			item.IsSponsored = true
			item.SponsorName = e.Sponsor.Name
			item.SponsorType = e.Sponsor.Kind
			if len(e.Sponsor.Obligations) > 0 {
				obs := make(map[string]domain.Obligation, len(e.Sponsor.Obligations))
				for kind, required := range e.Sponsor.Obligations {
					obs[kind] = domain.Obligation{Required: required}
				}
				item.Obligations = obs
			}
		}

		if err := item.Validate(); err != nil {
			skipped++
			continue
		}

		orders[e.Date]++
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, skipped, fmt.Errorf("no valid calendar entries found in dataset")
	}

	return items, skipped, nil
}
