package reports

import "github.com/de-tools/sales-atlas/pkg/models/domain"

func inWindow(sales []domain.EnrichedSale, w domain.Window) []domain.EnrichedSale {
	out := make([]domain.EnrichedSale, 0, len(sales))
	for _, s := range sales {
		if w.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}
