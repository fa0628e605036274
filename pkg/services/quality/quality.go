package quality

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
)

const (
	LabelNullProduct      = "Null Product ID"
	LabelNullCustomer     = "Null Customer ID"
	LabelInvalidAmount    = "Invalid Amount"
	LabelNegativeQuantity = "Negative Quantity"
)

// Check counts integrity violations among the raw transactions in w. Each
// count is independent of the others, so one transaction can show up in
// several of them. The issues are always returned in the same order.
func Check(transactions []store.Transaction, w domain.Window) []domain.QualityIssue {
	var nullProduct, nullCustomer, invalidAmount, negativeQty int64
	for _, t := range transactions {
		if !w.Contains(t.Date) {
			continue
		}
		if !t.ProductID.Valid {
			nullProduct++
		}
		if !t.CustomerID.Valid {
			nullCustomer++
		}
		if !t.TotalAmount.Valid || !t.TotalAmount.Decimal.IsPositive() {
			invalidAmount++
		}
		if t.Quantity.Valid && t.Quantity.Int64 < 0 {
			negativeQty++
		}
	}

	return []domain.QualityIssue{
		{Label: LabelNullProduct, Count: nullProduct},
		{Label: LabelNullCustomer, Count: nullCustomer},
		{Label: LabelInvalidAmount, Count: invalidAmount},
		{Label: LabelNegativeQuantity, Count: negativeQty},
	}
}
