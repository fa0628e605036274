package reports

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DenseRank sorts items by value descending, breaking ties by key ascending,
// and hands each item its dense rank: equal values share a rank and the next
// distinct value gets the previous rank plus one.
func DenseRank[T any](
	items []T,
	value func(T) decimal.Decimal,
	key func(T) string,
	assign func(*T, int),
) {
	sort.SliceStable(items, func(i, j int) bool {
		vi, vj := value(items[i]), value(items[j])
		if c := vi.Cmp(vj); c != 0 {
			return c > 0
		}
		return key(items[i]) < key(items[j])
	})

	rank := 0
	for i := range items {
		if i == 0 || !value(items[i]).Equal(value(items[i-1])) {
			rank++
		}
		assign(&items[i], rank)
	}
}
