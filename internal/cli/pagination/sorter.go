package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/carbonflow/carbonflow/internal/service"
)

// Batch sort fields.
const (
	FieldIndex  = "index"
	FieldName   = "name"
	FieldGWP    = "gwp"
	FieldStatus = "status"
)

// BatchSortFields lists the valid sort fields of batch items.
func BatchSortFields() []string {
	return []string{FieldIndex, FieldName, FieldGWP, FieldStatus}
}

// SortBatchItems returns a sorted copy of items. An empty field keeps the
// input order. Failed items sort after successful ones by gwp.
func SortBatchItems(items []service.BatchItem, field, order string) ([]service.BatchItem, error) {
	out := slices.Clone(items)
	if field == "" {
		return out, nil
	}

	var compare func(a, b service.BatchItem) int
	switch field {
	case FieldIndex:
		compare = func(a, b service.BatchItem) int { return cmp.Compare(a.Index, b.Index) }
	case FieldName:
		compare = func(a, b service.BatchItem) int { return strings.Compare(a.Name, b.Name) }
	case FieldGWP:
		compare = func(a, b service.BatchItem) int { return cmp.Compare(itemGWP(a), itemGWP(b)) }
	case FieldStatus:
		compare = func(a, b service.BatchItem) int { return cmp.Compare(boolRank(!a.OK()), boolRank(!b.OK())) }
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(BatchSortFields(), ", "))
	}

	if order == SortOrderDesc {
		asc := compare
		compare = func(a, b service.BatchItem) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out, nil
}

func itemGWP(item service.BatchItem) float64 {
	if item.Result == nil {
		return -1
	}
	return item.Result.GWP()
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
