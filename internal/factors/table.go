package factors

import (
	"fmt"
	"math"
	"sort"
)

// Factor is one characterization factor.
type Factor struct {
	ID        string         `json:"id" yaml:"id"`
	Substance string         `json:"substance" yaml:"substance"`
	Category  ImpactCategory `json:"category" yaml:"category"`
	Value     float64        `json:"value" yaml:"value"`
	Unit      string         `json:"unit" yaml:"unit"`
	Source    string         `json:"source,omitempty" yaml:"source,omitempty"`
}

// FactorID builds the canonical id "<category>/<substance>".
func FactorID(c ImpactCategory, substance string) string {
	return string(c) + "/" + substance
}

// Table is an immutable set of factors indexed by category and substance.
// A Table is safe for concurrent reads; nothing mutates it after NewTable.
type Table struct {
	name       string
	byCategory map[ImpactCategory]map[string]Factor
	byID       map[string]Factor
	substances []string
}

// NewTable validates the factors and builds a table. Substance keys are
// expected in normalized form (lowercase, underscores).
func NewTable(name string, fs []Factor) (*Table, error) {
	t := &Table{
		name:       name,
		byCategory: make(map[ImpactCategory]map[string]Factor),
		byID:       make(map[string]Factor, len(fs)),
	}
	seen := make(map[string]bool)

	for _, f := range fs {
		if f.Substance == "" {
			return nil, ErrEmptySubstance
		}
		info, err := Info(f.Category)
		if err != nil {
			return nil, fmt.Errorf("substance %q: %w", f.Substance, err)
		}
		if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			return nil, fmt.Errorf("substance %q: factor value is not finite", f.Substance)
		}
		if f.ID == "" {
			f.ID = FactorID(f.Category, f.Substance)
		}
		if f.Unit == "" {
			f.Unit = info.Unit
		}
		if _, dup := t.byID[f.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFactor, f.ID)
		}
		bucket := t.byCategory[f.Category]
		if bucket == nil {
			bucket = make(map[string]Factor)
			t.byCategory[f.Category] = bucket
		}
		if _, dup := bucket[f.Substance]; dup {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateFactor, f.Category, f.Substance)
		}
		bucket[f.Substance] = f
		t.byID[f.ID] = f
		if !seen[f.Substance] {
			seen[f.Substance] = true
			t.substances = append(t.substances, f.Substance)
		}
	}
	sort.Strings(t.substances)
	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Len returns the number of factors.
func (t *Table) Len() int { return len(t.byID) }

// Lookup returns the factor of substance in category c.
func (t *Table) Lookup(substance string, c ImpactCategory) (Factor, bool) {
	f, ok := t.byCategory[c][substance]
	return f, ok
}

// Has reports whether substance has a factor in any category.
func (t *Table) Has(substance string) bool {
	for _, bucket := range t.byCategory {
		if _, ok := bucket[substance]; ok {
			return true
		}
	}
	return false
}

// FactorsFor returns every factor of substance, in category reporting order.
func (t *Table) FactorsFor(substance string) []Factor {
	var out []Factor
	for _, bucket := range t.byCategory {
		if f, ok := bucket[substance]; ok {
			out = append(out, f)
		}
	}
	sortFactors(out)
	return out
}

// ByID returns the factor with the given id.
func (t *Table) ByID(id string) (Factor, bool) {
	f, ok := t.byID[id]
	return f, ok
}

// Substances returns every substance key, sorted.
func (t *Table) Substances() []string {
	out := make([]string, len(t.substances))
	copy(out, t.substances)
	return out
}

// HasCategory reports whether the table has at least one factor for c.
func (t *Table) HasCategory(c ImpactCategory) bool {
	return len(t.byCategory[c]) > 0
}

// Categories returns the categories present in the table, in reporting order.
func (t *Table) Categories() []ImpactCategory {
	var out []ImpactCategory
	for _, info := range AllCategories() {
		if t.HasCategory(info.Category) {
			out = append(out, info.Category)
		}
	}
	return out
}

// Factors returns all factors ordered by category then substance.
func (t *Table) Factors() []Factor {
	out := make([]Factor, 0, len(t.byID))
	for _, f := range t.byID {
		out = append(out, f)
	}
	sortFactors(out)
	return out
}

func sortFactors(fs []Factor) {
	sort.Slice(fs, func(i, j int) bool {
		oi, oj := fs[i].Category.order(), fs[j].Category.order()
		if oi != oj {
			return oi < oj
		}
		return fs[i].Substance < fs[j].Substance
	})
}
