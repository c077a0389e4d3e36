// Package pricing turns detection counts into repair cost estimates using a
// brand/model/part price table loaded from JSON.
package pricing

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Table maps brand -> model -> part -> price. The zero value is an empty
// table: every lookup misses and every estimate comes back empty, which is
// how the service keeps serving when the price file is broken.
type Table map[string]map[string]map[string]float64

// LoadTable reads and validates a price table file. Malformed JSON, the
// wrong nesting shape, and non-finite or negative prices are all rejected
// here so lookups never have to re-check values.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read price table")
	}

	var table Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, errors.Wrap(err, "parse price table")
	}

	for brand, models := range table {
		for model, parts := range models {
			for part, price := range parts {
				if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
					return nil, errors.Errorf("invalid price %v for %s/%s/%s", price, brand, model, part)
				}
			}
		}
	}
	return table, nil
}

// Brands returns the table's brand names in sorted order.
func (t Table) Brands() []string {
	brands := make([]string, 0, len(t))
	for brand := range t {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	return brands
}

// UnpricedParts returns the given part names that at least one model in the
// table has no price for. Used as a startup cross-check between the model's
// class catalog and the table.
func (t Table) UnpricedParts(parts []string) []string {
	var missing []string
	for _, part := range parts {
		covered := true
		for _, models := range t {
			for _, prices := range models {
				if _, ok := prices[part]; !ok {
					covered = false
				}
			}
		}
		if !covered {
			missing = append(missing, part)
		}
	}
	return missing
}

// Line is one part's row in an estimate.
type Line struct {
	Part      string
	Count     int
	UnitPrice float64
	Total     float64
}

// Breakdown is a per-part estimate, sorted by part name.
type Breakdown []Line

// GrandTotal sums all line totals.
func (b Breakdown) GrandTotal() float64 {
	var sum float64
	for _, line := range b {
		sum += line.Total
	}
	return sum
}

// Estimator prices detection counts against a table.
type Estimator struct {
	table Table
	log   *zap.Logger
}

// NewEstimator returns an estimator over table.
func NewEstimator(table Table, log *zap.Logger) *Estimator {
	return &Estimator{
		table: table,
		log:   log.Named("pricing"),
	}
}

// Table returns the underlying price table.
func (e *Estimator) Table() Table {
	return e.table
}

// Estimate builds a cost breakdown for the counted classes of one vehicle.
// resolve maps a class ID to its part name; IDs it cannot resolve are
// skipped. Unknown brands, unknown models, and parts the table does not
// price produce an empty or shorter breakdown rather than an error: the
// estimate page renders whatever could be priced.
func (e *Estimator) Estimate(brand, model string, counts map[int]int, resolve func(int) (string, bool)) Breakdown {
	models, ok := e.table[brand]
	if !ok {
		e.log.Warn("brand not in price table", zap.String("brand", brand))
		return nil
	}
	prices, ok := models[model]
	if !ok {
		e.log.Warn("model not in price table",
			zap.String("brand", brand),
			zap.String("model", model))
		return nil
	}

	var breakdown Breakdown
	for classID, count := range counts {
		if count <= 0 {
			continue
		}
		part, ok := resolve(classID)
		if !ok {
			continue
		}
		price, ok := prices[part]
		if !ok {
			e.log.Warn("part not priced",
				zap.String("brand", brand),
				zap.String("model", model),
				zap.String("part", part))
			continue
		}
		breakdown = append(breakdown, Line{
			Part:      part,
			Count:     count,
			UnitPrice: price,
			Total:     price * float64(count),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Part < breakdown[j].Part
	})
	return breakdown
}
