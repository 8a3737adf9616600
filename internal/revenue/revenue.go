// Package revenue holds the pure aggregation logic behind the store dashboard:
// order revenue, monthly grouping, reporting windows and period-over-period change.
//
// Nothing in this package touches a database or the wall clock; callers pass the
// orders they fetched together with "now" and the location used for calendar math.
package revenue

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product on an order. Quantity is always one.
// Price is the product's current price, not the price at checkout time.
type LineItem struct {
	ProductID uuid.UUID
	Price     decimal.Decimal
}

// Order is a paid order with its line items.
type Order struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Items     []LineItem
}

// Revenue returns the sum of the order's line item prices.
func (o Order) Revenue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price)
	}
	return total
}

// Sum returns the combined revenue of the given orders.
func Sum(orders []Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Revenue())
	}
	return total
}

// MonthRevenue is one point of the yearly revenue series.
type MonthRevenue struct {
	Name  string
	Total decimal.Decimal
}

// YearRevenue is the revenue of one calendar year, one entry per month, January first.
type YearRevenue struct {
	Year   int
	Months [12]MonthRevenue
}

// GroupByMonth buckets orders by calendar year and month of their creation time in loc.
// Only years with at least one order are returned, sorted ascending. An order without
// line items still makes its year appear.
func GroupByMonth(orders []Order, loc *time.Location, names MonthNames) []YearRevenue {
	totals := make(map[int]*[12]decimal.Decimal)
	for _, o := range orders {
		created := o.CreatedAt.In(loc)
		year := created.Year()
		bucket, ok := totals[year]
		if !ok {
			bucket = &[12]decimal.Decimal{}
			totals[year] = bucket
		}
		month := int(created.Month()) - 1
		bucket[month] = bucket[month].Add(o.Revenue())
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	result := make([]YearRevenue, 0, len(years))
	for _, year := range years {
		yr := EmptyYear(year, names)
		for month, total := range totals[year] {
			yr.Months[month].Total = total
		}
		result = append(result, yr)
	}
	return result
}

// EmptyYear returns the zero series for a year: twelve named months with zero totals.
func EmptyYear(year int, names MonthNames) YearRevenue {
	yr := YearRevenue{Year: year}
	for month := range yr.Months {
		yr.Months[month] = MonthRevenue{Name: names[month], Total: decimal.Zero}
	}
	return yr
}

// FindYear looks up a year in a grouped series.
func FindYear(years []YearRevenue, year int) (YearRevenue, bool) {
	for _, yr := range years {
		if yr.Year == year {
			return yr, true
		}
	}
	return YearRevenue{}, false
}

var hundred = decimal.NewFromInt(100)

// PercentageChange returns (current - prior) / prior * 100, or zero when prior is zero.
func PercentageChange(current, prior decimal.Decimal) decimal.Decimal {
	if prior.IsZero() {
		return decimal.Zero
	}
	return current.Sub(prior).Div(prior).Mul(hundred)
}
