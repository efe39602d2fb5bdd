package transactions

import "sort"

// Summary holds aggregate totals over a transaction set.
type Summary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	NetBalance   float64 `json:"netBalance"`
}

// CategoryStat is the per-category income/expense subtotal.
// A category with transactions of only one type reports zero for the other.
type CategoryStat struct {
	Category string  `json:"category"`
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
	Total    float64 `json:"total"`
}

// MonthStat is the per-calendar-month subtotal, keyed YYYY-MM.
type MonthStat struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// Stats is the full aggregation result.
type Stats struct {
	Summary       Summary        `json:"summary"`
	CategoryData  []CategoryStat `json:"categoryData"`
	MonthlyData   []MonthStat    `json:"monthlyData"`
	TopCategories []CategoryStat `json:"topCategories"`
}

// topCategoryCount bounds the derived top-categories view.
const topCategoryCount = 5

// Compute reduces a transaction set into summary totals, a per-category
// breakdown, and a per-month series. It is a pure function of its input:
// grouping is order-independent and both output slices are fully ordered
// (categories by total descending then name, months ascending by key), so
// identical inputs in any order produce identical output.
//
// The month key is derived from each transaction's own date with no timezone
// normalization. Empty input yields zero totals and empty, non-nil slices.
func Compute(txns []Transaction) Stats {
	summary := Summary{}
	byCategory := make(map[string]*CategoryStat)
	byMonth := make(map[string]*MonthStat)

	for _, t := range txns {
		cat, ok := byCategory[t.Category]
		if !ok {
			cat = &CategoryStat{Category: t.Category}
			byCategory[t.Category] = cat
		}

		key := t.Date.Format("2006-01")
		mon, ok := byMonth[key]
		if !ok {
			mon = &MonthStat{Month: key}
			byMonth[key] = mon
		}

		switch t.Type {
		case TypeIncome:
			summary.TotalIncome += t.Amount
			cat.Income += t.Amount
			mon.Income += t.Amount
		case TypeExpense:
			summary.TotalExpense += t.Amount
			cat.Expense += t.Amount
			mon.Expense += t.Amount
		}
	}
	summary.NetBalance = summary.TotalIncome - summary.TotalExpense

	categoryData := make([]CategoryStat, 0, len(byCategory))
	for _, c := range byCategory {
		c.Total = c.Income + c.Expense
		categoryData = append(categoryData, *c)
	}
	sort.Slice(categoryData, func(i, j int) bool {
		if categoryData[i].Total != categoryData[j].Total {
			return categoryData[i].Total > categoryData[j].Total
		}
		return categoryData[i].Category < categoryData[j].Category
	})

	monthlyData := make([]MonthStat, 0, len(byMonth))
	for _, m := range byMonth {
		m.Balance = m.Income - m.Expense
		monthlyData = append(monthlyData, *m)
	}
	// Lexicographic sort on YYYY-MM keys is chronological order.
	sort.Slice(monthlyData, func(i, j int) bool {
		return monthlyData[i].Month < monthlyData[j].Month
	})

	top := categoryData
	if len(top) > topCategoryCount {
		top = top[:topCategoryCount]
	}
	topCategories := make([]CategoryStat, len(top))
	copy(topCategories, top)

	return Stats{
		Summary:       summary,
		CategoryData:  categoryData,
		MonthlyData:   monthlyData,
		TopCategories: topCategories,
	}
}
