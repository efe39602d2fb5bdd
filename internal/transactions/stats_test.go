package transactions

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(typ string, amount float64, date string, category string) Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return Transaction{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Type:     typ,
		Amount:   amount,
		Category: category,
		Date:     d,
	}
}

func TestComputeMixedTransactions(t *testing.T) {
	txns := []Transaction{
		tx(TypeIncome, 100, "2024-01-05", "salary"),
		tx(TypeExpense, 40, "2024-01-10", "food"),
		tx(TypeExpense, 10, "2024-02-01", "food"),
	}

	stats := Compute(txns)

	assert.Equal(t, 100.0, stats.Summary.TotalIncome)
	assert.Equal(t, 50.0, stats.Summary.TotalExpense)
	assert.Equal(t, 50.0, stats.Summary.NetBalance)

	require.Len(t, stats.MonthlyData, 2)
	assert.Equal(t, MonthStat{Month: "2024-01", Income: 100, Expense: 40, Balance: 60}, stats.MonthlyData[0])
	assert.Equal(t, MonthStat{Month: "2024-02", Income: 0, Expense: 10, Balance: -10}, stats.MonthlyData[1])
}

func TestComputeEmptySet(t *testing.T) {
	stats := Compute(nil)

	assert.Equal(t, Summary{}, stats.Summary)
	assert.NotNil(t, stats.CategoryData)
	assert.NotNil(t, stats.MonthlyData)
	assert.NotNil(t, stats.TopCategories)
	assert.Empty(t, stats.CategoryData)
	assert.Empty(t, stats.MonthlyData)
	assert.Empty(t, stats.TopCategories)
}

func TestComputeSingleTypeCategoryReportsZeroForOther(t *testing.T) {
	stats := Compute([]Transaction{
		tx(TypeExpense, 25, "2024-03-01", "rent"),
	})

	require.Len(t, stats.CategoryData, 1)
	assert.Equal(t, CategoryStat{Category: "rent", Income: 0, Expense: 25, Total: 25}, stats.CategoryData[0])

	require.Len(t, stats.MonthlyData, 1)
	assert.Equal(t, 0.0, stats.MonthlyData[0].Income)
}

func TestComputeCategoryBreakdown(t *testing.T) {
	stats := Compute([]Transaction{
		tx(TypeIncome, 500, "2024-01-01", "consulting"),
		tx(TypeExpense, 200, "2024-01-02", "consulting"),
		tx(TypeExpense, 300, "2024-01-03", "rent"),
	})

	require.Len(t, stats.CategoryData, 2)
	assert.Equal(t, CategoryStat{Category: "consulting", Income: 500, Expense: 200, Total: 700}, stats.CategoryData[0])
	assert.Equal(t, CategoryStat{Category: "rent", Income: 0, Expense: 300, Total: 300}, stats.CategoryData[1])
}

func TestComputeOrderIndependence(t *testing.T) {
	txns := []Transaction{
		tx(TypeIncome, 120, "2024-05-01", "salary"),
		tx(TypeExpense, 30, "2024-04-15", "food"),
		tx(TypeExpense, 60, "2024-05-20", "travel"),
		tx(TypeIncome, 15, "2024-04-02", "gifts"),
		tx(TypeExpense, 45, "2024-06-11", "food"),
	}

	want := Compute(txns)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]Transaction, len(txns))
		copy(shuffled, txns)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, want, Compute(shuffled))
	}
}

func TestComputeInvariants(t *testing.T) {
	txns := []Transaction{
		tx(TypeIncome, 100.50, "2023-12-31", "salary"),
		tx(TypeExpense, 12.25, "2024-01-01", "food"),
		tx(TypeIncome, 7.75, "2024-01-15", "food"),
		tx(TypeExpense, 80, "2024-02-29", "rent"),
		tx(TypeExpense, 19.99, "2024-02-29", "subscriptions"),
	}

	stats := Compute(txns)

	assert.InDelta(t, stats.Summary.TotalIncome-stats.Summary.TotalExpense, stats.Summary.NetBalance, 1e-9)

	var categorySum, monthlySum float64
	for _, c := range stats.CategoryData {
		categorySum += c.Total
	}
	for _, m := range stats.MonthlyData {
		monthlySum += m.Income + m.Expense
	}
	grand := stats.Summary.TotalIncome + stats.Summary.TotalExpense
	assert.InDelta(t, grand, categorySum, 1e-9)
	assert.InDelta(t, grand, monthlySum, 1e-9)

	for i := 1; i < len(stats.MonthlyData); i++ {
		assert.Less(t, stats.MonthlyData[i-1].Month, stats.MonthlyData[i].Month)
	}
}

func TestComputeIdempotence(t *testing.T) {
	txns := []Transaction{
		tx(TypeIncome, 42, "2024-07-04", "salary"),
		tx(TypeExpense, 13, "2024-07-05", "food"),
	}

	first := Compute(txns)
	second := Compute(txns)

	assert.Equal(t, first, second)
}

func TestComputeTopCategories(t *testing.T) {
	txns := []Transaction{}
	categories := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, cat := range categories {
		txns = append(txns, tx(TypeExpense, float64((i+1)*10), "2024-01-01", cat))
	}

	stats := Compute(txns)

	require.Len(t, stats.TopCategories, 5)
	assert.Equal(t, "g", stats.TopCategories[0].Category)
	assert.Equal(t, "c", stats.TopCategories[4].Category)
	assert.Len(t, stats.CategoryData, 7)
}

func TestComputeMonthKeyUsesTransactionDate(t *testing.T) {
	// The month key comes from the date's own year and month, no timezone
	// normalization.
	loc := time.FixedZone("UTC+13", 13*60*60)
	txn := Transaction{
		Type:     TypeIncome,
		Amount:   10,
		Category: "salary",
		// Midnight Jan 1 in UTC+13 is still December 31 in UTC.
		Date: time.Date(2024, 1, 1, 0, 30, 0, 0, loc),
	}

	stats := Compute([]Transaction{txn})

	require.Len(t, stats.MonthlyData, 1)
	assert.Equal(t, "2024-01", stats.MonthlyData[0].Month)
}
