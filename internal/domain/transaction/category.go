package transaction

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryOther is used for transactions without a category.
const CategoryOther = "Other"

// CategoryMapping maps Plaid personal finance primary categories to the
// names shown on the dashboard.
var CategoryMapping = map[string]string{
	"INCOME":                    "Income",
	"TRANSFER_IN":               "Transfer",
	"TRANSFER_OUT":              "Transfer",
	"LOAN_PAYMENTS":             "Loan Payments",
	"BANK_FEES":                 "Bank Fees",
	"ENTERTAINMENT":             "Entertainment",
	"FOOD_AND_DRINK":            "Food and Drink",
	"GENERAL_MERCHANDISE":       "Shopping",
	"HOME_IMPROVEMENT":          "Home Improvement",
	"MEDICAL":                   "Medical",
	"PERSONAL_CARE":             "Personal Care",
	"GENERAL_SERVICES":          "Services",
	"GOVERNMENT_AND_NON_PROFIT": "Government and Non-Profit",
	"TRANSPORTATION":            "Transportation",
	"TRAVEL":                    "Travel",
	"RENT_AND_UTILITIES":        "Rent and Utilities",
}

// TranslateCategory returns the dashboard name of a Plaid category. Legacy
// category names that have no mapping are returned as-is.
func TranslateCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return CategoryOther
	}
	if name, ok := CategoryMapping[category]; ok {
		return name
	}
	return category
}

// CategoryCount summarizes the transactions of one category.
type CategoryCount struct {
	Name         string          `json:"name"`
	Count        int             `json:"count"`
	TotalCount   int             `json:"totalCount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// CountCategories groups txs by category, most frequent first. TotalCount is
// len(txs) on every entry and TotalAmount is credits minus debits.
func CountCategories(txs []Transaction) []CategoryCount {
	byName := make(map[string]*CategoryCount)
	for _, t := range txs {
		name := t.Category
		if name == "" {
			name = CategoryOther
		}

		c, ok := byName[name]
		if !ok {
			c = &CategoryCount{Name: name}
			byName[name] = c
		}

		c.Count++
		if t.Type == TypeDebit {
			c.DebitAmount = c.DebitAmount.Add(t.Amount.Abs())
		} else {
			c.CreditAmount = c.CreditAmount.Add(t.Amount.Abs())
		}
		c.TotalAmount = c.TotalAmount.Add(t.signed())
	}

	out := make([]CategoryCount, 0, len(byName))
	for _, c := range byName {
		c.TotalCount = len(txs)
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
