package model

import "github.com/shopspring/decimal"

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// FinancialSnapshot is a point-in-time overview of a user's finances.
type FinancialSnapshot struct {
	TotalAssets        decimal.Decimal
	TotalLiabilities   decimal.Decimal
	NetWorth           decimal.Decimal
	CashBalance        decimal.Decimal
	StockValue         decimal.Decimal
	TotalIncome        decimal.Decimal
	TotalExpense       decimal.Decimal
	MonthlyIncome      decimal.Decimal
	MonthlyExpense     decimal.Decimal
	ExpensesByCategory []CategoryTotal
}
