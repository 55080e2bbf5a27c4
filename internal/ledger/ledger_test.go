package ledger

import (
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/model"
)

// -- Validate tests --

func TestValidate_Income(t *testing.T) {
	err := Validate(model.NewTransaction{
		AccountID: uuid.Must(uuid.NewV4()),
		Amount:    decimal.RequireFromString("10.00"),
		Type:      model.TransactionTypeIncome,
	})
	assert.NoError(t, err)
}

func TestValidate_ZeroAmountAllowed(t *testing.T) {
	err := Validate(model.NewTransaction{
		AccountID: uuid.Must(uuid.NewV4()),
		Amount:    decimal.Zero,
		Type:      model.TransactionTypeExpense,
	})
	assert.NoError(t, err)
}

func TestValidate_NegativeAmount(t *testing.T) {
	err := Validate(model.NewTransaction{
		AccountID: uuid.Must(uuid.NewV4()),
		Amount:    decimal.RequireFromString("-1"),
		Type:      model.TransactionTypeExpense,
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestValidate_UnknownType(t *testing.T) {
	err := Validate(model.NewTransaction{
		AccountID: uuid.Must(uuid.NewV4()),
		Amount:    decimal.RequireFromString("1"),
		Type:      model.TransactionType(42),
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestValidate_TransferRules(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	err := Validate(model.NewTransaction{AccountID: id, Amount: decimal.NewFromInt(1), Type: model.TransactionTypeTransfer})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument), "missing destination")

	err = Validate(model.NewTransaction{AccountID: id, ToAccountID: id, Amount: decimal.NewFromInt(1), Type: model.TransactionTypeTransfer})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument), "same account")

	err = Validate(model.NewTransaction{AccountID: id, ToAccountID: uuid.Must(uuid.NewV4()), Amount: decimal.NewFromInt(1), Type: model.TransactionTypeIncome})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument), "destination on income")
}

// -- Postings tests --

func TestPostings_BalanceScenario(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	balance := decimal.RequireFromString("1000")

	for _, p := range Postings(model.Transaction{AccountID: accountID, Amount: decimal.RequireFromString("200"), Type: model.TransactionTypeExpense}) {
		balance = Apply(balance, p)
	}
	assert.True(t, balance.Equal(decimal.RequireFromString("800")), balance.String())

	for _, p := range Postings(model.Transaction{AccountID: accountID, Amount: decimal.RequireFromString("500"), Type: model.TransactionTypeIncome}) {
		balance = Apply(balance, p)
	}
	assert.True(t, balance.Equal(decimal.RequireFromString("1300")), balance.String())
}

func TestPostings_SignFollowsType(t *testing.T) {
	amounts := []string{"0", "0.01", "12.50", "99999.99"}
	for _, a := range amounts {
		amount := decimal.RequireFromString(a)
		before := decimal.RequireFromString("321.09")

		income := Postings(model.Transaction{Amount: amount, Type: model.TransactionTypeIncome})
		assert.Len(t, income, 1)
		assert.True(t, Apply(before, income[0]).Sub(before).Equal(amount))

		expense := Postings(model.Transaction{Amount: amount, Type: model.TransactionTypeExpense})
		assert.Len(t, expense, 1)
		assert.True(t, Apply(before, expense[0]).Sub(before).Equal(amount.Neg()))
	}
}

func TestPostings_TransferConservesTotal(t *testing.T) {
	from := uuid.Must(uuid.NewV4())
	to := uuid.Must(uuid.NewV4())
	postings := Postings(model.Transaction{
		AccountID:   from,
		ToAccountID: to,
		Amount:      decimal.RequireFromString("75.25"),
		Type:        model.TransactionTypeTransfer,
	})

	assert.Len(t, postings, 2)
	assert.Equal(t, from, postings[0].AccountID)
	assert.Equal(t, to, postings[1].AccountID)
	assert.True(t, postings[0].Delta.Add(postings[1].Delta).IsZero())
}

func TestAccountIDs_SortedForTransfer(t *testing.T) {
	a := uuid.Must(uuid.FromString("00000000-0000-4000-8000-000000000001"))
	b := uuid.Must(uuid.FromString("00000000-0000-4000-8000-000000000002"))

	ids := AccountIDs(model.NewTransaction{AccountID: b, ToAccountID: a, Type: model.TransactionTypeTransfer})
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	ids = AccountIDs(model.NewTransaction{AccountID: b, Type: model.TransactionTypeIncome})
	assert.Equal(t, []uuid.UUID{b}, ids)
}
