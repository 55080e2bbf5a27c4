// Package advisor asks a generative model for financial commentary. It never
// fails: every problem turns into a fixed placeholder text.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/carson-networks/finance-server/internal/model"
	"github.com/carson-networks/finance-server/internal/portfolio"
)

const (
	MessageNoAPIKey        = "API Key not found. Please configure your environment to enable AI insights."
	MessageEmptyAdvice     = "Could not generate advice at this time."
	MessageAdviceFailed    = "Unable to connect to AI advisor. Please check your internet connection or API key."
	MessageNoAPIKeyShort   = "API Key missing."
	MessageEmptyAnalysis   = "No analysis available."
	MessageAnalysisFailed  = "Analysis failed."
	recentTransactionCount = 10
)

// generator is the part of genai.Models the advisor calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey           string
	Model            string
	FailureThreshold int
	ResetTimeout     time.Duration
}

type Advisor struct {
	models  generator
	model   string
	breaker *breaker
}

// New builds an advisor backed by the Gemini API. With no API key it returns
// an advisor that only answers with placeholders.
func New(ctx context.Context, cfg Config) (*Advisor, error) {
	if cfg.APIKey == "" {
		return newAdvisor(nil, cfg), nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return newAdvisor(client.Models, cfg), nil
}

func newAdvisor(models generator, cfg Config) *Advisor {
	return &Advisor{
		models:  models,
		model:   cfg.Model,
		breaker: newBreaker(cfg.FailureThreshold, cfg.ResetTimeout),
	}
}

// Advise summarises the user's finances and suggests actions.
func (a *Advisor) Advise(ctx context.Context, accounts []model.Account, transactions []model.Transaction, holdings []model.StockHolding) string {
	if a.models == nil {
		return MessageNoAPIKey
	}
	text, err := a.generate(ctx, advicePrompt(accounts, transactions, holdings))
	if err != nil {
		logrus.WithError(err).Error("advisor.Advise")
		return MessageAdviceFailed
	}
	if text == "" {
		return MessageEmptyAdvice
	}
	return text
}

// AnalyzeStock gives a one or two sentence description of symbol.
func (a *Advisor) AnalyzeStock(ctx context.Context, symbol string) string {
	if a.models == nil {
		return MessageNoAPIKeyShort
	}
	text, err := a.generate(ctx, analysisPrompt(symbol))
	if err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Error("advisor.AnalyzeStock")
		return MessageAnalysisFailed
	}
	if text == "" {
		return MessageEmptyAnalysis
	}
	return text
}

func (a *Advisor) generate(ctx context.Context, prompt string) (string, error) {
	return a.breaker.execute(func() (string, error) {
		resp, err := a.models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		if resp == nil {
			return "", errors.New("advisor: empty response")
		}
		return strings.TrimSpace(resp.Text()), nil
	})
}

// FormatMoney renders amount in currency, e.g. "$1,000.50". Unknown currency
// codes fall back to "<amount> <code>".
func FormatMoney(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return amount.StringFixed(2)
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), cur.Code).Display()
}

type promptAccount struct {
	Type    string `json:"type"`
	Balance string `json:"balance"`
}

type promptTransaction struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

type promptHolding struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	Gain     string `json:"gain"`
}

func advicePrompt(accounts []model.Account, transactions []model.Transaction, holdings []model.StockHolding) string {
	currencies := make(map[string]string, len(accounts))
	pAccounts := make([]promptAccount, len(accounts))
	for i, acc := range accounts {
		currencies[acc.ID.String()] = acc.Currency
		pAccounts[i] = promptAccount{Type: acc.Type.String(), Balance: FormatMoney(acc.Balance, acc.Currency)}
	}

	recent := transactions
	if len(recent) > recentTransactionCount {
		recent = recent[:recentTransactionCount]
	}
	pTransactions := make([]promptTransaction, len(recent))
	for i, tx := range recent {
		pTransactions[i] = promptTransaction{
			Type:     tx.Type.String(),
			Category: tx.Category,
			Amount:   FormatMoney(tx.Amount, currencies[tx.AccountID.String()]),
			Date:     tx.Date.Format(time.DateOnly),
		}
	}

	pHoldings := make([]promptHolding, len(holdings))
	for i, h := range holdings {
		pHoldings[i] = promptHolding{
			Symbol:   h.Symbol,
			Quantity: h.Quantity,
			Gain:     portfolio.Value(h).UnrealizedPnL.StringFixed(2),
		}
	}

	accountsJSON, _ := json.Marshal(pAccounts)
	transactionsJSON, _ := json.Marshal(pTransactions)
	holdingsJSON, _ := json.Marshal(pHoldings)

	return fmt.Sprintf(`You are an expert financial advisor. Analyze the following user financial data and provide a concise summary (max 200 words) and 3 bullet points of actionable advice.

Data:
Accounts: %s
Recent Transactions: %s
Stock Portfolio: %s

Format the response in Markdown. Use bolding for emphasis.
Focus on:
1. Spending habits.
2. Portfolio diversification risk.
3. Liquidity status.`, accountsJSON, transactionsJSON, holdingsJSON)
}

func analysisPrompt(symbol string) string {
	return fmt.Sprintf(`Analyze the stock %s based on general market knowledge up to your cutoff.
Provide a very brief (1-2 sentences) summary of what the company does and its general sector outlook.
Disclaimer: This is AI generated and not financial advice.`, symbol)
}
