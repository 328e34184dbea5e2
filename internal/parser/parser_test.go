package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StatementSentinel/internal/model"
)

type fixture struct {
	date        string
	description string
	amount      float64
	section     model.Section
	category    string
}

var fixtures = []fixture{
	{"01/03", "Stripe Transfer", 1200.00, model.SectionDeposits, "Card Processing"},
	{"01/15", "Mobile Deposit", 450.25, model.SectionDeposits, "Deposit"},
	{"01/05", "Whole Foods Market", 82.40, model.SectionWithdrawals, "Groceries"},
	{"01/20", "ATM Withdrawal", 200.00, model.SectionWithdrawals, "Cash"},
	{"01/10", "ADP Payroll", 1500.00, model.SectionElectronic, "Payroll"},
	{"01/25", "Comcast Business", 129.99, model.SectionElectronic, "Utilities"},
	{"01/12", "NSF Fee", 35.00, model.SectionFees, "NSF Fee"},
	{"01/31", "Monthly Service Fee", 15.00, model.SectionFees, "Service Fee"},
}

var headers = map[model.Section]string{
	model.SectionDeposits:    "DEPOSITS AND ADDITIONS",
	model.SectionWithdrawals: "ATM & DEBIT CARD WITHDRAWALS",
	model.SectionElectronic:  "ELECTRONIC WITHDRAWALS",
	model.SectionFees:        "FEES",
}

func buildStatement(fx []fixture) string {
	var b strings.Builder
	b.WriteString("CHASE BUSINESS COMPLETE CHECKING\n")
	b.WriteString("Account Number: 000000123456789\n")
	b.WriteString("Statement Period: 01/01/2024 - 01/31/2024\n")
	b.WriteString("Beginning Balance $2,500.00\n")
	b.WriteString("Ending Balance $2,187.86\n\n")
	// This line has the transaction shape but sits outside any section.
	b.WriteString("01/01 Opening summary line 9,999.99\n")
	for _, s := range []model.Section{model.SectionDeposits, model.SectionWithdrawals, model.SectionElectronic, model.SectionFees} {
		b.WriteString(headers[s] + "\n")
		for _, f := range fx {
			if f.section != s {
				continue
			}
			// Mix printed signs; the section alone decides the sign.
			printed := fmt.Sprintf("$%.2f", f.amount)
			if s == model.SectionWithdrawals {
				printed = "-" + printed
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", f.date, f.description, printed))
		}
		b.WriteString("Total " + strings.ToLower(headers[s]) + " $0.00\n")
	}
	b.WriteString("DAILY ENDING BALANCE\n01/31 End of day 2,187.86\n")
	return b.String()
}

func TestParse_FixtureRoundTrip(t *testing.T) {
	st, err := New().Parse(buildStatement(fixtures))
	require.NoError(t, err)

	assert.Equal(t, "Chase", st.BankName)
	assert.Equal(t, "000000123456789", st.AccountNumber)
	assert.False(t, st.PeriodDefaulted)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), st.PeriodStart)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), st.PeriodEnd)
	assert.Equal(t, 2500.00, st.Balances.Beginning)
	assert.Equal(t, 2187.86, st.Balances.Ending)

	require.Len(t, st.Transactions, len(fixtures))
	byDesc := make(map[string]model.Transaction, len(st.Transactions))
	for _, txn := range st.Transactions {
		byDesc[txn.Description] = txn
	}
	for _, f := range fixtures {
		txn, ok := byDesc[f.description]
		require.True(t, ok, "missing %q", f.description)
		want := f.amount
		if f.section != model.SectionDeposits {
			want = -want
		}
		assert.Equal(t, want, txn.Amount, f.description)
		assert.Equal(t, f.section, txn.Section, f.description)
		assert.Equal(t, f.category, txn.Category, f.description)
		assert.Equal(t, f.date, txn.Date.Format("01/02"), f.description)
	}

	for i := 1; i < len(st.Transactions); i++ {
		assert.False(t, st.Transactions[i].Date.Before(st.Transactions[i-1].Date), "transactions not sorted")
	}
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	text := "Wells Fargo\nStatement Period: 03/01/2024 - 03/31/2024\nDeposits\n" +
		"03/02 Square Deposit 500.00\n" +
		"13/45 Impossible Date 10.00\n" +
		"not a transaction line\n"
	st, err := New().Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "Wells Fargo", st.BankName)
	require.Len(t, st.Transactions, 1)
	assert.Equal(t, 1, st.SkippedLines)
	assert.Equal(t, 500.00, st.Transactions[0].Amount)
}

func TestParse_DefaultsToCurrentMonth(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	text := "Account summary\nDeposits\n10/02 Cash Deposit 100.00\n"

	st, err := New(WithClock(clock)).Parse(text)
	require.NoError(t, err)
	assert.True(t, st.PeriodDefaulted)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), st.PeriodStart)
	assert.Equal(t, time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), st.PeriodEnd)
	assert.Equal(t, unknownBank, st.BankName)
	assert.Equal(t, 2026, st.Transactions[0].Date.Year())
}

func TestParse_YearRollover(t *testing.T) {
	text := "Statement Period: December 15, 2023 through January 14, 2024\nWithdrawals\n" +
		"12/28 Office Depot 40.00\n01/03 Rent Payment 1,000.00\n"
	st, err := New().Parse(text)
	require.NoError(t, err)
	require.Len(t, st.Transactions, 2)
	assert.Equal(t, 2023, st.Transactions[0].Date.Year())
	assert.Equal(t, 2024, st.Transactions[1].Date.Year())
	assert.Equal(t, "Rent", st.Transactions[1].Category)
	assert.Equal(t, -1000.00, st.Transactions[1].Amount)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no markers", "Dear customer, thank you for your order of widgets."},
		{"markers but no transactions", "Account Number: 1234-5678\nBeginning Balance $100.00\n"},
		{"transactions outside sections", "Account summary\n01/02 Coffee 4.50\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := New().Parse(tt.text)
			assert.Nil(t, st)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrParseFailure))
			var pf *ParseFailure
			require.ErrorAs(t, err, &pf)
			assert.Contains(t, pf.Error(), "does not resemble a bank statement")
		})
	}
}

func TestSectionMachine_Transitions(t *testing.T) {
	m := newSectionMachine()
	assert.False(t, m.Active())

	steps := []struct {
		line   string
		header bool
		want   model.Section
	}{
		{"Deposits and Additions", true, model.SectionDeposits},
		{"Total Deposits and Additions $1,650.25", false, model.SectionDeposits},
		{"ELECTRONIC WITHDRAWALS:", true, model.SectionElectronic},
		{"Withdrawals", true, model.SectionWithdrawals},
		{"Service Charges", true, model.SectionFees},
		{"Daily Ending Balance", true, model.SectionNone},
		{"random text", false, model.SectionNone},
	}
	for _, s := range steps {
		assert.Equal(t, s.header, m.Feed(s.line), s.line)
		assert.Equal(t, s.want, m.Section(), s.line)
	}
}

func TestWithCategoryRules(t *testing.T) {
	p := New(WithCategoryRules(model.SectionWithdrawals, []CategoryRule{
		{Keywords: []string{"whole foods"}, Category: "Inventory"},
	}))
	text := "Statement Period: 01/01/2024 - 01/31/2024\nWithdrawals\n01/05 Whole Foods Market 82.40\n01/06 Kroger 10.00\n"
	st, err := p.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "Inventory", st.Transactions[0].Category)
	assert.Equal(t, "Groceries", st.Transactions[1].Category)
}

func TestParseAll_OrdersByPeriod(t *testing.T) {
	feb := "Statement Period: 02/01/2024 - 02/29/2024\nDeposits\n02/02 Deposit 10.00\n"
	jan := "Statement Period: 01/01/2024 - 01/31/2024\nDeposits\n01/02 Deposit 20.00\n"

	sts, err := New().ParseAll([]string{feb, jan})
	require.NoError(t, err)
	require.Len(t, sts, 2)
	assert.Equal(t, time.January, sts[0].PeriodStart.Month())
	assert.Equal(t, time.February, sts[1].PeriodStart.Month())

	_, err = New().ParseAll([]string{jan, "nothing here"})
	assert.ErrorIs(t, err, model.ErrParseFailure)
}
