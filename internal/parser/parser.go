// Package parser turns extracted bank-statement text into a model.Statement.
package parser

import (
	"bufio"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"StatementSentinel/internal/model"
)

// Parser reads statement text. The zero value is not usable; call New.
type Parser struct {
	now   func() time.Time
	rules map[model.Section][]CategoryRule
	log   zerolog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock used for the current-month period fallback.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithLogger sets the logger for skipped-line diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Parser) { p.log = log }
}

// WithCategoryRules puts extra rules ahead of the built-in table for a section.
func WithCategoryRules(section model.Section, rules []CategoryRule) Option {
	return func(p *Parser) {
		merged := make([]CategoryRule, 0, len(rules)+len(p.rules[section]))
		merged = append(merged, rules...)
		merged = append(merged, p.rules[section]...)
		p.rules[section] = merged
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		now:   time.Now,
		rules: make(map[model.Section][]CategoryRule, len(defaultCategoryRules)),
		log:   zerolog.Nop(),
	}
	for s, r := range defaultCategoryRules {
		p.rules[s] = r
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds a Statement from raw text. Malformed transaction lines are
// skipped; a *ParseFailure is returned only when the text has no statement
// markers at all or yields no transactions.
func (p *Parser) Parse(rawText string) (*model.Statement, error) {
	if !structuralMarker.MatchString(rawText) {
		return nil, &ParseFailure{Reason: "no account, balance, transaction or date markers found"}
	}

	st := &model.Statement{
		BankName:      detectBank(rawText),
		AccountNumber: detectAccount(rawText),
	}
	if start, end, ok := detectPeriod(rawText); ok {
		st.PeriodStart, st.PeriodEnd = start, end
	} else {
		st.PeriodStart, st.PeriodEnd = currentMonth(p.now())
		st.PeriodDefaulted = true
	}
	if v, ok := findBalance(beginningBalancePattern, rawText); ok {
		st.Balances.Beginning = v
	}
	if v, ok := findBalance(endingBalancePattern, rawText); ok {
		st.Balances.Ending = v
	}

	machine := newSectionMachine()
	scanner := bufio.NewScanner(strings.NewReader(rawText))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || machine.Feed(line) || !machine.Active() {
			continue
		}
		m := transactionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		txn, err := p.buildTransaction(m, machine.Section(), st.PeriodEnd)
		if err != nil {
			st.SkippedLines++
			p.log.Debug().Err(err).Str("line", line).Msg("skipping malformed transaction line")
			continue
		}
		st.Transactions = append(st.Transactions, txn)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseFailure{Reason: "read text: " + err.Error()}
	}

	if len(st.Transactions) == 0 {
		return nil, &ParseFailure{Reason: "no transactions found"}
	}
	sort.SliceStable(st.Transactions, func(i, j int) bool {
		return st.Transactions[i].Date.Before(st.Transactions[j].Date)
	})

	p.log.Debug().
		Str("bank", st.BankName).
		Int("transactions", len(st.Transactions)).
		Int("skipped_lines", st.SkippedLines).
		Bool("period_defaulted", st.PeriodDefaulted).
		Msg("statement parsed")
	return st, nil
}

// ParseAll parses several documents and orders them by period start.
// The first failure aborts the batch.
func (p *Parser) ParseAll(texts []string) ([]*model.Statement, error) {
	out := make([]*model.Statement, 0, len(texts))
	for _, text := range texts {
		st, err := p.Parse(text)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PeriodStart.Before(out[j].PeriodStart)
	})
	return out, nil
}

func (p *Parser) buildTransaction(m []string, section model.Section, periodEnd time.Time) (model.Transaction, error) {
	date, err := transactionDate(m[1], periodEnd)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := parseAmount(m[3])
	if err != nil {
		return model.Transaction{}, err
	}
	// The section decides the sign; any sign printed in the text is ignored.
	if amount < 0 {
		amount = -amount
	}
	if !section.Credit() {
		amount = -amount
	}
	desc := strings.Join(strings.Fields(m[2]), " ")
	return model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    categorize(p.rules, section, desc),
		Section:     section,
	}, nil
}
