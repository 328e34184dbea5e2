package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// bankPattern pairs a display name with the pattern that detects it.
type bankPattern struct {
	name    string
	pattern *regexp.Regexp
}

const unknownBank = "Unknown Bank"

// bankPatterns is tested in order; the first match names the bank.
var bankPatterns = []bankPattern{
	{"Chase", regexp.MustCompile(`(?i)\b(jpmorgan\s+)?chase\b`)},
	{"Bank of America", regexp.MustCompile(`(?i)\bbank\s+of\s+america\b`)},
	{"Wells Fargo", regexp.MustCompile(`(?i)\bwells\s+fargo\b`)},
	{"Citibank", regexp.MustCompile(`(?i)\bciti(bank)?\b`)},
	{"U.S. Bank", regexp.MustCompile(`(?i)\bu\.?s\.?\s+bank\b`)},
	{"PNC", regexp.MustCompile(`(?i)\bpnc\b`)},
	{"Capital One", regexp.MustCompile(`(?i)\bcapital\s+one\b`)},
	{"TD Bank", regexp.MustCompile(`(?i)\btd\s+bank\b`)},
	{"Truist", regexp.MustCompile(`(?i)\btruist\b`)},
	{"Regions", regexp.MustCompile(`(?i)\bregions\s+bank\b`)},
}

var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)account\s*(?:number|no\.?|#)\s*:?\s*([X*\d][X*\d\-]{3,})`),
	regexp.MustCompile(`(?i)acct\.?\s*(?:number|no\.?|#)?\s*:?\s*([X*\d][X*\d\-]{3,})`),
}

// periodPattern captures start and end date strings parsed with layouts.
type periodPattern struct {
	pattern *regexp.Regexp
	layouts []string
}

var periodPatterns = []periodPattern{
	{
		regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*(?:-|–|to|through|thru)\s*(\d{1,2}/\d{1,2}/\d{4})`),
		[]string{"1/2/2006"},
	},
	{
		regexp.MustCompile(`(?i)([a-z]{3,9}\.? \d{1,2}, \d{4})\s*(?:-|–|to|through|thru)\s*([a-z]{3,9}\.? \d{1,2}, \d{4})`),
		[]string{"January 2, 2006", "Jan 2, 2006", "Jan. 2, 2006"},
	},
	{
		regexp.MustCompile(`(?i)for the period\s+(\d{4}-\d{2}-\d{2})\s+(?:to|through|-)\s+(\d{4}-\d{2}-\d{2})`),
		[]string{"2006-01-02"},
	},
}

const amountExpr = `\(?-?\$?-?[\d,]*\d\.\d{2}\)?`

var (
	amountPattern = regexp.MustCompile(amountExpr)

	beginningBalancePattern = regexp.MustCompile(`(?i)(?:beginning|opening|previous|starting)\s+balance\b.*?(` + amountExpr + `)`)
	endingBalancePattern    = regexp.MustCompile(`(?i)(?:ending|closing|new)\s+balance\b.*?(` + amountExpr + `)`)

	// transactionLine is the date · description · amount shape.
	transactionLine = regexp.MustCompile(`^(\d{1,2}/\d{1,2}(?:/\d{2}(?:\d{2})?)?)\s+(.+?)\s+(` + amountExpr + `)$`)

	// structuralMarker is anything a bank statement is expected to contain.
	structuralMarker = regexp.MustCompile(`(?i)\b(?:account|balance|statement|deposit|withdrawal|transaction)s?\b|\b\d{1,2}/\d{1,2}\b`)
)

func detectBank(text string) string {
	for _, b := range bankPatterns {
		if b.pattern.MatchString(text) {
			return b.name
		}
	}
	return unknownBank
}

func detectAccount(text string) string {
	for _, p := range accountPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimRight(m[1], "-")
		}
	}
	return ""
}

// detectPeriod returns the statement period, or ok=false if no pattern matched.
func detectPeriod(text string) (start, end time.Time, ok bool) {
	for _, p := range periodPatterns {
		m := p.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		s, errS := parseWithLayouts(m[1], p.layouts)
		e, errE := parseWithLayouts(m[2], p.layouts)
		if errS != nil || errE != nil || e.Before(s) {
			continue
		}
		return s, e, true
	}
	return time.Time{}, time.Time{}, false
}

// currentMonth is the fallback period: first to last day of now's month.
func currentMonth(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func parseWithLayouts(value string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, strings.TrimSpace(value))
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseAmount reads a printed amount. Parentheses or a minus sign make it negative.
func parseAmount(raw string) (float64, error) {
	negative := strings.ContainsAny(raw, "-(")
	clean := strings.NewReplacer("$", "", ",", "", "(", "", ")", "", "-", "", "+", "").Replace(raw)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		v = -v
	}
	return v, nil
}

func findBalance(p *regexp.Regexp, text string) (float64, bool) {
	m := p.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := parseAmount(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// transactionDate resolves MM/DD[/YY[YY]] against the statement period. A
// missing year comes from the period end, stepping back a year for months
// after the end month (a December line on a January statement).
func transactionDate(raw string, periodEnd time.Time) (time.Time, error) {
	parts := strings.Split(raw, "/")
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, err
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, err
	}
	year := periodEnd.Year()
	if len(parts) == 3 {
		if year, err = strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, err
		}
		if year < 100 {
			year += 2000
		}
	} else if time.Month(month) > periodEnd.Month() {
		year--
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}
