package parser

import (
	"strings"

	"StatementSentinel/internal/model"
)

// sectionHeader maps a header text to the section it opens.
type sectionHeader struct {
	text    string
	section model.Section
}

// sectionHeaders is matched in order, so longer headers that share a word with
// a shorter one come first ("electronic withdrawals" before "withdrawals").
// Headers that map to SectionNone close the current section.
var sectionHeaders = []sectionHeader{
	{"electronic withdrawals", model.SectionElectronic},
	{"electronic payments", model.SectionElectronic},
	{"electronic debits", model.SectionElectronic},
	{"ach debits", model.SectionElectronic},
	{"atm & debit card withdrawals", model.SectionWithdrawals},
	{"atm and debit card withdrawals", model.SectionWithdrawals},
	{"withdrawals and other debits", model.SectionWithdrawals},
	{"other withdrawals", model.SectionWithdrawals},
	{"checks paid", model.SectionWithdrawals},
	{"withdrawals", model.SectionWithdrawals},
	{"debits", model.SectionWithdrawals},
	{"service fees", model.SectionFees},
	{"fees and charges", model.SectionFees},
	{"service charges", model.SectionFees},
	{"fees", model.SectionFees},
	{"deposits and additions", model.SectionDeposits},
	{"deposits and other credits", model.SectionDeposits},
	{"deposits", model.SectionDeposits},
	{"credits", model.SectionDeposits},
	{"daily ending balance", model.SectionNone},
	{"daily balance", model.SectionNone},
	{"account summary", model.SectionNone},
	{"checking summary", model.SectionNone},
	{"balance summary", model.SectionNone},
}

// sectionMachine tracks which transaction section the parser is inside.
type sectionMachine struct {
	current model.Section
}

func newSectionMachine() *sectionMachine {
	return &sectionMachine{current: model.SectionNone}
}

// Feed moves the machine if line is a section header and reports whether it was.
// Lines that carry an amount are never headers ("Total Deposits $5,000.00").
func (m *sectionMachine) Feed(line string) bool {
	if amountPattern.MatchString(line) {
		return false
	}
	norm := strings.ToLower(strings.TrimSpace(line))
	norm = strings.TrimRight(norm, ": ")
	if norm == "" {
		return false
	}
	for _, h := range sectionHeaders {
		if norm == h.text || strings.HasPrefix(norm, h.text+" ") {
			m.current = h.section
			return true
		}
	}
	return false
}

// Active reports whether transaction lines should currently be parsed.
func (m *sectionMachine) Active() bool { return m.current != model.SectionNone }

func (m *sectionMachine) Section() model.Section { return m.current }
