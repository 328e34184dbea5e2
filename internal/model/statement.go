package model

import "time"

// Section is the statement grouping a transaction line was read under.
type Section string

const (
	SectionNone        Section = "NONE"
	SectionDeposits    Section = "DEPOSITS"
	SectionWithdrawals Section = "WITHDRAWALS"
	SectionElectronic  Section = "ELECTRONIC"
	SectionFees        Section = "FEES"
)

// Credit reports whether amounts in this section add to the balance.
func (s Section) Credit() bool { return s == SectionDeposits }

// Transaction is one parsed statement line. Amount is signed by Section.
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Section     Section   `json:"section"`
}

// Balances holds the statement's printed opening and closing balances.
type Balances struct {
	Beginning float64 `json:"beginning"`
	Ending    float64 `json:"ending"`
}

// Statement is one parsed bank statement.
type Statement struct {
	BankName        string        `json:"bankName"`
	AccountNumber   string        `json:"accountNumber,omitempty"`
	PeriodStart     time.Time     `json:"periodStart"`
	PeriodEnd       time.Time     `json:"periodEnd"`
	PeriodDefaulted bool          `json:"periodDefaulted"`
	Balances        Balances      `json:"balances"`
	Transactions    []Transaction `json:"transactions"`
	SkippedLines    int           `json:"skippedLines"`
}

// StatementReport pairs a parsed statement with its risk analysis.
type StatementReport struct {
	Statement    *Statement          `json:"statement"`
	RiskAnalysis *RiskAnalysisResult `json:"riskAnalysis"`
}
