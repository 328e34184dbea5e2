package parser

import (
	"strings"

	"StatementSentinel/internal/model"
)

const defaultCategory = "Other"

// CategoryRule assigns Category to descriptions containing any of Keywords.
type CategoryRule struct {
	Keywords []string
	Category string
}

// defaultCategoryRules is the per-section keyword table. Rules are tried in order.
var defaultCategoryRules = map[model.Section][]CategoryRule{
	model.SectionDeposits: {
		{[]string{"stripe", "square", "shopify", "paypal", "merchant", "card settlement"}, "Card Processing"},
		{[]string{"payroll", "salary", "direct dep"}, "Payroll"},
		{[]string{"loan", "advance", "funding"}, "Financing"},
		{[]string{"refund", "reversal", "return credit"}, "Refund"},
		{[]string{"interest"}, "Interest"},
		{[]string{"transfer", "xfer", "zelle", "venmo", "wire"}, "Transfer"},
		{[]string{"deposit"}, "Deposit"},
	},
	model.SectionWithdrawals: {
		{[]string{"grocery", "market", "whole foods", "kroger", "safeway"}, "Groceries"},
		{[]string{"atm", "cash withdrawal"}, "Cash"},
		{[]string{"check"}, "Check"},
		{[]string{"rent", "lease"}, "Rent"},
		{[]string{"fuel", "gas station", "shell", "chevron", "exxon"}, "Fuel"},
		{[]string{"restaurant", "cafe", "coffee", "grill"}, "Dining"},
		{[]string{"amazon", "office", "staples"}, "Supplies"},
	},
	model.SectionElectronic: {
		{[]string{"payroll", "adp", "gusto", "paychex"}, "Payroll"},
		{[]string{"irs", "tax", "eftps"}, "Taxes"},
		{[]string{"insurance"}, "Insurance"},
		{[]string{"utility", "electric", "water", "comcast", "verizon", "at&t"}, "Utilities"},
		{[]string{"loan", "lending", "capital", "financing"}, "Loan Payment"},
		{[]string{"amex", "visa", "mastercard", "card payment", "autopay"}, "Card Payment"},
		{[]string{"transfer", "zelle", "ach", "wire"}, "Transfer"},
	},
	model.SectionFees: {
		{[]string{"nsf", "insufficient", "returned item", "overdraft"}, "NSF Fee"},
		{[]string{"wire"}, "Wire Fee"},
		{[]string{"atm"}, "ATM Fee"},
		{[]string{"service", "maintenance", "monthly"}, "Service Fee"},
	},
}

func categorize(rules map[model.Section][]CategoryRule, section model.Section, description string) string {
	desc := strings.ToLower(description)
	for _, r := range rules[section] {
		for _, kw := range r.Keywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				return r.Category
			}
		}
	}
	return defaultCategory
}
