package taxonomy

import "fmt"

// DefaultVersion identifies the built-in broker taxonomy revision.
const DefaultVersion = "builtin-2025.2"

// brokerCategories is the built-in list of document categories shared
// with brokers. Order matters only for display; names are matched
// exactly, apostrophes and all.
var brokerCategories = []string{
	"Payslips",
	"Bank Statements",
	"Credit Card Statements",
	"Savings Statements",
	"Home Loan Statements",
	"Personal Loan Statements",
	"Car Loan Statements",
	"Investment Loan Statements",
	"Rates Notice",
	"Utility Bills",
	"Phone & Internet Bills",
	"Insurance Policies",
	"Rental Statements",
	"Rental Ledger",
	"Tax Returns",
	"Notice of Assessment",
	"Group Certificates",
	"Superannuation Statement",
	"Share Statements",
	"Dividend Statements",
	"Trust Deeds",
	"Company Financials",
	"Business Activity Statements",
	"Profit & Loss Statements",
	"Balance Sheets",
	"Passport",
	"Driver's Licence",
	"Medicare Card",
	"Birth Certificate",
	"Marriage Certificate",
	"Citizenship Certificate",
	"Visa Grant Notice",
	"Contract of Sale",
	"Deposit Receipts",
	"Gift Letters",
	"Statutory Declarations",
}

// BrokerCategories returns a copy of the built-in broker category names.
func BrokerCategories() []string {
	out := make([]string, len(brokerCategories))
	copy(out, brokerCategories)
	return out
}

// Default returns a registry holding the built-in broker taxonomy. It
// panics only if the built-in list is itself invalid, which the test
// suite guards against.
func Default() *Registry {
	reg, err := NewWithOptions(brokerCategories, Options{Version: DefaultVersion})
	if err != nil {
		panic(fmt.Sprintf("taxonomy: built-in broker taxonomy is invalid: %v", err))
	}
	return reg
}
