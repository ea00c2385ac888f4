package models

// PaymentInstructions describes how to pay the registration fee via M-Pesa.
type PaymentInstructions struct {
	AmountKES      int      `json:"amountKes"`
	BusinessNumber string   `json:"businessNumber"`
	AccountNumber  string   `json:"accountNumber"`
	SupportEmail   string   `json:"supportEmail"`
	Steps          []string `json:"steps"`
}
