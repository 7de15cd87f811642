// Package domain holds the record types persisted by the bank and the
// enumerations shared by every service. Field JSON tags match the collection
// shapes written by the storage layer.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a customer account.
type AccountType string

const (
	AccountSavings AccountType = "savings"
	AccountCurrent AccountType = "current"
	AccountSalary  AccountType = "salary"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountSavings, AccountCurrent, AccountSalary:
		return true
	}
	return false
}

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Transaction categories written by the ledger and fixed-deposit engines.
const (
	CategoryDeposit      = "deposit"
	CategoryWithdrawal   = "withdrawal"
	CategoryTransfer     = "transfer"
	CategoryFixedDeposit = "fixed_deposit"
)

// FixedDepositStatus is the lifecycle state of a fixed deposit.
type FixedDepositStatus string

const (
	FixedDepositActive  FixedDepositStatus = "active"
	FixedDepositMatured FixedDepositStatus = "matured"
)

// NotificationType controls how a notification is rendered.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
)

// TransferStatus is the state of a recurring transfer instruction.
type TransferStatus string

const (
	TransferActive TransferStatus = "active"
	TransferPaused TransferStatus = "paused"
)

// Frequency is how often a recurring transfer runs.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Next returns the execution time one period after t.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// LoginStatus records the outcome of a login attempt.
type LoginStatus string

const (
	LoginSuccess LoginStatus = "success"
	LoginFailure LoginStatus = "failure"
)

// User is a bank customer. The PIN is stored in the clear, a known gap
// inherited from the demo design.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	AccountNumber  string    `json:"accountNumber"`
	PIN            string    `json:"pin"`
	Locked         bool      `json:"locked"`
	FailedAttempts int       `json:"failedAttempts"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Account holds a balance. The balance changes only through ledger engine
// operations and never goes negative.
type Account struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	Type          AccountType     `json:"type"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Transaction is one immutable ledger entry. Amount is signed: positive for
// credits, negative for debits, magnitude equal to the balance delta.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	AccountID   string          `json:"accountId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
}

// FixedDeposit is a fixed-term simple-interest instrument. Principal, rate
// and tenure are immutable after creation.
type FixedDeposit struct {
	ID             string             `json:"id"`
	UserID         string             `json:"userId"`
	AccountID      string             `json:"accountId"`
	Amount         decimal.Decimal    `json:"amount"`
	InterestRate   decimal.Decimal    `json:"interestRate"`
	TenureMonths   int                `json:"tenure"`
	MaturityAmount decimal.Decimal    `json:"maturityAmount"`
	MaturityDate   time.Time          `json:"maturityDate"`
	CreatedAt      time.Time          `json:"createdAt"`
	Status         FixedDepositStatus `json:"status"`
}

// Card is a payment card tied to an account. Only the frozen flag mutates.
type Card struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	AccountID  string    `json:"accountId"`
	CardNumber string    `json:"cardNumber"`
	CVV        string    `json:"cvv"`
	ExpiryDate time.Time `json:"expiryDate"`
	Frozen     bool      `json:"frozen"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Notification is an event emitted by the engines. Only the read flag mutates.
type Notification struct {
	ID      string           `json:"id"`
	UserID  string           `json:"userId"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    time.Time        `json:"date"`
	Read    bool             `json:"read"`
	Type    NotificationType `json:"type"`
}

// RecurringTransfer is a standing transfer instruction.
type RecurringTransfer struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	FromAccount   string          `json:"fromAccount"`
	ToAccount     string          `json:"toAccount"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     Frequency       `json:"frequency"`
	Description   string          `json:"description"`
	Status        TransferStatus  `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	NextExecution time.Time       `json:"nextExecution"`
}

// LoginHistoryEntry is one row of the append-only login audit log.
type LoginHistoryEntry struct {
	ID     string      `json:"id"`
	UserID string      `json:"userId"`
	Date   time.Time   `json:"date"`
	Status LoginStatus `json:"status"`
	IP     string      `json:"ip"`
}

// AdminCredentials is the administrative console credential singleton.
// The seeded default (admin/admin123) is a deliberately weak demo value.
type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountStatusActive is the only account status the engines produce.
const AccountStatusActive = "active"
