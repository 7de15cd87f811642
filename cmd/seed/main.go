// Command seed populates a data directory with demo customers, accounts,
// cards, transactions, fixed deposits and notifications. Every demo
// customer logs in with PIN 1234.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/calc"
	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/logger"
	"github.com/securebank/corebank/internal/onboarding"
	"github.com/securebank/corebank/internal/storage"
	"github.com/securebank/corebank/internal/storage/jsonfile"
)

var firstNames = []string{"Rajesh", "Priya", "Amit", "Sneha", "Vikram", "Anjali", "Rahul", "Kavita", "Suresh", "Meera"}
var lastNames = []string{"Kumar", "Sharma", "Patel", "Singh", "Reddy", "Menon", "Gupta", "Nair", "Verma", "Desai"}

var creditDescriptions = []string{
	"Salary Credited",
	"Fund Transfer Received",
	"Interest Credited",
	"Refund Credited",
	"Dividend Received",
	"Freelance Payment",
	"Investment Return",
	"Cashback Credited",
}

var debitDescriptions = []string{
	"ATM Withdrawal",
	"Online Shopping",
	"Bill Payment",
	"UPI Payment",
	"EMI Deduction",
	"Grocery Purchase",
	"Restaurant Payment",
	"Fuel Purchase",
	"Mobile Recharge",
	"Utility Bill Payment",
}

func main() {
	var (
		dataDir = flag.String("data", "data", "data directory to seed")
		count   = flag.Int("count", 10, "number of demo customers")
	)
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New("info")

	store, err := jsonfile.Open(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}

	ctx := context.Background()

	existing, err := store.ListUsers(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list users")
	}
	if len(existing) >= *count {
		log.Info().Int("users", len(existing)).Msg("Demo data already exists")
		return
	}

	if err := seed(ctx, store, *count); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Int("users", *count).Str("dir", *dataDir).Msg("Demo data seeded")
}

func seed(ctx context.Context, store storage.Store, count int) error {
	accountTypes := []domain.AccountType{domain.AccountSavings, domain.AccountCurrent, domain.AccountSalary}
	now := time.Now()

	for i := 0; i < count; i++ {
		first := pick(firstNames)
		last := pick(lastNames)
		createdAt := randomDate(now, 180)

		user := &domain.User{
			ID:            uuid.NewString(),
			Name:          first + " " + last,
			Email:         fmt.Sprintf("%s.%s@gmail.com", strings.ToLower(first), strings.ToLower(last)),
			Phone:         fmt.Sprintf("%d", 9000000000+rand.Int63n(999999999)),
			AccountNumber: onboarding.GenerateAccountNumber(createdAt),
			PIN:           "1234",
			CreatedAt:     createdAt,
		}
		// The last customer demonstrates the lockout state.
		if i == count-1 {
			user.Locked = true
			user.FailedAttempts = 3
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return err
		}

		numAccounts := 1
		switch {
		case i < 3:
			numAccounts = 3
		case i < 7:
			numAccounts = 2
		}

		var accounts []*domain.Account
		for j := 0; j < numAccounts; j++ {
			account := &domain.Account{
				ID:            uuid.NewString(),
				UserID:        user.ID,
				AccountNumber: user.AccountNumber,
				Type:          accountTypes[j%len(accountTypes)],
				Balance:       decimal.NewFromInt(10000 + rand.Int63n(490001)),
				Status:        domain.AccountStatusActive,
				CreatedAt:     createdAt,
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return err
			}
			accounts = append(accounts, account)

			card := &domain.Card{
				ID:         uuid.NewString(),
				UserID:     user.ID,
				AccountID:  account.ID,
				CardNumber: fmt.Sprintf("4532%012d", rand.Int63n(1_000_000_000_000)),
				CVV:        fmt.Sprintf("%03d", rand.Intn(1000)),
				ExpiryDate: now.AddDate(5, 0, 0),
				Type:       "debit",
				CreatedAt:  createdAt,
			}
			if err := store.CreateCard(ctx, card); err != nil {
				return err
			}

			numTxns := 10 + rand.Intn(21)
			for k := 0; k < numTxns; k++ {
				isCredit := rand.Float64() > 0.4
				amount := decimal.NewFromInt(500 + rand.Int63n(49501))
				txn := &domain.Transaction{
					ID:        uuid.NewString(),
					UserID:    user.ID,
					AccountID: account.ID,
					Date:      randomDate(now, 90),
				}
				if isCredit {
					txn.Type = domain.TransactionCredit
					txn.Amount = amount
					txn.Description = pick(creditDescriptions)
					txn.Category = domain.CategoryDeposit
				} else {
					txn.Type = domain.TransactionDebit
					txn.Amount = amount.Neg()
					txn.Description = pick(debitDescriptions)
					txn.Category = domain.CategoryWithdrawal
				}
				if err := store.AppendTransaction(ctx, txn); err != nil {
					return err
				}
			}
		}

		if i < 6 {
			principal := decimal.NewFromInt(50000 + rand.Int63n(150001))
			tenure := []int{6, 12, 24}[rand.Intn(3)]
			rate := decimal.NewFromFloat(6.5)
			fdCreatedAt := randomDate(now, 60)

			fd := &domain.FixedDeposit{
				ID:             uuid.NewString(),
				UserID:         user.ID,
				AccountID:      accounts[0].ID,
				Amount:         principal,
				InterestRate:   rate,
				TenureMonths:   tenure,
				MaturityAmount: calc.FDMaturityAmount(principal, rate, tenure),
				MaturityDate:   calc.MaturityDate(fdCreatedAt, tenure),
				CreatedAt:      fdCreatedAt,
				Status:         domain.FixedDepositActive,
			}
			if err := store.CreateFixedDeposit(ctx, fd); err != nil {
				return err
			}
		}

		notifications := []*domain.Notification{
			{
				ID:      uuid.NewString(),
				UserID:  user.ID,
				Title:   "Welcome to SecureBank",
				Message: "Your account has been created successfully.",
				Date:    createdAt,
				Read:    i%2 == 0,
				Type:    domain.NotificationInfo,
			},
			{
				ID:      uuid.NewString(),
				UserID:  user.ID,
				Title:   "Large Transaction Alert",
				Message: fmt.Sprintf("A transaction of %s was made from your account.", calc.FormatINR(decimal.NewFromInt(45000))),
				Date:    randomDate(now, 30),
				Read:    i%3 == 0,
				Type:    domain.NotificationWarning,
			},
		}
		for _, n := range notifications {
			if err := store.AppendNotification(ctx, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func pick(list []string) string {
	return list[rand.Intn(len(list))]
}

func randomDate(now time.Time, daysAgo int) time.Time {
	return now.AddDate(0, 0, -rand.Intn(daysAgo))
}
