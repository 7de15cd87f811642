package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securebank/corebank/internal/auth"
	"github.com/securebank/corebank/internal/cards"
	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/fixeddeposit"
	"github.com/securebank/corebank/internal/ledger"
	"github.com/securebank/corebank/internal/notify"
	"github.com/securebank/corebank/internal/onboarding"
	"github.com/securebank/corebank/internal/storage/memory"
)

type testBank struct {
	store     *memory.Store
	accounts  *AccountsHandler
	customers *CustomersHandler
	fds       *FixedDepositsHandler
	admin     *AdminHandler
}

func newTestBank(t *testing.T) *testBank {
	t.Helper()
	log := zerolog.Nop()
	store := memory.New()
	alerts := notify.New(store, log)
	engine := ledger.New(store, alerts, log)
	cardSvc := cards.New(store, log)
	onboardingSvc := onboarding.New(store, cardSvc, alerts, log)
	authSvc := auth.New(store, alerts, log)
	fdSvc := fixeddeposit.New(store, engine, alerts, log)

	return &testBank{
		store:     store,
		accounts:  NewAccountsHandler(store, engine, log),
		customers: NewCustomersHandler(onboardingSvc, authSvc, log),
		fds:       NewFixedDepositsHandler(fdSvc, log),
		admin:     NewAdminHandler(store, authSvc, fdSvc, log),
	}
}

func (b *testBank) register(t *testing.T) onboarding.OpenAccountResult {
	t.Helper()
	body := `{"name":"Anjali Desai","email":"anjali.desai@gmail.com","phone":"9876512345","accountType":"savings","initialDeposit":20000,"pin":"1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	b.customers.Register(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result onboarding.OpenAccountResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	return result
}

func TestRegisterAndLogin(t *testing.T) {
	bank := newTestBank(t)
	result := bank.register(t)

	assert.NotEmpty(t, result.User.AccountNumber)
	assert.NotNil(t, result.Card)

	body := `{"accountNumber":"` + result.User.AccountNumber + `","pin":"1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	bank.customers.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var user domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, result.User.ID, user.ID)
}

func TestLoginWrongPIN(t *testing.T) {
	bank := newTestBank(t)
	result := bank.register(t)

	body := `{"accountNumber":"` + result.User.AccountNumber + `","pin":"0000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	bank.customers.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidationError(t *testing.T) {
	bank := newTestBank(t)

	body := `{"name":"","email":"bad","phone":"123","accountType":"savings","initialDeposit":100,"pin":"12"}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	bank.customers.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp, "error")
}

func TestDepositAndWithdraw(t *testing.T) {
	bank := newTestBank(t)
	result := bank.register(t)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts/"+result.Account.ID+"/deposit",
		strings.NewReader(`{"amount":5000,"description":"Salary Credited"}`))
	rec := httptest.NewRecorder()
	bank.accounts.Deposit(rec, req, result.Account.ID)
	require.Equal(t, http.StatusCreated, rec.Code)

	var txn domain.Transaction
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&txn))
	assert.Equal(t, domain.TransactionCredit, txn.Type)

	req = httptest.NewRequest(http.MethodPost, "/api/accounts/"+result.Account.ID+"/withdraw",
		strings.NewReader(`{"amount":30000}`))
	rec = httptest.NewRecorder()
	bank.accounts.Withdraw(rec, req, result.Account.ID)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTransferBetweenAccounts(t *testing.T) {
	bank := newTestBank(t)
	result := bank.register(t)

	// Open a second account through the handler.
	req := httptest.NewRequest(http.MethodPost, "/api/accounts",
		strings.NewReader(`{"userId":"`+result.User.ID+`","type":"current"}`))
	rec := httptest.NewRecorder()
	bank.accounts.OpenAccount(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var second domain.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&second))
	assert.True(t, second.Balance.IsZero())

	req = httptest.NewRequest(http.MethodPost, "/api/transfers",
		strings.NewReader(`{"fromAccountId":"`+result.Account.ID+`","toAccountId":"`+second.ID+`","amount":7500}`))
	rec = httptest.NewRecorder()
	bank.accounts.Transfer(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var record ledger.TransferRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&record))
	assert.Equal(t, domain.TransactionDebit, record.Debit.Type)
	assert.Equal(t, domain.TransactionCredit, record.Credit.Type)

	req = httptest.NewRequest(http.MethodGet, "/api/accounts?user_id="+result.User.ID, nil)
	rec = httptest.NewRecorder()
	bank.accounts.ListAccounts(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Accounts []*domain.Account `json:"accounts"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listResp))
	assert.Equal(t, 2, listResp.Count)
}

func TestListTransactionsRequiresFilter(t *testing.T) {
	bank := newTestBank(t)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()
	bank.accounts.ListTransactions(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFixedDeposit(t *testing.T) {
	bank := newTestBank(t)
	result := bank.register(t)

	body := `{"userId":"` + result.User.ID + `","accountId":"` + result.Account.ID + `","principal":10000,"tenureMonths":12}`
	req := httptest.NewRequest(http.MethodPost, "/api/fixed-deposits", strings.NewReader(body))
	rec := httptest.NewRecorder()
	bank.fds.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var fd domain.FixedDeposit
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fd))
	assert.Equal(t, domain.FixedDepositActive, fd.Status)
	assert.Equal(t, 12, fd.TenureMonths)
}

func TestAdminLoginAndStats(t *testing.T) {
	bank := newTestBank(t)
	bank.register(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"admin123"}`))
	rec := httptest.NewRecorder()
	bank.admin.Login(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"nope"}`))
	rec = httptest.NewRecorder()
	bank.admin.Login(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	rec = httptest.NewRecorder()
	bank.admin.Stats(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalUsers    int `json:"totalUsers"`
		TotalAccounts int `json:"totalAccounts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalAccounts)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	bank := newTestBank(t)
	result := bank.register(t)

	req := httptest.NewRequest(http.MethodPut, "/api/customers/"+result.User.ID,
		strings.NewReader(`{"name":"Anjali Mehta","email":"anjali.mehta@gmail.com","phone":"9876512346"}`))
	rec := httptest.NewRecorder()
	bank.customers.UpdateProfile(rec, req, result.User.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "Anjali Mehta", user.Name)
	assert.Equal(t, "anjali.mehta@gmail.com", user.Email)
	assert.Equal(t, result.User.AccountNumber, user.AccountNumber)

	req = httptest.NewRequest(http.MethodPut, "/api/customers/"+result.User.ID,
		strings.NewReader(`{"name":"Anjali Mehta","email":"not-an-email","phone":"9876512346"}`))
	rec = httptest.NewRecorder()
	bank.customers.UpdateProfile(rec, req, result.User.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminListTransactions(t *testing.T) {
	bank := newTestBank(t)
	result := bank.register(t)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts/"+result.Account.ID+"/deposit",
		strings.NewReader(`{"amount":5000}`))
	rec := httptest.NewRecorder()
	bank.accounts.Deposit(rec, req, result.Account.ID)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/transactions", nil)
	rec = httptest.NewRecorder()
	bank.admin.ListTransactions(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Transactions []*domain.Transaction `json:"transactions"`
		Count        int                   `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, result.Account.ID, resp.Transactions[0].AccountID)
}

func TestAdminLockUser(t *testing.T) {
	bank := newTestBank(t)
	result := bank.register(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/"+result.User.ID+"/lock",
		strings.NewReader(`{"locked":true}`))
	rec := httptest.NewRecorder()
	bank.admin.SetUserLock(rec, req, result.User.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.True(t, user.Locked)

	// The locked user cannot log in, even with the right PIN.
	req = httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"accountNumber":"`+result.User.AccountNumber+`","pin":"1234"}`))
	rec = httptest.NewRecorder()
	bank.customers.Login(rec, req)
	assert.Equal(t, http.StatusLocked, rec.Code)
}
