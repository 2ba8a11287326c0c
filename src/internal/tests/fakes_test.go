package services_test

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/shopspring/decimal"
)

// memStore is a shared in-memory backing store for the repository fakes. The
// ledger fake applies the same all-or-nothing posting contract the real
// implementation has: on rejection no balance moves and no transaction is
// recorded.
type memStore struct {
	mu            sync.Mutex
	base          time.Time
	nextClientID  int64
	nextAccountID int64
	nextTxnID     int64
	clients       map[int64]domain.Client
	accounts      map[int64]domain.Account
	transactions  []domain.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		base:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		clients:  make(map[int64]domain.Client),
		accounts: make(map[int64]domain.Account),
	}
}

func (s *memStore) clientRepo() *fakeClientRepo           { return &fakeClientRepo{store: s} }
func (s *memStore) accountRepo() *fakeAccountRepo         { return &fakeAccountRepo{store: s} }
func (s *memStore) ledgerRepo() *fakeLedgerRepo           { return &fakeLedgerRepo{store: s} }
func (s *memStore) transactionRepo() *fakeTransactionRepo { return &fakeTransactionRepo{store: s} }

func (s *memStore) seedClient(email, phone string) domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextClientID++
	client := domain.Client{
		ID:          s.nextClientID,
		FirstName:   "Awa",
		LastName:    "Diallo",
		BirthDate:   time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC),
		Gender:      "F",
		Address:     "12 Rue des Banques, Lome",
		Phone:       phone,
		Email:       email,
		Nationality: "Togolese",
		CreatedAt:   s.base,
	}
	s.clients[client.ID] = client
	return client
}

func (s *memStore) seedAccount(clientID int64, accountType domain.AccountType, balance string) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccountID++
	account := domain.Account{
		ID:            s.nextAccountID,
		AccountNumber: "CPT-SEED" + strconv.FormatInt(s.nextAccountID, 10),
		Type:          accountType,
		Balance:       decimal.RequireFromString(balance),
		ClientID:      clientID,
		WithdrawalCap: domain.DefaultWithdrawalCap,
		CreatedAt:     s.base,
	}
	switch accountType {
	case domain.AccountTypeChecking:
		account.OverdraftLimit = domain.DefaultOverdraftLimit
		account.MaintenanceFee = domain.DefaultMaintenanceFee
	case domain.AccountTypeSavings:
		account.InterestRate = domain.DefaultInterestRate
	}
	s.accounts[account.ID] = account
	return account
}

func (s *memStore) balanceOf(accountID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[accountID].Balance
}

type fakeClientRepo struct {
	store *memStore
}

func (r *fakeClientRepo) Create(_ context.Context, client domain.Client) (domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.clients {
		if existing.Email == client.Email || existing.Phone == client.Phone {
			return domain.Client{}, domain.ErrDuplicateResource
		}
	}

	s.nextClientID++
	client.ID = s.nextClientID
	client.CreatedAt = s.base
	s.clients[client.ID] = client
	return client, nil
}

func (r *fakeClientRepo) Update(_ context.Context, client domain.Client) (domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.clients[client.ID]
	if !ok {
		return domain.Client{}, commons.ErrRecordNotFound
	}
	for id, existing := range s.clients {
		if id == client.ID {
			continue
		}
		if existing.Email == client.Email || existing.Phone == client.Phone {
			return domain.Client{}, domain.ErrDuplicateResource
		}
	}

	client.CreatedAt = current.CreatedAt
	s.clients[client.ID] = client
	return client, nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return commons.ErrRecordNotFound
	}
	for _, account := range s.accounts {
		if account.ClientID == id {
			return domain.ErrBusinessRuleViolation
		}
	}
	delete(s.clients, id)
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id int64) (domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	if !ok {
		return domain.Client{}, commons.ErrRecordNotFound
	}
	return client, nil
}

func (r *fakeClientRepo) GetByEmail(_ context.Context, email string) (domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, client := range s.clients {
		if client.Email == email {
			return client, nil
		}
	}
	return domain.Client{}, commons.ErrRecordNotFound
}

func (r *fakeClientRepo) GetByPhone(_ context.Context, phone string) (domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, client := range s.clients {
		if client.Phone == phone {
			return client, nil
		}
	}
	return domain.Client{}, commons.ErrRecordNotFound
}

func (r *fakeClientRepo) List(_ context.Context) ([]domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := make([]domain.Client, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients, nil
}

func (r *fakeClientRepo) ListByNationality(_ context.Context, nationality string) ([]domain.Client, error) {
	all, _ := r.List(context.Background())
	matched := make([]domain.Client, 0)
	for _, client := range all {
		if client.Nationality == nationality {
			matched = append(matched, client)
		}
	}
	return matched, nil
}

func (r *fakeClientRepo) SearchByName(_ context.Context, term string) ([]domain.Client, error) {
	all, _ := r.List(context.Background())
	needle := strings.ToLower(term)
	matched := make([]domain.Client, 0)
	for _, client := range all {
		if strings.Contains(strings.ToLower(client.FirstName), needle) ||
			strings.Contains(strings.ToLower(client.LastName), needle) {
			matched = append(matched, client)
		}
	}
	return matched, nil
}

func (r *fakeClientRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.clients[id]
	return ok, nil
}

func (r *fakeClientRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeClientRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeClientRepo) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.clients)), nil
}

type fakeAccountRepo struct {
	store *memStore
}

func (r *fakeAccountRepo) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.Account{}, domain.ErrDuplicateResource
		}
	}

	s.nextAccountID++
	account.ID = s.nextAccountID
	account.CreatedAt = s.base
	s.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return commons.ErrRecordNotFound
	}
	if !account.Balance.IsZero() {
		return domain.ErrBusinessRuleViolation
	}
	delete(s.accounts, id)
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id int64) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) GetByNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.AccountNumber == accountNumber {
			return account, nil
		}
	}
	return domain.Account{}, commons.ErrRecordNotFound
}

func (r *fakeAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *fakeAccountRepo) ListByClient(_ context.Context, clientID int64) ([]domain.Account, error) {
	all, _ := r.List(context.Background())
	matched := make([]domain.Account, 0)
	for _, account := range all {
		if account.ClientID == clientID {
			matched = append(matched, account)
		}
	}
	return matched, nil
}

func (r *fakeAccountRepo) ListByType(_ context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	all, _ := r.List(context.Background())
	matched := make([]domain.Account, 0)
	for _, account := range all {
		if account.Type == accountType {
			matched = append(matched, account)
		}
	}
	return matched, nil
}

func (r *fakeAccountRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.accounts[id]
	return ok, nil
}

func (r *fakeAccountRepo) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	_, err := r.GetByNumber(ctx, accountNumber)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeAccountRepo) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	accounts, _ := r.ListByClient(ctx, clientID)
	return int64(len(accounts)), nil
}

func (r *fakeAccountRepo) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.accounts)), nil
}

type fakeLedgerRepo struct {
	store *memStore
}

func (r *fakeLedgerRepo) PostDeposit(_ context.Context, txn domain.Transaction) (domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReference(txn.Reference); err != nil {
		return domain.Transaction{}, err
	}

	account, ok := s.accounts[*txn.DestinationAccountID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}
	if err := account.Credit(txn.Amount); err != nil {
		return domain.Transaction{}, err
	}

	s.accounts[account.ID] = account
	return s.record(txn), nil
}

func (r *fakeLedgerRepo) PostWithdrawal(_ context.Context, txn domain.Transaction) (domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReference(txn.Reference); err != nil {
		return domain.Transaction{}, err
	}

	account, ok := s.accounts[*txn.SourceAccountID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}
	if err := account.Debit(txn.Amount); err != nil {
		return domain.Transaction{}, err
	}

	s.accounts[account.ID] = account
	return s.record(txn), nil
}

func (r *fakeLedgerRepo) PostTransfer(_ context.Context, txn domain.Transaction) (domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReference(txn.Reference); err != nil {
		return domain.Transaction{}, err
	}

	source, ok := s.accounts[*txn.SourceAccountID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}
	destination, ok := s.accounts[*txn.DestinationAccountID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}

	if err := source.Debit(txn.Amount); err != nil {
		return domain.Transaction{}, err
	}
	if err := destination.Credit(txn.Amount); err != nil {
		return domain.Transaction{}, err
	}

	s.accounts[source.ID] = source
	s.accounts[destination.ID] = destination
	return s.record(txn), nil
}

func (s *memStore) checkReference(reference string) error {
	for _, existing := range s.transactions {
		if existing.Reference == reference {
			return domain.ErrDuplicateResource
		}
	}
	return nil
}

// record assigns the id and a deterministic, strictly increasing timestamp so
// ordering and period assertions stay stable. Caller holds the lock.
func (s *memStore) record(txn domain.Transaction) domain.Transaction {
	s.nextTxnID++
	txn.ID = s.nextTxnID
	txn.Timestamp = s.base.Add(time.Duration(s.nextTxnID) * time.Second)
	s.transactions = append(s.transactions, txn)
	return txn
}

type fakeTransactionRepo struct {
	store *memStore
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id int64) (domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, txn := range s.transactions {
		if txn.ID == id {
			return txn, nil
		}
	}
	return domain.Transaction{}, commons.ErrRecordNotFound
}

func (r *fakeTransactionRepo) GetByReference(_ context.Context, reference string) (domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, txn := range s.transactions {
		if txn.Reference == reference {
			return txn, nil
		}
	}
	return domain.Transaction{}, commons.ErrRecordNotFound
}

func (r *fakeTransactionRepo) List(_ context.Context) ([]domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return newestFirst(s.transactions, func(domain.Transaction) bool { return true }), nil
}

func (r *fakeTransactionRepo) ListByAccount(_ context.Context, accountID int64) ([]domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return newestFirst(s.transactions, func(txn domain.Transaction) bool {
		return touchesAccount(txn, accountID)
	}), nil
}

func (r *fakeTransactionRepo) ListByPeriod(_ context.Context, start, end time.Time) ([]domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return newestFirst(s.transactions, func(txn domain.Transaction) bool {
		return !txn.Timestamp.Before(start) && !txn.Timestamp.After(end)
	}), nil
}

func (r *fakeTransactionRepo) CountByAccount(_ context.Context, accountID int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, txn := range s.transactions {
		if touchesAccount(txn, accountID) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTransactionRepo) SumByAccountAndType(_ context.Context, accountID int64, txType domain.TransactionType) (decimal.Decimal, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, txn := range s.transactions {
		if txn.Type == txType && touchesAccount(txn, accountID) {
			total = total.Add(txn.Amount)
		}
	}
	return total, nil
}

func touchesAccount(txn domain.Transaction, accountID int64) bool {
	if txn.SourceAccountID != nil && *txn.SourceAccountID == accountID {
		return true
	}
	if txn.DestinationAccountID != nil && *txn.DestinationAccountID == accountID {
		return true
	}
	return false
}

func newestFirst(transactions []domain.Transaction, keep func(domain.Transaction) bool) []domain.Transaction {
	matched := make([]domain.Transaction, 0, len(transactions))
	for i := len(transactions) - 1; i >= 0; i-- {
		if keep(transactions[i]) {
			matched = append(matched, transactions[i])
		}
	}
	return matched
}
