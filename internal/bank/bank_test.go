package bank

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bankcore/internal/directory"
	"bankcore/internal/ledger"
	"bankcore/internal/models"
	"bankcore/internal/money"
	"bankcore/internal/storage/memory"
)

var (
	alice = models.Account{ID: "1", AccountNumber: "1234567890", Username: "testuser"}
	john  = models.Account{ID: "2", AccountNumber: "0987654321", Username: "johndoe"}
)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *capturingPublisher) Publish(topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func newTestBank(t *testing.T) (*Bank, *capturingPublisher) {
	t.Helper()
	dir, err := directory.New([]models.Account{alice, john})
	require.NoError(t, err)
	publisher := &capturingPublisher{}
	return New(ledger.New(memory.NewStore()), dir, publisher, zap.NewNop()), publisher
}

func TestDeposit(t *testing.T) {
	b, publisher := newTestBank(t)
	ctx := context.Background()

	result, err := b.Deposit(ctx, alice, 25050, "Paycheck")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "Deposit successful", result.Message)
	assert.Equal(t, money.Amount(125050), result.Balance)

	txs, err := b.Transactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.KindDeposit, txs[0].Kind)
	assert.Equal(t, money.Amount(25050), txs[0].Amount)
	assert.Equal(t, "Paycheck", txs[0].Description)
	assert.Equal(t, money.Amount(125050), txs[0].ResultingBalance)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, EventTopic, publisher.topics[0])
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	b, publisher := newTestBank(t)

	result, err := b.Deposit(context.Background(), alice, 0, "x")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "Amount must be greater than 0", result.Message)
	assert.Empty(t, publisher.events)
}

func TestWithdrawInsufficientFundsLeavesStateUntouched(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	_, err := b.Deposit(ctx, alice, 25050, "Paycheck")
	require.NoError(t, err)

	result, err := b.Withdraw(ctx, alice, 200000, "Rent")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "Insufficient balance", result.Message)

	balance, err := b.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(125050), balance)

	txs, err := b.Transactions(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestTransfer(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	_, err := b.Deposit(ctx, alice, 25050, "Paycheck")
	require.NoError(t, err)

	result, err := b.Transfer(ctx, alice, 10000, john.AccountNumber, "Gift")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "Transfer successful", result.Message)
	assert.Equal(t, money.Amount(115050), result.Balance)

	txs, err := b.Transactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, models.KindTransfer, txs[0].Kind)
	assert.Equal(t, john.AccountNumber, txs[0].ToAccount)
	assert.Equal(t, alice.AccountNumber, txs[0].FromAccount)
	assert.Equal(t, money.Amount(115050), txs[0].ResultingBalance)

	// Transfers are one-sided: the recipient's own ledger is not credited.
	johnBalance, err := b.Balance(ctx, john)
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultStartingBalance, johnBalance)
	johnTxs, err := b.Transactions(ctx, john)
	require.NoError(t, err)
	assert.Empty(t, johnTxs)
}

func TestTransferToSelfRejected(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	result, err := b.Transfer(ctx, alice, 5000, alice.AccountNumber, "x")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "Cannot transfer to your own account", result.Message)

	balance, err := b.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultStartingBalance, balance)
}

func TestTransferToUnknownAccountRejected(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	result, err := b.Transfer(ctx, alice, 5000, "1111111111", "x")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "Recipient account not found", result.Message)

	balance, err := b.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultStartingBalance, balance)
	txs, err := b.Transactions(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransactionsOrderedMostRecentFirstAndIdempotent(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	_, err := b.Deposit(ctx, alice, 100, "first")
	require.NoError(t, err)
	_, err = b.Deposit(ctx, alice, 200, "second")
	require.NoError(t, err)
	_, err = b.Withdraw(ctx, alice, 300, "third")
	require.NoError(t, err)

	txs, err := b.Transactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "third", txs[0].Description)
	assert.Equal(t, "second", txs[1].Description)
	assert.Equal(t, "first", txs[2].Description)

	again, err := b.Transactions(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, txs, again)
}

func TestBalanceEqualsStartPlusCreditsMinusDebits(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	ops := []struct {
		run    func() (Result, error)
		credit money.Amount
		debit  money.Amount
	}{
		{run: func() (Result, error) { return b.Deposit(ctx, alice, 49999, "") }, credit: 49999},
		{run: func() (Result, error) { return b.Withdraw(ctx, alice, 120000, "") }, debit: 120000},
		{run: func() (Result, error) { return b.Transfer(ctx, alice, 1, john.AccountNumber, "") }, debit: 1},
		{run: func() (Result, error) { return b.Withdraw(ctx, alice, 99999999, "") }, debit: 99999999}, // rejected
		{run: func() (Result, error) { return b.Deposit(ctx, alice, 2, "") }, credit: 2},
	}

	expected := ledger.DefaultStartingBalance
	for _, op := range ops {
		result, err := op.run()
		require.NoError(t, err)
		if result.OK {
			expected += op.credit
			expected -= op.debit
		}
	}

	balance, err := b.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, expected, balance)
	assert.GreaterOrEqual(t, int64(balance), int64(0))
}

func TestConcurrentWithdrawals(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	// Balance 1000.00, two racing 700.00 withdrawals: exactly one succeeds
	// and the loser fails against the post-mutation balance.
	var wg sync.WaitGroup
	results := make([]Result, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			results[i], err = b.Withdraw(ctx, alice, 70000, "race")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, r := range results {
		if r.OK {
			succeeded++
		} else {
			assert.Equal(t, "Insufficient balance", r.Message)
		}
	}
	assert.Equal(t, 1, succeeded)

	balance, err := b.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(30000), balance)
}

func TestBalanceSignalDeliversLatestToLateSubscriber(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	_, err := b.Deposit(ctx, alice, 100, "")
	require.NoError(t, err)

	ch, cancel := b.WatchBalances()
	defer cancel()

	update := <-ch
	assert.Equal(t, alice.ID, update.AccountID)
	assert.Equal(t, money.Amount(100100), update.Balance)
}
