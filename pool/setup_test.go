// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockpool-labs/rockpool/lvldb"
	"github.com/rockpool-labs/rockpool/payout"
	"github.com/rockpool-labs/rockpool/rockpool"
	"github.com/rockpool-labs/rockpool/storage"
)

var testPoolID = rockpool.BytesToBytes32([]byte("test-pool"))

type PoolTest struct {
	*Pool
	t      *testing.T
	ledger *payout.Ledger
	sctx   *storage.Context
}

func newTest(t *testing.T) *PoolTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := storage.NewContext(db)
	ledger := payout.NewLedger(sctx)

	return &PoolTest{
		Pool:   New(sctx, ledger),
		t:      t,
		ledger: ledger,
		sctx:   sctx,
	}
}

func member(name string) rockpool.Address {
	return rockpool.BytesToAddress([]byte(name))
}

func (ts *PoolTest) MustDelegate(m rockpool.Address, amount int64, epoch uint32) *PoolTest {
	require.NoError(ts.t, ts.Delegate(testPoolID, m, big.NewInt(amount), epoch), "delegate %s", m)
	return ts
}

func (ts *PoolTest) MustUndelegate(m rockpool.Address, amount int64, epoch uint32) *PoolTest {
	require.NoError(ts.t, ts.Undelegate(testPoolID, m, big.NewInt(amount), epoch), "undelegate %s", m)
	return ts
}

func (ts *PoolTest) MustCredit(reward int64, epoch uint32) *PoolTest {
	require.NoError(ts.t, ts.CreditReward(testPoolID, big.NewInt(reward), epoch), "credit at epoch %d", epoch)
	return ts
}

func (ts *PoolTest) MustSettle(m rockpool.Address, epoch uint32, expectedPaid int64) *PoolTest {
	paid, err := ts.Settle(testPoolID, m, epoch)
	require.NoError(ts.t, err, "settle %s", m)
	assert.Equal(ts.t, big.NewInt(expectedPaid), paid, "paid amount mismatch for %s at epoch %d", m, epoch)
	return ts
}

func (ts *PoolTest) AssertTotalStake(expected int64) *PoolTest {
	total, err := ts.TotalStake(testPoolID)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, big.NewInt(expected), total, "total stake mismatch")
	return ts
}

func (ts *PoolTest) AssertBalance(m rockpool.Address, expected int64) *PoolTest {
	balance, err := ts.ledger.Balance(testPoolID, m)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, big.NewInt(expected), balance, "balance mismatch for %s", m)
	return ts
}

func (ts *PoolTest) AssertPending(m rockpool.Address, epoch uint32, expected int64) *PoolTest {
	pending, err := ts.PendingReward(testPoolID, m, epoch)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, big.NewInt(expected), pending, "pending reward mismatch for %s at epoch %d", m, epoch)
	return ts
}

// AssertConserved checks that payouts never exceed credited rewards and
// that the payout ledger agrees with the settled total.
func (ts *PoolTest) AssertConserved() *PoolTest {
	credited, err := ts.TotalCredited(testPoolID)
	require.NoError(ts.t, err)
	settled, err := ts.TotalSettled(testPoolID)
	require.NoError(ts.t, err)
	paid, err := ts.ledger.TotalPaid()
	require.NoError(ts.t, err)

	assert.True(ts.t, settled.Cmp(credited) <= 0, "settled %v exceeds credited %v", settled, credited)
	assert.Equal(ts.t, settled, paid, "ledger total diverged from settled total")
	return ts
}

// failingSink rejects every transfer, for settlement atomicity tests.
type failingSink struct{}

func (failingSink) TransferMemberBalance(rockpool.Bytes32, rockpool.Address, *big.Int) error {
	return errors.New("sink unavailable")
}
