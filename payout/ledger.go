// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package payout

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/rockpool-labs/rockpool/rockpool"
	"github.com/rockpool-labs/rockpool/storage"
)

type account struct {
	Pool   rockpool.Bytes32
	Member rockpool.Address
}

func (a account) Bytes() []byte {
	b := make([]byte, 0, 52)
	b = append(b, a.Pool.Bytes()...)
	return append(b, a.Member.Bytes()...)
}

// Ledger is a Sink keeping settled balances in the same staged storage
// context as the accounting. A settlement's payout and bookkeeping
// therefore commit in one batch, or not at all.
type Ledger struct {
	balances  *storage.Mapping[account, *big.Int]
	totalPaid *storage.Uint256
}

var _ Sink = (*Ledger)(nil)

func NewLedger(sctx *storage.Context) *Ledger {
	return &Ledger{
		balances:  storage.NewMapping[account, *big.Int](sctx, "member-balances"),
		totalPaid: storage.NewUint256(sctx, "payout-total"),
	}
}

func (l *Ledger) TransferMemberBalance(poolID rockpool.Bytes32, member rockpool.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("payout amount cannot be negative")
	}

	key := account{Pool: poolID, Member: member}
	balance, err := l.balances.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get member balance")
	}
	if balance == nil {
		balance = new(big.Int)
	}

	if err := l.balances.Set(key, balance.Add(balance, amount)); err != nil {
		return errors.Wrap(err, "failed to set member balance")
	}
	return l.totalPaid.Add(amount)
}

// Balance returns the member's settled balance for a pool.
func (l *Ledger) Balance(poolID rockpool.Bytes32, member rockpool.Address) (*big.Int, error) {
	balance, err := l.balances.Get(account{Pool: poolID, Member: member})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get member balance")
	}
	if balance == nil {
		return new(big.Int), nil
	}
	return balance, nil
}

// TotalPaid returns the sum of all transfers across pools.
func (l *Ledger) TotalPaid() (*big.Int, error) {
	return l.totalPaid.Get()
}
