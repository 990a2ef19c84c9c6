// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"math/big"

	"github.com/rockpool-labs/rockpool/rockpool"
)

// ID addresses a member's stake record within a pool.
type ID struct {
	Pool   rockpool.Bytes32
	Member rockpool.Address
}

func (id ID) Bytes() []byte {
	b := make([]byte, 0, 52)
	b = append(b, id.Pool.Bytes()...)
	return append(b, id.Member.Bytes()...)
}

// Record is a member's stake bookkeeping for one pool.
//
// CurrentStake is the amount effective during the epoch of the last
// settlement; NextStake is the amount effective from the following
// epoch onward. Stake changes always land on NextStake so the ratio
// ledger stays epoch-aligned. LastEpoch is the epoch at which the
// record was last synchronized.
type Record struct {
	CurrentStake *big.Int
	NextStake    *big.Int
	LastEpoch    uint32
}

func newRecord() *Record {
	return &Record{
		CurrentStake: new(big.Int),
		NextStake:    new(big.Int),
	}
}

// IsEmpty reports whether the record carries no stake and no history.
// An all-zero record and a never-created one are equivalent.
func (r *Record) IsEmpty() bool {
	return r.CurrentStake.Sign() == 0 && r.NextStake.Sign() == 0 && r.LastEpoch == 0
}

// Collapse makes NextStake the new baseline. Called whenever the record
// crosses an epoch boundary: the next-epoch amount has become the
// effective one.
func (r *Record) Collapse() {
	r.CurrentStake = new(big.Int).Set(r.NextStake)
}
