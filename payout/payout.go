// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package payout

import (
	"math/big"

	"github.com/rockpool-labs/rockpool/rockpool"
)

// Sink receives settled member rewards. Implementations must be
// all-or-nothing from the caller's perspective and must not call back
// into the accounting core.
type Sink interface {
	TransferMemberBalance(poolID rockpool.Bytes32, member rockpool.Address, amount *big.Int) error
}
