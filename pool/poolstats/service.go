// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poolstats

import (
	"math/big"

	"github.com/rockpool-labs/rockpool/rockpool"
	"github.com/rockpool-labs/rockpool/storage"
)

var (
	slotTotalStake    = rockpool.BytesToBytes32([]byte("total-stake"))
	slotTotalCredited = rockpool.BytesToBytes32([]byte("total-credited"))
	slotTotalSettled  = rockpool.BytesToBytes32([]byte("total-settled"))
)

// Service manages pool-wide totals: the delegated stake effective for
// the upcoming epoch, the rewards ever credited and the rewards ever
// settled. Totals are the only aggregate state the accounting needs,
// which is what keeps every operation O(1) in the member count.
type Service struct {
	context *storage.Context
}

func New(sctx *storage.Context) *Service {
	return &Service{context: sctx}
}

func (s *Service) cell(poolID rockpool.Bytes32, slot rockpool.Bytes32, name string) *storage.Uint256 {
	pos := rockpool.Blake2b(poolID.Bytes(), slot.Bytes())
	return storage.NewUint256At(s.context, pos, name)
}

func (s *Service) totalStake(poolID rockpool.Bytes32) *storage.Uint256 {
	return s.cell(poolID, slotTotalStake, "total-stake")
}

func (s *Service) totalCredited(poolID rockpool.Bytes32) *storage.Uint256 {
	return s.cell(poolID, slotTotalCredited, "total-credited")
}

func (s *Service) totalSettled(poolID rockpool.Bytes32) *storage.Uint256 {
	return s.cell(poolID, slotTotalSettled, "total-settled")
}

// TotalStake returns the pool's total delegated stake.
func (s *Service) TotalStake(poolID rockpool.Bytes32) (*big.Int, error) {
	return s.totalStake(poolID).Get()
}

func (s *Service) AddStake(poolID rockpool.Bytes32, amount *big.Int) error {
	return s.totalStake(poolID).Add(amount)
}

func (s *Service) SubStake(poolID rockpool.Bytes32, amount *big.Int) error {
	return s.totalStake(poolID).Sub(amount)
}

// TotalCredited returns the sum of all rewards ever credited to the pool.
func (s *Service) TotalCredited(poolID rockpool.Bytes32) (*big.Int, error) {
	return s.totalCredited(poolID).Get()
}

func (s *Service) AddCredited(poolID rockpool.Bytes32, amount *big.Int) error {
	return s.totalCredited(poolID).Add(amount)
}

// TotalSettled returns the sum of all rewards ever paid out to members.
func (s *Service) TotalSettled(poolID rockpool.Bytes32) (*big.Int, error) {
	return s.totalSettled(poolID).Get()
}

func (s *Service) AddSettled(poolID rockpool.Bytes32, amount *big.Int) error {
	return s.totalSettled(poolID).Add(amount)
}
