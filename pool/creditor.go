// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/rockpool-labs/rockpool/rockpool"
)

// CreditReward closes out currentEpoch for the pool: the cumulative
// ratio advances by reward/totalStake and is frozen into the ledger.
//
// No snapshot is written when the pool holds no stake (there is no one
// to attribute the reward to, and a row would poison the carry-forward
// chain), when the reward is zero, or at epoch 0, where stake cannot be
// effective yet. The credited total grows regardless, so conservation
// stays checkable against the sum of payouts.
//
// Crediting the same epoch twice indicates an upstream sequencing bug
// and fails with DuplicateEpochWrite.
func (p *Pool) CreditReward(poolID rockpool.Bytes32, reward *big.Int, currentEpoch uint32) error {
	logger.Debug("crediting reward", "pool", poolID, "reward", reward, "epoch", currentEpoch)

	err := p.runTx(func() error {
		if reward.Sign() < 0 {
			return errors.New("reward cannot be negative")
		}

		if err := p.statsService.AddCredited(poolID, reward); err != nil {
			return err
		}

		if currentEpoch == 0 || reward.Sign() == 0 {
			return nil
		}

		totalStake, err := p.statsService.TotalStake(poolID)
		if err != nil {
			return err
		}
		if totalStake.Sign() == 0 {
			logger.Debug("no stake, skipping ratio snapshot", "pool", poolID, "epoch", currentEpoch)
			return nil
		}

		prior, err := p.ratioService.LookupAt(poolID, currentEpoch-1)
		if err != nil {
			return err
		}

		return p.ratioService.Record(poolID, currentEpoch, prior.Accrue(reward, totalStake))
	})
	if err != nil {
		logger.Info("credit reward failed", "pool", poolID, "epoch", currentEpoch, "error", err)
		return err
	}

	metricOpCount().AddWithLabel(1, map[string]string{"op": "credit"})
	logger.Info("credited reward", "pool", poolID, "reward", reward, "epoch", currentEpoch)
	return nil
}
