// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/rockpool-labs/rockpool/log"
	"github.com/rockpool-labs/rockpool/metrics"
	"github.com/rockpool-labs/rockpool/payout"
	"github.com/rockpool-labs/rockpool/pool/delegation"
	"github.com/rockpool-labs/rockpool/pool/poolstats"
	"github.com/rockpool-labs/rockpool/pool/ratio"
	"github.com/rockpool-labs/rockpool/pool/reverts"
	"github.com/rockpool-labs/rockpool/rockpool"
	"github.com/rockpool-labs/rockpool/storage"
)

var (
	logger = log.WithContext("pkg", "pool")

	metricOpCount = metrics.LazyLoadCounterVec("pool_operation_count", []string{"op"})
)

func SetLogger(l log.Logger) {
	logger = l
}

// Pool implements the reward accounting for pooled staking. Stake and
// reward bookkeeping is aggregate-only: every operation is O(1) in the
// number of members, with per-member rewards derived lazily from the
// epoch-indexed ratio ledger.
//
// The current epoch is an explicit parameter on every operation; the
// pool never advances it. Operations mutate state through a staged
// storage context and commit on success only, so a failed call leaves
// nothing behind. Callers must serialize mutating operations per pool.
type Pool struct {
	context *storage.Context
	sink    payout.Sink

	ratioService      *ratio.Service
	delegationService *delegation.Service
	statsService      *poolstats.Service
}

// New creates a pool accountant on top of the staged storage context.
// Settled rewards are handed to sink; a sink sharing the same context
// commits atomically with the bookkeeping.
func New(sctx *storage.Context, sink payout.Sink) *Pool {
	return &Pool{
		context: sctx,
		sink:    sink,

		ratioService:      ratio.New(sctx),
		delegationService: delegation.New(sctx),
		statsService:      poolstats.New(sctx),
	}
}

//
// Getters - no state change
//

// TotalStake returns the pool's total delegated stake.
func (p *Pool) TotalStake(poolID rockpool.Bytes32) (*big.Int, error) {
	return p.statsService.TotalStake(poolID)
}

// TotalCredited returns the sum of all rewards ever credited to the pool.
func (p *Pool) TotalCredited(poolID rockpool.Bytes32) (*big.Int, error) {
	return p.statsService.TotalCredited(poolID)
}

// TotalSettled returns the sum of all rewards ever paid out to members.
func (p *Pool) TotalSettled(poolID rockpool.Bytes32) (*big.Int, error) {
	return p.statsService.TotalSettled(poolID)
}

// GetMemberRecord returns a member's stake record, zero-valued if the
// member never delegated.
func (p *Pool) GetMemberRecord(poolID rockpool.Bytes32, member rockpool.Address) (*delegation.Record, error) {
	return p.delegationService.Get(poolID, member)
}

// GetRatio returns the ratio snapshot frozen at exactly epoch, with a
// flag distinguishing an unset epoch from a stored zero.
func (p *Pool) GetRatio(poolID rockpool.Bytes32, epoch uint32) (*ratio.Ratio, bool, error) {
	return p.ratioService.Get(poolID, epoch)
}

// PendingReward computes a member's accrued-but-unsettled reward
// without settling it.
func (p *Pool) PendingReward(poolID rockpool.Bytes32, member rockpool.Address, currentEpoch uint32) (*big.Int, error) {
	record, err := p.delegationService.Get(poolID, member)
	if err != nil {
		return nil, err
	}
	return p.computeUnsettledReward(poolID, record, currentEpoch)
}

//
// Setters - state change
//

// Delegate adds stake for a member. The member's accrued reward is
// settled first so the new amount never blends into an open reward
// window; the stake itself activates at the start of the next epoch.
// A zero amount is a no-op that still forces settlement.
func (p *Pool) Delegate(poolID rockpool.Bytes32, member rockpool.Address, amount *big.Int, currentEpoch uint32) error {
	logger.Debug("delegating", "pool", poolID, "member", member, "amount", amount, "epoch", currentEpoch)

	err := p.runTx(func() error {
		if amount.Sign() < 0 {
			return errors.New("delegate amount cannot be negative")
		}

		record, err := p.settleMember(poolID, member, currentEpoch)
		if err != nil {
			return err
		}

		record.NextStake.Add(record.NextStake, amount)
		record.LastEpoch = currentEpoch
		if err := p.delegationService.Set(poolID, member, record); err != nil {
			return err
		}

		return p.statsService.AddStake(poolID, amount)
	})
	if err != nil {
		logger.Info("delegate failed", "pool", poolID, "member", member, "error", err)
		return err
	}

	metricOpCount().AddWithLabel(1, map[string]string{"op": "delegate"})
	logger.Info("delegated", "pool", poolID, "member", member, "amount", amount)
	return nil
}

// Undelegate removes stake for a member, settling first. It fails with
// InsufficientStake when amount exceeds the member's effective stake,
// in which case no state is mutated, the settlement included.
func (p *Pool) Undelegate(poolID rockpool.Bytes32, member rockpool.Address, amount *big.Int, currentEpoch uint32) error {
	logger.Debug("undelegating", "pool", poolID, "member", member, "amount", amount, "epoch", currentEpoch)

	err := p.runTx(func() error {
		if amount.Sign() < 0 {
			return errors.New("undelegate amount cannot be negative")
		}

		record, err := p.settleMember(poolID, member, currentEpoch)
		if err != nil {
			return err
		}

		if record.NextStake.Cmp(amount) < 0 {
			return errors.Wrapf(reverts.InsufficientStake, "have %v, want %v", record.NextStake, amount)
		}

		record.NextStake.Sub(record.NextStake, amount)
		record.LastEpoch = currentEpoch
		if err := p.delegationService.Set(poolID, member, record); err != nil {
			return err
		}

		return p.statsService.SubStake(poolID, amount)
	})
	if err != nil {
		logger.Info("undelegate failed", "pool", poolID, "member", member, "error", err)
		return err
	}

	metricOpCount().AddWithLabel(1, map[string]string{"op": "undelegate"})
	logger.Info("undelegated", "pool", poolID, "member", member, "amount", amount)
	return nil
}

// Settle pays out the member's accrued reward and resets their baseline
// so it cannot be paid twice. Returns the amount paid, which is zero
// when nothing is unsettled.
func (p *Pool) Settle(poolID rockpool.Bytes32, member rockpool.Address, currentEpoch uint32) (*big.Int, error) {
	logger.Debug("settling", "pool", poolID, "member", member, "epoch", currentEpoch)

	var paid *big.Int
	err := p.runTx(func() error {
		record, err := p.delegationService.Get(poolID, member)
		if err != nil {
			return err
		}
		paid, err = p.settleRecord(poolID, member, record, currentEpoch)
		return err
	})
	if err != nil {
		logger.Info("settle failed", "pool", poolID, "member", member, "error", err)
		return nil, err
	}

	metricOpCount().AddWithLabel(1, map[string]string{"op": "settle"})
	if paid.Sign() > 0 {
		logger.Info("settled", "pool", poolID, "member", member, "paid", paid)
	}
	return paid, nil
}

// settleMember settles a member in the current stage and returns their
// record synchronized to currentEpoch, ready for a stake mutation.
func (p *Pool) settleMember(poolID rockpool.Bytes32, member rockpool.Address, currentEpoch uint32) (*delegation.Record, error) {
	record, err := p.delegationService.Get(poolID, member)
	if err != nil {
		return nil, err
	}
	if _, err := p.settleRecord(poolID, member, record, currentEpoch); err != nil {
		return nil, err
	}
	return record, nil
}

// runTx executes fn against the staged context and commits its writes
// in one batch. Any error discards the stage untouched.
func (p *Pool) runTx(fn func() error) error {
	if err := fn(); err != nil {
		p.context.Revert()
		return err
	}
	if err := p.context.Commit(); err != nil {
		p.context.Revert()
		return err
	}
	return nil
}
