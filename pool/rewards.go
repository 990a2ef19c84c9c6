// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/rockpool-labs/rockpool/pool/delegation"
	"github.com/rockpool-labs/rockpool/pool/ratio"
	"github.com/rockpool-labs/rockpool/rockpool"
)

// computeUnsettledReward derives the member's accrued reward from the
// ratio ledger without touching any state.
//
// The span since the last settlement is covered in two legs, because a
// stake change only activates at the following epoch boundary:
//
//	current leg: LastEpoch-1 -> LastEpoch   over CurrentStake
//	next leg:    LastEpoch   -> currentEpoch-1 over NextStake
//
// Epochs with no snapshot resolve to the last frozen ratio before them
// (carry-forward), never to zero; a zero substitution would turn every
// gap into a spurious negative delta.
func (p *Pool) computeUnsettledReward(poolID rockpool.Bytes32, record *delegation.Record, currentEpoch uint32) (*big.Int, error) {
	reward := new(big.Int)
	if currentEpoch == 0 || record.LastEpoch == currentEpoch {
		return reward, nil
	}

	if record.CurrentStake.Sign() != 0 && record.LastEpoch >= 1 {
		leg, err := p.legReward(poolID, record.CurrentStake, record.LastEpoch-1, record.LastEpoch)
		if err != nil {
			return nil, err
		}
		reward.Add(reward, leg)
	}

	if record.NextStake.Sign() != 0 {
		leg, err := p.legReward(poolID, record.NextStake, record.LastEpoch, currentEpoch-1)
		if err != nil {
			return nil, err
		}
		reward.Add(reward, leg)
	}

	return reward, nil
}

// legReward computes stake * (ratio(end) - ratio(begin)) with
// cross-multiplied arithmetic and a single truncating division:
//
//	stake * (end.Num*begin.Den - begin.Num*end.Den) / (begin.Den * end.Den)
//
// Truncation toward zero means members are under-paid by at most a
// remainder per span, never over-paid.
func (p *Pool) legReward(poolID rockpool.Bytes32, stake *big.Int, beginEpoch, endEpoch uint32) (*big.Int, error) {
	if beginEpoch >= endEpoch {
		return new(big.Int), nil
	}

	begin, err := p.ratioService.LookupAt(poolID, beginEpoch)
	if err != nil {
		return nil, err
	}
	end, err := p.ratioService.LookupAt(poolID, endEpoch)
	if err != nil {
		return nil, err
	}

	deltaNum := ratio.DeltaNum(begin, end)
	if deltaNum.Sign() <= 0 {
		return new(big.Int), nil
	}

	reward := new(big.Int).Mul(stake, deltaNum)
	return reward.Div(reward, new(big.Int).Mul(begin.Den, end.Den)), nil
}

// settleRecord pays the record's unsettled reward to the sink and
// advances the record's baseline. When the record has crossed an epoch
// boundary since the last synchronization, NextStake becomes the
// effective amount even if no reward was due. A call with nothing to
// pay and nothing to collapse has no side effects.
func (p *Pool) settleRecord(poolID rockpool.Bytes32, member rockpool.Address, record *delegation.Record, currentEpoch uint32) (*big.Int, error) {
	reward, err := p.computeUnsettledReward(poolID, record, currentEpoch)
	if err != nil {
		return nil, err
	}

	if reward.Sign() > 0 {
		if err := p.sink.TransferMemberBalance(poolID, member, reward); err != nil {
			return nil, err
		}
		if err := p.statsService.AddSettled(poolID, reward); err != nil {
			return nil, err
		}
	}

	// empty records stay unpersisted: settling a member who never
	// delegated must not mint a stored record
	if record.LastEpoch < currentEpoch && !record.IsEmpty() {
		record.Collapse()
		record.LastEpoch = currentEpoch
		if err := p.delegationService.Set(poolID, member, record); err != nil {
			return nil, err
		}
	}

	return reward, nil
}
