// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

// Amounts travel as decimal strings so arbitrary precision survives
// JSON round-trips.

type PoolSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OperatorFeeBps uint32 `json:"operatorFeeBps"`
}

type Stats struct {
	Name          string `json:"name"`
	TotalStake    string `json:"totalStake"`
	TotalCredited string `json:"totalCredited"`
	TotalSettled  string `json:"totalSettled"`
}

type MemberRecord struct {
	CurrentStake string `json:"currentStake"`
	NextStake    string `json:"nextStake"`
	LastEpoch    uint32 `json:"lastEpoch"`
}

type PendingReward struct {
	Epoch   uint32 `json:"epoch"`
	Pending string `json:"pending"`
}

type Balance struct {
	Balance string `json:"balance"`
}

type RatioSnapshot struct {
	Epoch uint32 `json:"epoch"`
	Set   bool   `json:"set"`
	Num   string `json:"num,omitempty"`
	Den   string `json:"den,omitempty"`
}

type StakeRequest struct {
	Member string `json:"member"`
	Amount string `json:"amount"`
	Epoch  uint32 `json:"epoch"`
}

type CreditRequest struct {
	Reward string `json:"reward"`
	Epoch  uint32 `json:"epoch"`
}

type CreditResult struct {
	MemberShare   string `json:"memberShare"`
	OperatorShare string `json:"operatorShare"`
}

type SettleRequest struct {
	Member string `json:"member"`
	Epoch  uint32 `json:"epoch"`
}

type SettleResult struct {
	Paid string `json:"paid"`
}
