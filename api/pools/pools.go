// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rockpool-labs/rockpool/api/restutil"
	"github.com/rockpool-labs/rockpool/payout"
	"github.com/rockpool-labs/rockpool/pool"
	"github.com/rockpool-labs/rockpool/pool/reverts"
	"github.com/rockpool-labs/rockpool/registry"
	"github.com/rockpool-labs/rockpool/rockpool"
)

// Pools exposes the accounting core over REST. Every handler takes a
// mutex: the core requires strictly ordered operations per pool, and
// readers must never observe the staged writes of an operation still
// in flight. This is where that serialization lives.
type Pools struct {
	pool     *pool.Pool
	ledger   *payout.Ledger
	registry *registry.Registry

	mu sync.Mutex
}

func New(p *pool.Pool, ledger *payout.Ledger, reg *registry.Registry) *Pools {
	return &Pools{
		pool:     p,
		ledger:   ledger,
		registry: reg,
	}
}

func (p *Pools) parsePool(r *http.Request) (*registry.Pool, error) {
	id, err := rockpool.ParseBytes32(mux.Vars(r)["id"])
	if err != nil {
		return nil, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	entry, ok := p.registry.Lookup(id)
	if !ok {
		return nil, restutil.NotFound(errors.New("pool not registered"))
	}
	return entry, nil
}

func parseMember(r *http.Request) (rockpool.Address, error) {
	member, err := rockpool.ParseAddress(mux.Vars(r)["member"])
	if err != nil {
		return rockpool.Address{}, restutil.BadRequest(errors.WithMessage(err, "member"))
	}
	return member, nil
}

func parseAmount(name, s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, restutil.BadRequest(errors.Errorf("%s: expected a non-negative decimal string", name))
	}
	return amount, nil
}

// revertStatus maps core errors onto HTTP statuses. A duplicate epoch
// write is a sequencing conflict, every other revert is a bad request.
func revertStatus(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, reverts.DuplicateEpochWrite) {
		return restutil.HTTPError(err, http.StatusConflict)
	}
	if reverts.IsRevertErr(err) {
		return restutil.BadRequest(err)
	}
	return err
}

func (p *Pools) handleList(w http.ResponseWriter, _ *http.Request) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	all := p.registry.All()
	out := make([]PoolSummary, 0, len(all))
	for _, entry := range all {
		out = append(out, PoolSummary{
			ID:             entry.ID.String(),
			Name:           entry.Name,
			OperatorFeeBps: entry.OperatorFeeBps,
		})
	}
	return restutil.WriteJSON(w, out)
}

func (p *Pools) handleStats(w http.ResponseWriter, r *http.Request) error {
	entry, err := p.parsePool(r)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	totalStake, err := p.pool.TotalStake(entry.ID)
	if err != nil {
		return err
	}
	credited, err := p.pool.TotalCredited(entry.ID)
	if err != nil {
		return err
	}
	settled, err := p.pool.TotalSettled(entry.ID)
	if err != nil {
		return err
	}

	return restutil.WriteJSON(w, &Stats{
		Name:          entry.Name,
		TotalStake:    totalStake.String(),
		TotalCredited: credited.String(),
		TotalSettled:  settled.String(),
	})
}

func (p *Pools) handleRatio(w http.ResponseWriter, r *http.Request) error {
	entry, err := p.parsePool(r)
	if err != nil {
		return err
	}
	epoch64, err := strconv.ParseUint(mux.Vars(r)["epoch"], 10, 32)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "epoch"))
	}
	epoch := uint32(epoch64)

	p.mu.Lock()
	defer p.mu.Unlock()
	snapshot, ok, err := p.pool.GetRatio(entry.ID, epoch)
	if err != nil {
		return revertStatus(err)
	}
	resp := &RatioSnapshot{Epoch: epoch, Set: ok}
	if ok {
		resp.Num = snapshot.Num.String()
		resp.Den = snapshot.Den.String()
	}
	return restutil.WriteJSON(w, resp)
}

func (p *Pools) handleMember(w http.ResponseWriter, r *http.Request) error {
	entry, err := p.parsePool(r)
	if err != nil {
		return err
	}
	member, err := parseMember(r)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	record, err := p.pool.GetMemberRecord(entry.ID, member)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &MemberRecord{
		CurrentStake: record.CurrentStake.String(),
		NextStake:    record.NextStake.String(),
		LastEpoch:    record.LastEpoch,
	})
}

func (p *Pools) handlePending(w http.ResponseWriter, r *http.Request) error {
	entry, err := p.parsePool(r)
	if err != nil {
		return err
	}
	member, err := parseMember(r)
	if err != nil {
		return err
	}
	epoch64, err := strconv.ParseUint(r.URL.Query().Get("epoch"), 10, 32)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "epoch"))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	pending, err := p.pool.PendingReward(entry.ID, member, uint32(epoch64))
	if err != nil {
		return revertStatus(err)
	}
	return restutil.WriteJSON(w, &PendingReward{
		Epoch:   uint32(epoch64),
		Pending: pending.String(),
	})
}

func (p *Pools) handleBalance(w http.ResponseWriter, r *http.Request) error {
	entry, err := p.parsePool(r)
	if err != nil {
		return err
	}
	member, err := parseMember(r)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	balance, err := p.ledger.Balance(entry.ID, member)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Balance{Balance: balance.String()})
}

func (p *Pools) handleDelegate(w http.ResponseWriter, r *http.Request) error {
	return p.handleStakeChange(w, r, p.pool.Delegate)
}

func (p *Pools) handleUndelegate(w http.ResponseWriter, r *http.Request) error {
	return p.handleStakeChange(w, r, p.pool.Undelegate)
}

func (p *Pools) handleStakeChange(
	w http.ResponseWriter,
	r *http.Request,
	apply func(rockpool.Bytes32, rockpool.Address, *big.Int, uint32) error,
) error {
	entry, err := p.parsePool(r)
	if err != nil {
		return err
	}

	var req StakeRequest
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	member, err := rockpool.ParseAddress(req.Member)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "member"))
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := apply(entry.ID, member, amount, req.Epoch); err != nil {
		return revertStatus(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (p *Pools) handleCredit(w http.ResponseWriter, r *http.Request) error {
	entry, err := p.parsePool(r)
	if err != nil {
		return err
	}

	var req CreditRequest
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	reward, err := parseAmount("reward", req.Reward)
	if err != nil {
		return err
	}

	// the operator fee comes off before the core sees the reward; the
	// ratio ledger only ever accounts the member share
	memberShare := entry.MemberShare(reward)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.pool.CreditReward(entry.ID, memberShare, req.Epoch); err != nil {
		return revertStatus(err)
	}
	return restutil.WriteJSON(w, &CreditResult{
		MemberShare:   memberShare.String(),
		OperatorShare: entry.OperatorShare(reward).String(),
	})
}

func (p *Pools) handleSettle(w http.ResponseWriter, r *http.Request) error {
	entry, err := p.parsePool(r)
	if err != nil {
		return err
	}

	var req SettleRequest
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	member, err := rockpool.ParseAddress(req.Member)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "member"))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	paid, err := p.pool.Settle(entry.ID, member, req.Epoch)
	if err != nil {
		return revertStatus(err)
	}
	return restutil.WriteJSON(w, &SettleResult{Paid: paid.String()})
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("pools_list").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleList))
	sub.Path("/{id}/stats").
		Methods(http.MethodGet).
		Name("pools_get_stats").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleStats))
	sub.Path("/{id}/ratios/{epoch}").
		Methods(http.MethodGet).
		Name("pools_get_ratio").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleRatio))
	sub.Path("/{id}/members/{member}").
		Methods(http.MethodGet).
		Name("pools_get_member").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleMember))
	sub.Path("/{id}/members/{member}/pending").
		Methods(http.MethodGet).
		Name("pools_get_pending").
		HandlerFunc(restutil.WrapHandlerFunc(p.handlePending))
	sub.Path("/{id}/members/{member}/balance").
		Methods(http.MethodGet).
		Name("pools_get_balance").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleBalance))
	sub.Path("/{id}/delegate").
		Methods(http.MethodPost).
		Name("pools_post_delegate").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleDelegate))
	sub.Path("/{id}/undelegate").
		Methods(http.MethodPost).
		Name("pools_post_undelegate").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleUndelegate))
	sub.Path("/{id}/credit").
		Methods(http.MethodPost).
		Name("pools_post_credit").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleCredit))
	sub.Path("/{id}/settle").
		Methods(http.MethodPost).
		Name("pools_post_settle").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleSettle))
}
