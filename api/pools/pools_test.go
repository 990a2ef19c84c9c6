// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockpool-labs/rockpool/lvldb"
	"github.com/rockpool-labs/rockpool/payout"
	"github.com/rockpool-labs/rockpool/pool"
	"github.com/rockpool-labs/rockpool/registry"
	"github.com/rockpool-labs/rockpool/storage"
)

const (
	testPoolID = "0x0000000000000000000000000000000000000000000000000000000000000001"
	testMember = "0x00000000000000000000000000000000000000aa"
)

const testManifest = `
pools:
  - id: "` + testPoolID + `"
    name: alpha
    operatorFeeBps: 1000
`

func newServer(t *testing.T) *httptest.Server {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := storage.NewContext(db)
	ledger := payout.NewLedger(sctx)
	reg, err := registry.Parse(strings.NewReader(testManifest))
	require.NoError(t, err)

	router := mux.NewRouter()
	New(pool.New(sctx, ledger), ledger, reg).Mount(router, "/pools")

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return res
}

func decodeJSON[T any](t *testing.T, res *http.Response) T {
	defer res.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestPoolLifecycle(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/pools/" + testPoolID

	res := postJSON(t, base+"/delegate", StakeRequest{Member: testMember, Amount: "100", Epoch: 1})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	// the 10% operator fee comes off before crediting
	res = postJSON(t, base+"/credit", CreditRequest{Reward: "1000", Epoch: 2})
	require.Equal(t, http.StatusOK, res.StatusCode)
	credit := decodeJSON[CreditResult](t, res)
	assert.Equal(t, "900", credit.MemberShare)
	assert.Equal(t, "100", credit.OperatorShare)

	res, err := http.Get(fmt.Sprintf("%s/members/%s/pending?epoch=3", base, testMember))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	pending := decodeJSON[PendingReward](t, res)
	assert.Equal(t, "900", pending.Pending)

	res = postJSON(t, base+"/settle", SettleRequest{Member: testMember, Epoch: 3})
	require.Equal(t, http.StatusOK, res.StatusCode)
	settle := decodeJSON[SettleResult](t, res)
	assert.Equal(t, "900", settle.Paid)

	res, err = http.Get(fmt.Sprintf("%s/members/%s/balance", base, testMember))
	require.NoError(t, err)
	balance := decodeJSON[Balance](t, res)
	assert.Equal(t, "900", balance.Balance)

	res, err = http.Get(base + "/stats")
	require.NoError(t, err)
	stats := decodeJSON[Stats](t, res)
	assert.Equal(t, "alpha", stats.Name)
	assert.Equal(t, "100", stats.TotalStake)
	assert.Equal(t, "900", stats.TotalCredited)
	assert.Equal(t, "900", stats.TotalSettled)

	res, err = http.Get(base + "/ratios/2")
	require.NoError(t, err)
	snapshot := decodeJSON[RatioSnapshot](t, res)
	assert.True(t, snapshot.Set)
	assert.Equal(t, "9", snapshot.Num)
	assert.Equal(t, "1", snapshot.Den)
}

func TestListPools(t *testing.T) {
	srv := newServer(t)

	res, err := http.Get(srv.URL + "/pools")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	list := decodeJSON[[]PoolSummary](t, res)
	require.Len(t, list, 1)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, testPoolID, list[0].ID)
	assert.Equal(t, uint32(1000), list[0].OperatorFeeBps)
}

func TestErrorStatuses(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/pools/" + testPoolID

	// unknown pool
	unknown := srv.URL + "/pools/0x00000000000000000000000000000000000000000000000000000000000000ff"
	res, err := http.Get(unknown + "/stats")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// malformed pool id
	res, err = http.Get(srv.URL + "/pools/garbage/stats")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// undelegate without stake
	res = postJSON(t, base+"/undelegate", StakeRequest{Member: testMember, Amount: "1", Epoch: 1})
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// negative amount
	res = postJSON(t, base+"/delegate", StakeRequest{Member: testMember, Amount: "-5", Epoch: 1})
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// duplicate epoch credit conflicts
	postJSON(t, base+"/delegate", StakeRequest{Member: testMember, Amount: "100", Epoch: 1}).Body.Close()
	postJSON(t, base+"/credit", CreditRequest{Reward: "1000", Epoch: 2}).Body.Close()
	res = postJSON(t, base+"/credit", CreditRequest{Reward: "500", Epoch: 2})
	res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/pools/" + testPoolID

	const rounds = 50
	body, err := json.Marshal(StakeRequest{Member: testMember, Amount: "1", Epoch: 1})
	require.NoError(t, err)

	// a writer hammering delegations while a reader polls pending
	// rewards; every read must see fully committed state only
	errCh := make(chan error, 2)
	go func() {
		for range rounds {
			res, err := http.Post(base+"/delegate", "application/json", bytes.NewReader(body))
			if err != nil {
				errCh <- err
				return
			}
			res.Body.Close()
		}
		errCh <- nil
	}()
	go func() {
		for range rounds {
			res, err := http.Get(base + "/members/" + testMember + "/pending?epoch=1")
			if err != nil {
				errCh <- err
				return
			}
			res.Body.Close()
		}
		errCh <- nil
	}()
	require.NoError(t, <-errCh)
	require.NoError(t, <-errCh)

	res, err := http.Get(base + "/stats")
	require.NoError(t, err)
	stats := decodeJSON[Stats](t, res)
	assert.Equal(t, "50", stats.TotalStake)
}
