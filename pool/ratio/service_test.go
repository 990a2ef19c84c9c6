// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ratio

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockpool-labs/rockpool/lvldb"
	"github.com/rockpool-labs/rockpool/pool/reverts"
	"github.com/rockpool-labs/rockpool/rockpool"
	"github.com/rockpool-labs/rockpool/storage"
)

func mustEncode(t *testing.T, r *Ratio) []byte {
	raw, err := rlp.EncodeToBytes(r)
	require.NoError(t, err)
	return raw
}

func newService(t *testing.T) (*Service, *storage.Context) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := storage.NewContext(db)
	return New(sctx), sctx
}

func TestRecordAndGet(t *testing.T) {
	svc, _ := newService(t)
	poolID := rockpool.BytesToBytes32([]byte("pool-1"))

	// unset epoch is distinct from a zero ratio
	r, ok, err := svc.Get(poolID, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, r)

	want := &Ratio{Num: big.NewInt(10), Den: big.NewInt(1)}
	require.NoError(t, svc.Record(poolID, 3, want))

	r, ok, err = svc.Get(poolID, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, r)

	// write-once
	err = svc.Record(poolID, 3, &Ratio{Num: big.NewInt(11), Den: big.NewInt(1)})
	assert.True(t, reverts.IsRevertErr(err))
	assert.ErrorContains(t, err, "duplicate epoch write")
}

func TestRecordRejectsInvalid(t *testing.T) {
	svc, _ := newService(t)
	poolID := rockpool.BytesToBytes32([]byte("pool-1"))

	err := svc.Record(poolID, 1, &Ratio{Num: big.NewInt(1), Den: big.NewInt(0)})
	assert.ErrorContains(t, err, "not a valid")
}

func TestLookupAtCarryForward(t *testing.T) {
	svc, sctx := newService(t)
	poolID := rockpool.BytesToBytes32([]byte("pool-1"))

	// nothing recorded yet: genesis baseline
	r, err := svc.LookupAt(poolID, 5)
	require.NoError(t, err)
	assert.Equal(t, Genesis(), r)

	r2 := &Ratio{Num: big.NewInt(10), Den: big.NewInt(1)}
	r7 := &Ratio{Num: big.NewInt(25), Den: big.NewInt(2)}
	require.NoError(t, svc.Record(poolID, 2, r2))
	require.NoError(t, svc.Record(poolID, 7, r7))
	require.NoError(t, sctx.Commit())

	tests := []struct {
		epoch uint32
		want  *Ratio
	}{
		{1, Genesis()}, // before the first snapshot
		{2, r2},        // exact hit
		{5, r2},        // gap carries the last snapshot forward
		{7, r7},
		{100, r7},
	}
	for _, tt := range tests {
		got, err := svc.LookupAt(poolID, tt.epoch)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "epoch %d", tt.epoch)
	}
}

func TestLookupAtIsolatesPools(t *testing.T) {
	svc, sctx := newService(t)
	poolA := rockpool.BytesToBytes32([]byte("pool-a"))
	poolB := rockpool.BytesToBytes32([]byte("pool-b"))

	require.NoError(t, svc.Record(poolA, 4, &Ratio{Num: big.NewInt(7), Den: big.NewInt(1)}))
	require.NoError(t, sctx.Commit())

	// pool B never saw a credit; its lookups stay at genesis
	r, err := svc.LookupAt(poolB, 10)
	require.NoError(t, err)
	assert.Equal(t, Genesis(), r)
}

func TestLookupAtPoisonedRow(t *testing.T) {
	svc, sctx := newService(t)
	poolID := rockpool.BytesToBytes32([]byte("pool-1"))

	// a zero denominator snapshot cannot be interpolated over
	sctx.SetStorage(rowKey(poolID, 3), mustEncode(t, &Ratio{Num: big.NewInt(1), Den: big.NewInt(0)}))
	require.NoError(t, sctx.Commit())

	_, err := svc.LookupAt(poolID, 5)
	assert.True(t, reverts.IsRevertErr(err))
	assert.ErrorContains(t, err, "unresolved epoch gap")

	_, _, err = svc.Get(poolID, 3)
	assert.True(t, reverts.IsRevertErr(err))
}
