// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockpool-labs/rockpool/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		invalidKey = []byte("abc")
	)

	persisted, err := New(filepath.Join(t.TempDir(), "db"), Options{16, 16})
	require.NoError(t, err)
	defer persisted.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persisted, mem} {
		assert.NoError(t, db.Put(key, value))

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		_, err = db.Get(invalidKey)
		assert.True(t, db.IsNotFound(err))

		assert.NoError(t, db.Delete(key))
		has, err = db.Has(key)
		assert.NoError(t, err)
		assert.False(t, has)
	}
}

func TestLevelDBBatch(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.NoError(t, batch.Put([]byte("a"), []byte("1")))
	assert.NoError(t, batch.Put([]byte("b"), []byte("2")))
	assert.Equal(t, 2, batch.Len())

	// nothing visible before write
	has, err := db.Has([]byte("a"))
	assert.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, batch.Write())

	got, err := db.Get([]byte("b"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestLevelDBIterator(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k1"), []byte("v1")))
	require.NoError(t, db.Put([]byte("k2"), []byte("v2")))
	require.NoError(t, db.Put([]byte("k3"), []byte("v3")))
	require.NoError(t, db.Put([]byte("x1"), []byte("other")))

	it := db.NewIterator(kv.Range{From: []byte("k"), To: []byte("l")})
	defer it.Release()

	assert.True(t, it.Last())
	assert.Equal(t, []byte("k3"), it.Key())
	assert.True(t, it.Prev())
	assert.Equal(t, []byte("k2"), it.Key())
	assert.True(t, it.First())
	assert.Equal(t, []byte("k1"), it.Key())
	assert.Equal(t, []byte("v1"), it.Value())
	assert.NoError(t, it.Error())
}
