// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ratio

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/rockpool-labs/rockpool/kv"
	"github.com/rockpool-labs/rockpool/pool/reverts"
	"github.com/rockpool-labs/rockpool/rockpool"
	"github.com/rockpool-labs/rockpool/storage"
)

var slotRatios = rockpool.BytesToBytes32([]byte("reward-ratios"))

const lookupCacheSize = 2048

// Service is the append-only ratio ledger. Rows are keyed
// slot+poolID+epoch (epoch big-endian) so an ordered scan within a pool
// walks epochs in order, which is what the carry-forward lookup needs.
type Service struct {
	context *storage.Context
	cache   *lru.Cache
}

func New(sctx *storage.Context) *Service {
	cache, _ := lru.New(lookupCacheSize)
	return &Service{
		context: sctx,
		cache:   cache,
	}
}

func rowKey(poolID rockpool.Bytes32, epoch uint32) []byte {
	key := make([]byte, 0, 68)
	key = append(key, slotRatios.Bytes()...)
	key = append(key, poolID.Bytes()...)
	return binary.BigEndian.AppendUint32(key, epoch)
}

// Record freezes the cumulative ratio for epoch. An epoch can be
// written exactly once; a second write indicates an upstream sequencing
// bug and is rejected with DuplicateEpochWrite.
func (s *Service) Record(poolID rockpool.Bytes32, epoch uint32, r *Ratio) error {
	if !r.IsValid() {
		return errors.New("ratio snapshot is not a valid non-negative rational")
	}

	key := rowKey(poolID, epoch)
	existing, err := s.context.GetStorage(key)
	if err != nil {
		return errors.Wrap(err, "failed to check ratio row")
	}
	if len(existing) > 0 {
		return errors.Wrapf(reverts.DuplicateEpochWrite, "epoch %d", epoch)
	}

	raw, err := rlp.EncodeToBytes(r)
	if err != nil {
		return errors.Wrap(err, "failed to encode ratio")
	}
	// the cache is only fed from committed rows in LookupAt; a staged
	// write that never commits must not become visible through it
	s.context.SetStorage(key, raw)
	return nil
}

// Get returns the snapshot frozen at exactly epoch. The second return
// value distinguishes an unset epoch from a stored zero ratio.
func (s *Service) Get(poolID rockpool.Bytes32, epoch uint32) (*Ratio, bool, error) {
	raw, err := s.context.GetStorage(rowKey(poolID, epoch))
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get ratio row")
	}
	if len(raw) == 0 {
		return nil, false, nil
	}

	r, err := decode(raw, epoch)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// LookupAt resolves epoch to the nearest snapshot at or before it.
// Epochs with no credited reward have no row of their own; the last
// frozen ratio carries forward. Before any snapshot exists the genesis
// baseline applies.
func (s *Service) LookupAt(poolID rockpool.Bytes32, epoch uint32) (*Ratio, error) {
	key := rowKey(poolID, epoch)
	if cached, ok := s.cache.Get(string(key)); ok {
		return cached.(*Ratio), nil
	}

	iter := s.context.Store().NewIterator(kv.Range{
		From: rowKey(poolID, 0),
		To:   append(key, 0x00),
	})
	defer iter.Release()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return nil, errors.Wrap(err, "failed to scan ratio rows")
		}
		return Genesis(), nil
	}

	resolvedEpoch := binary.BigEndian.Uint32(iter.Key()[64:])
	r, err := decode(iter.Value(), resolvedEpoch)
	if err != nil {
		return nil, err
	}
	s.cache.Add(string(key), r)
	return r, nil
}

func decode(raw []byte, epoch uint32) (*Ratio, error) {
	var r Ratio
	if err := rlp.DecodeBytes(raw, &r); err != nil {
		return nil, errors.Wrapf(reverts.UnresolvedEpochGap, "epoch %d: %v", epoch, err)
	}
	if !r.IsValid() {
		return nil, errors.Wrapf(reverts.UnresolvedEpochGap, "epoch %d", epoch)
	}
	return &r, nil
}
