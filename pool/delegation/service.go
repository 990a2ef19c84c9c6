// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/pkg/errors"

	"github.com/rockpool-labs/rockpool/rockpool"
	"github.com/rockpool-labs/rockpool/storage"
)

// Service stores member stake records. Records are created implicitly
// on first access and never deleted; a member who fully undelegates
// keeps a record so past-epoch rewards remain computable.
type Service struct {
	records *storage.Mapping[ID, *Record]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		records: storage.NewMapping[ID, *Record](sctx, "member-stakes"),
	}
}

// Get retrieves the stake record for a member, zero-valued if the
// member has never delegated. The returned record always has non-nil
// amounts.
func (s *Service) Get(poolID rockpool.Bytes32, member rockpool.Address) (*Record, error) {
	r, err := s.records.Get(ID{Pool: poolID, Member: member})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake record")
	}
	if r == nil || r.CurrentStake == nil {
		return newRecord(), nil
	}
	return r, nil
}

func (s *Service) Set(poolID rockpool.Bytes32, member rockpool.Address, r *Record) error {
	if err := s.records.Set(ID{Pool: poolID, Member: member}, r); err != nil {
		return errors.Wrap(err, "failed to set stake record")
	}
	return nil
}
