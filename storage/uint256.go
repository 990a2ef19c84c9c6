// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/rockpool-labs/rockpool/rockpool"
)

const maxUint256Bits = 256

// Uint256 is a named storage cell holding a non-negative integer of at
// most 256 bits. The name doubles as the storage slot.
type Uint256 struct {
	context *Context
	pos     rockpool.Bytes32
	name    string
}

func NewUint256(context *Context, name string) *Uint256 {
	return NewUint256At(context, rockpool.BytesToBytes32([]byte(name)), name)
}

// NewUint256At places the cell at an explicit position. Used for cells
// keyed by more than their name, such as per-pool totals.
func NewUint256At(context *Context, pos rockpool.Bytes32, name string) *Uint256 {
	return &Uint256{
		context: context,
		pos:     pos,
		name:    name,
	}
}

func (u *Uint256) Get() (*big.Int, error) {
	raw, err := u.context.GetStorage(u.pos.Bytes())
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errors.Errorf("%s uint256 cannot be negative", u.name)
	}
	if value.BitLen() > maxUint256Bits {
		return errors.New("uint256 overflow")
	}
	u.context.SetStorage(u.pos.Bytes(), value.Bytes())
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	sum := stored.Add(stored, value)
	if sum.BitLen() > maxUint256Bits {
		return errors.New("uint256 overflow")
	}
	return u.Set(sum)
}

func (u *Uint256) Sub(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	diff := stored.Sub(stored, value)
	if diff.Sign() < 0 {
		return errors.Errorf("%s uint256 cannot be negative", u.name)
	}
	return u.Set(diff)
}
