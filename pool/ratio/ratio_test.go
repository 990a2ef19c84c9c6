// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ratio

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenesis(t *testing.T) {
	g := Genesis()
	assert.True(t, g.IsValid())
	assert.Equal(t, 0, g.Num.Sign())
	assert.Equal(t, big.NewInt(1), g.Den)
}

func TestAccrue(t *testing.T) {
	// 0/1 + 1000/100 = 10/1
	r := Genesis().Accrue(big.NewInt(1000), big.NewInt(100))
	assert.Equal(t, big.NewInt(10), r.Num)
	assert.Equal(t, big.NewInt(1), r.Den)

	// 10/1 + 1/3 = 31/3
	r = r.Accrue(big.NewInt(1), big.NewInt(3))
	assert.Equal(t, big.NewInt(31), r.Num)
	assert.Equal(t, big.NewInt(3), r.Den)

	// gcd reduction: 31/3 + 5/6 = (31*6 + 5*3) / 18 = 201/18 = 67/6
	r = r.Accrue(big.NewInt(5), big.NewInt(6))
	assert.Equal(t, big.NewInt(67), r.Num)
	assert.Equal(t, big.NewInt(6), r.Den)
}

func TestDeltaNum(t *testing.T) {
	begin := &Ratio{Num: big.NewInt(3), Den: big.NewInt(2)}
	end := &Ratio{Num: big.NewInt(10), Den: big.NewInt(4)}

	// 10*2 - 3*4 = 8, over common denominator 8 -> delta of 1
	assert.Equal(t, big.NewInt(8), DeltaNum(begin, end))

	// identical snapshots have a zero delta
	assert.Equal(t, 0, DeltaNum(begin, begin).Sign())
}

func TestIsValid(t *testing.T) {
	assert.False(t, (*Ratio)(nil).IsValid())
	assert.False(t, (&Ratio{}).IsValid())
	assert.False(t, (&Ratio{Num: big.NewInt(1), Den: big.NewInt(0)}).IsValid())
	assert.False(t, (&Ratio{Num: big.NewInt(-1), Den: big.NewInt(1)}).IsValid())
	assert.True(t, (&Ratio{Num: big.NewInt(0), Den: big.NewInt(1)}).IsValid())
}
