// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ratio

import "math/big"

// Ratio is a cumulative reward-to-stake checkpoint, frozen at an epoch
// close. The pair is kept exact; it is never collapsed to a float.
type Ratio struct {
	Num *big.Int
	Den *big.Int
}

// Genesis is the baseline ratio before any reward has been credited.
func Genesis() *Ratio {
	return &Ratio{Num: new(big.Int), Den: big.NewInt(1)}
}

// IsValid reports whether the snapshot can be used in interpolation.
// A zero denominator makes every delta computation undefined.
func (r *Ratio) IsValid() bool {
	return r != nil && r.Num != nil && r.Den != nil && r.Den.Sign() > 0 && r.Num.Sign() >= 0
}

// Accrue returns the cumulative ratio advanced by reward/stake:
//
//	num/den + reward/stake = (num*stake + reward*den) / (den*stake)
//
// The result is reduced by the GCD to keep the pair from growing
// unbounded across long epoch spans.
func (r *Ratio) Accrue(reward, stake *big.Int) *Ratio {
	num := new(big.Int).Mul(r.Num, stake)
	num.Add(num, new(big.Int).Mul(reward, r.Den))
	den := new(big.Int).Mul(r.Den, stake)

	if gcd := new(big.Int).GCD(nil, nil, num, den); gcd.Cmp(big.NewInt(1)) > 0 {
		num.Div(num, gcd)
		den.Div(den, gcd)
	}
	return &Ratio{Num: num, Den: den}
}

// DeltaNum returns the cross-multiplied numerator of end - begin over
// the common denominator begin.Den*end.Den.
func DeltaNum(begin, end *Ratio) *big.Int {
	delta := new(big.Int).Mul(end.Num, begin.Den)
	return delta.Sub(delta, new(big.Int).Mul(begin.Num, end.Den))
}
