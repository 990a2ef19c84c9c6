// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"io"
	"math/big"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rockpool-labs/rockpool/rockpool"
)

// feeDenominator is the basis-point base for operator fees.
const feeDenominator = 10_000

// Pool is a registered staking pool. The operator fee is taken off a
// reward before the member share reaches the accounting core.
type Pool struct {
	ID             rockpool.Bytes32
	Name           string
	OperatorFeeBps uint32
}

// MemberShare returns the portion of reward belonging to the members.
// Division truncates in the members' disfavor, matching the core's
// rounding policy.
func (p *Pool) MemberShare(reward *big.Int) *big.Int {
	share := new(big.Int).Mul(reward, big.NewInt(int64(feeDenominator-p.OperatorFeeBps)))
	return share.Div(share, big.NewInt(feeDenominator))
}

// OperatorShare returns the operator's cut: the reward minus the
// member share, so the two always add up exactly.
func (p *Pool) OperatorShare(reward *big.Int) *big.Int {
	return new(big.Int).Sub(reward, p.MemberShare(reward))
}

// Registry is the set of pools the service accepts operations for,
// loaded once from a YAML manifest at startup.
type Registry struct {
	pools map[rockpool.Bytes32]*Pool
}

type manifest struct {
	Pools []struct {
		ID             string `yaml:"id"`
		Name           string `yaml:"name"`
		OperatorFeeBps uint32 `yaml:"operatorFeeBps"`
	} `yaml:"pools"`
}

// Parse reads a YAML manifest.
func Parse(r io.Reader) (*Registry, error) {
	var m manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode pool manifest")
	}

	pools := make(map[rockpool.Bytes32]*Pool, len(m.Pools))
	for _, entry := range m.Pools {
		id, err := rockpool.ParseBytes32(entry.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "pool %q has an invalid id", entry.Name)
		}
		if _, ok := pools[id]; ok {
			return nil, errors.Errorf("duplicate pool id %v", id)
		}
		if entry.OperatorFeeBps > feeDenominator {
			return nil, errors.Errorf("pool %q operator fee exceeds %d bps", entry.Name, feeDenominator)
		}
		pools[id] = &Pool{
			ID:             id,
			Name:           entry.Name,
			OperatorFeeBps: entry.OperatorFeeBps,
		}
	}

	return &Registry{pools: pools}, nil
}

// FromFile loads a manifest from path.
func FromFile(path string) (*Registry, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pool manifest")
	}
	defer f.Close()
	return Parse(f)
}

// Lookup returns the pool for id, if registered.
func (r *Registry) Lookup(id rockpool.Bytes32) (*Pool, bool) {
	p, ok := r.pools[id]
	return p, ok
}

// All returns the registered pools sorted by name.
func (r *Registry) All() []*Pool {
	all := make([]*Pool, 0, len(r.pools))
	for _, p := range r.pools {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}
