// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rockpool-labs/rockpool/rockpool"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction, similar to a mapping in
// Solidity. Values are RLP encoded at positions derived from the base
// slot and the key.
type Mapping[K Key, V any] struct {
	context *Context
	basePos rockpool.Bytes32
}

func NewMapping[K Key, V any](context *Context, name string) *Mapping[K, V] {
	return &Mapping[K, V]{
		context: context,
		basePos: rockpool.BytesToBytes32([]byte(name)),
	}
}

func (m *Mapping[K, V]) position(key K) []byte {
	return rockpool.Blake2b(key.Bytes(), m.basePos.Bytes()).Bytes()
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.DecodeStorage(m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.EncodeStorage(m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
