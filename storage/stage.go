// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import "github.com/rockpool-labs/rockpool/kv"

// Stage is a write buffer over the store. Keys written later shadow
// earlier writes of the same key.
type Stage struct {
	kvs map[string][]byte
}

func newStage() *Stage {
	return &Stage{kvs: make(map[string][]byte)}
}

func (s *Stage) get(key []byte) ([]byte, bool) {
	v, ok := s.kvs[string(key)]
	return v, ok
}

func (s *Stage) put(key, value []byte) {
	s.kvs[string(key)] = value
}

func (s *Stage) len() int {
	return len(s.kvs)
}

func (s *Stage) writeTo(putter kv.Putter) error {
	for k, v := range s.kvs {
		if err := putter.Put([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}
