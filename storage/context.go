// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/pkg/errors"

	"github.com/rockpool-labs/rockpool/kv"
)

// Context binds typed storage cells to an underlying key-value store.
// All writes are buffered in a stage and only reach the store on Commit,
// so a failed operation leaves the store untouched.
type Context struct {
	store kv.Store
	stage *Stage
}

func NewContext(store kv.Store) *Context {
	return &Context{
		store: store,
		stage: newStage(),
	}
}

// Store returns the backing store. Reads through it bypass the stage.
func (c *Context) Store() kv.Store {
	return c.store
}

// GetStorage retrieves the raw value at pos, staged writes first.
// A missing key yields a nil value and no error.
func (c *Context) GetStorage(pos []byte) ([]byte, error) {
	if raw, ok := c.stage.get(pos); ok {
		return raw, nil
	}
	raw, err := c.store.Get(pos)
	if err != nil {
		if c.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get storage")
	}
	return raw, nil
}

// SetStorage stages the raw value at pos.
func (c *Context) SetStorage(pos []byte, raw []byte) {
	c.stage.put(pos, raw)
}

// DecodeStorage retrieves the value at pos and passes it to decode.
// decode receives a nil slice if the key is unset.
func (c *Context) DecodeStorage(pos []byte, decode func(raw []byte) error) error {
	raw, err := c.GetStorage(pos)
	if err != nil {
		return err
	}
	return decode(raw)
}

// EncodeStorage stages the value produced by encode at pos.
func (c *Context) EncodeStorage(pos []byte, encode func() ([]byte, error)) error {
	raw, err := encode()
	if err != nil {
		return err
	}
	c.SetStorage(pos, raw)
	return nil
}

// Dirty returns the number of staged writes.
func (c *Context) Dirty() int {
	return c.stage.len()
}

// Commit writes all staged values to the store in a single batch
// and clears the stage. The batch write is atomic.
func (c *Context) Commit() error {
	if c.stage.len() == 0 {
		return nil
	}
	batch := c.store.NewBatch()
	if err := c.stage.writeTo(batch); err != nil {
		return errors.Wrap(err, "stage commit")
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "stage commit")
	}
	c.stage = newStage()
	return nil
}

// Revert discards all staged writes.
func (c *Context) Revert() {
	c.stage = newStage()
}
