// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stakevault/stakevault/stakevault"
)

// Raw is a single-slot accessor for an rlp-encoded value of type V.
// A missing slot decodes to the zero value of V (nil for pointer types).
type Raw[V any] struct {
	context *Context
	pos     stakevault.Bytes32
}

// NewRaw binds a raw accessor to the given slot.
func NewRaw[V any](context *Context, slot stakevault.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: slot}
}

// Get decodes the stored value.
func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Upsert encodes and stores the value.
func (r *Raw[V]) Upsert(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot.
func (r *Raw[V]) Delete() error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return nil, nil
	})
}
