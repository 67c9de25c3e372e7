// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/stakevault"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Uint256 is a wrapper for storage and retrieval of an unsigned 256-bit
// integer held in a single slot.
type Uint256 struct {
	context *Context
	pos     stakevault.Bytes32
}

// NewUint256 binds a uint256 accessor to the given slot.
func NewUint256(context *Context, slot stakevault.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

// Get returns the stored value, zero if the slot is empty.
func (u *Uint256) Get() (*big.Int, error) {
	stored, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(stored.Bytes()), nil
}

// Set stores the value. Values wider than 256 bits are rejected.
func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 || value.Cmp(maxUint256) > 0 {
		return errors.New("value out of uint256 range")
	}
	return u.context.state.SetStorage(u.context.address, u.pos, stakevault.BytesToBytes32(value.Bytes()))
}

// Add increases the stored value, guarding the 256-bit bound.
func (u *Uint256) Add(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	stored.Add(stored, value)
	return u.Set(stored)
}

// Sub decreases the stored value. Underflow below zero is an error.
func (u *Uint256) Sub(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	stored.Sub(stored, value)
	if stored.Sign() < 0 {
		return errors.New("uint256 underflow")
	}
	return u.Set(stored)
}
