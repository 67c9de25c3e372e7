// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package memcustody is an in-memory custodian for tests and solo mode.
// It tracks fungible balances, per-identifier balances and unique-token
// ownership, and can be told to decline transfers to exercise failure
// paths.
package memcustody

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/custody"
	"github.com/stakevault/stakevault/stakevault"
)

type holdingKey struct {
	asset  stakevault.Address
	subID  stakevault.Bytes32
	holder stakevault.Address
}

type tokenKey struct {
	asset stakevault.Address
	subID stakevault.Bytes32
}

// Custodian is an in-memory custody implementation.
type Custodian struct {
	mu       sync.Mutex
	vault    stakevault.Address
	balances map[holdingKey]*big.Int
	owners   map[tokenKey]stakevault.Address

	declineTransfers bool
}

var _ custody.Custodian = (*Custodian)(nil)

// New creates a custodian pooling assets under the vault address.
func New(vault stakevault.Address) *Custodian {
	return &Custodian{
		vault:    vault,
		balances: make(map[holdingKey]*big.Int),
		owners:   make(map[tokenKey]stakevault.Address),
	}
}

func subKey(subID *big.Int) stakevault.Bytes32 {
	if subID == nil {
		return stakevault.Bytes32{}
	}
	return stakevault.BytesToBytes32(subID.Bytes())
}

// DeclineTransfers makes every following transfer fail. Ownership
// verification is unaffected.
func (c *Custodian) DeclineTransfers(decline bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.declineTransfers = decline
}

// Mint credits a fungible (or per-identifier) balance to a holder.
func (c *Custodian) Mint(asset stakevault.Address, subID *big.Int, holder stakevault.Address, amount *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credit(holdingKey{asset, subKey(subID), holder}, amount)
}

// MintToken assigns ownership of a unique token.
func (c *Custodian) MintToken(asset stakevault.Address, subID *big.Int, owner stakevault.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owners[tokenKey{asset, subKey(subID)}] = owner
}

// BalanceOf returns the fungible (or per-identifier) balance of a holder.
func (c *Custodian) BalanceOf(asset stakevault.Address, subID *big.Int, holder stakevault.Address) *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bal, ok := c.balances[holdingKey{asset, subKey(subID), holder}]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// OwnerOf returns the current owner of a unique token.
func (c *Custodian) OwnerOf(asset stakevault.Address, subID *big.Int) (stakevault.Address, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	owner, ok := c.owners[tokenKey{asset, subKey(subID)}]
	return owner, ok
}

// TransferIn implements custody.Custodian.
func (c *Custodian) TransferIn(kind stakevault.AssetKind, asset stakevault.Address, subID, amount *big.Int, from stakevault.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transfer(kind, asset, subID, amount, from, c.vault)
}

// TransferOut implements custody.Custodian.
func (c *Custodian) TransferOut(kind stakevault.AssetKind, asset stakevault.Address, subID, amount *big.Int, to stakevault.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transfer(kind, asset, subID, amount, c.vault, to)
}

// VerifyOwnership implements custody.Custodian.
func (c *Custodian) VerifyOwnership(asset stakevault.Address, subID *big.Int, claimant stakevault.Address) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	owner, ok := c.owners[tokenKey{asset, subKey(subID)}]
	return ok && owner == claimant, nil
}

func (c *Custodian) transfer(kind stakevault.AssetKind, asset stakevault.Address, subID, amount *big.Int, from, to stakevault.Address) error {
	if c.declineTransfers {
		return errors.New("transfer declined")
	}

	switch kind {
	case stakevault.UniqueToken:
		key := tokenKey{asset, subKey(subID)}
		owner, ok := c.owners[key]
		if !ok || owner != from {
			return errors.New("not the token owner")
		}
		c.owners[key] = to
		return nil

	case stakevault.FungibleAmount, stakevault.FungiblePerID:
		sub := subKey(subID)
		if kind == stakevault.FungibleAmount {
			sub = stakevault.Bytes32{}
		}
		fromKey := holdingKey{asset, sub, from}
		bal, ok := c.balances[fromKey]
		if !ok || bal.Cmp(amount) < 0 {
			return errors.New("insufficient balance")
		}
		bal.Sub(bal, amount)
		if bal.Sign() == 0 {
			delete(c.balances, fromKey)
		}
		c.credit(holdingKey{asset, sub, to}, amount)
		return nil

	default:
		return errors.Errorf("unknown asset kind %d", kind)
	}
}

func (c *Custodian) credit(key holdingKey, amount *big.Int) {
	if bal, ok := c.balances[key]; ok {
		bal.Add(bal, amount)
		return
	}
	c.balances[key] = new(big.Int).Set(amount)
}
