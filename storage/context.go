// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage offers typed accessors over state slots, similar to
// variable declarations of a smart contract: plain slots, uint256 slots
// and hashed mappings. Each service owns an address that namespaces its
// slots inside the shared state.
package storage

import (
	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/state"
)

// Context binds a service storage namespace to the shared state.
type Context struct {
	address stakevault.Address
	state   *state.State
}

// NewContext creates a storage context for the given namespace address.
func NewContext(address stakevault.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

// Address returns the namespace address.
func (c *Context) Address() stakevault.Address {
	return c.address
}

// State returns the underlying state.
func (c *Context) State() *state.State {
	return c.state
}
