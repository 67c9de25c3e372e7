// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody defines the external collaborator that moves assets
// between users and the pooled custodian. The staking core only decides
// how much and which identifier to move; executing the movement, and
// deciding whether it can be executed, belongs to the custodian.
package custody

import (
	"math/big"

	"github.com/stakevault/stakevault/stakevault"
)

// Custodian executes asset movements on behalf of the vault.
// Any returned error means the movement was declined and nothing moved.
type Custodian interface {
	// TransferIn moves the asset from the user into pooled custody.
	TransferIn(kind stakevault.AssetKind, asset stakevault.Address, subID, amount *big.Int, from stakevault.Address) error

	// TransferOut returns the asset from pooled custody to the user.
	TransferOut(kind stakevault.AssetKind, asset stakevault.Address, subID, amount *big.Int, to stakevault.Address) error

	// VerifyOwnership reports whether claimant currently owns the unique
	// token identified by (asset, subID). Only meaningful for the
	// UniqueToken kind.
	VerifyOwnership(asset stakevault.Address, subID *big.Int, claimant stakevault.Address) (bool, error)
}
