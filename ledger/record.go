// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/stakevault/stakevault/stakevault"
)

// StakeRecord is the per (user, asset, sub-identifier) stake state.
// A record with zero principal is the canonical "no stake" state and is
// never persisted; all fields reset together.
//
// Invariants:
//   - LastAccrualAt >= OpenedAt, and LastAccrualAt never decreases.
//   - For UniqueToken assets, Principal is 0 or 1.
type StakeRecord struct {
	Principal     *big.Int
	Kind          stakevault.AssetKind // kind at open time; a later re-registration does not reinterpret the stake
	OpenedAt      uint64
	LastAccrualAt uint64
	RewardsPaid   *big.Int
}

// stakeKey identifies a stake record.
type stakeKey struct {
	user  stakevault.Address
	asset stakevault.Address
	subID *big.Int
}

// Bytes implements storage.Key.
func (k stakeKey) Bytes() []byte {
	b := make([]byte, 0, 2*stakevault.AddressLength+32)
	b = append(b, k.user.Bytes()...)
	b = append(b, k.asset.Bytes()...)
	sub := stakevault.Bytes32{}
	if k.subID != nil {
		sub = stakevault.BytesToBytes32(k.subID.Bytes())
	}
	return append(b, sub.Bytes()...)
}
