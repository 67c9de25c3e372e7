// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakevault

import "fmt"

// AssetKind tags the structural shape of a stakeable asset. It decides
// which sub-identifier convention applies to a stake: fungible-amount
// stakes always use the zero sentinel, the other two kinds use a
// caller-supplied identifier.
type AssetKind uint8

const (
	// FungibleAmount plain fungible balance, no sub-identifier.
	FungibleAmount AssetKind = iota + 1
	// UniqueToken non-fungible token, one unit per identifier.
	UniqueToken
	// FungiblePerID fungible balance held per identifier.
	FungiblePerID
)

// Valid returns whether the kind is one of the three defined variants.
func (k AssetKind) Valid() bool {
	switch k {
	case FungibleAmount, UniqueToken, FungiblePerID:
		return true
	default:
		return false
	}
}

// String implements the stringer interface.
func (k AssetKind) String() string {
	switch k {
	case FungibleAmount:
		return "fungible"
	case UniqueToken:
		return "unique"
	case FungiblePerID:
		return "fungible-per-id"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseAssetKind converts the string form back into an AssetKind.
func ParseAssetKind(s string) (AssetKind, error) {
	switch s {
	case "fungible":
		return FungibleAmount, nil
	case "unique":
		return UniqueToken, nil
	case "fungible-per-id":
		return FungiblePerID, nil
	default:
		return 0, fmt.Errorf("unknown asset kind %q", s)
	}
}
