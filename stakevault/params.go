// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakevault

import "math/big"

// Constants of the reward arithmetic.
const (
	// SecondsPerYear is the year length used by the base-rate formula.
	SecondsPerYear = 365 * 24 * 60 * 60

	// PercentDivisor divides the yearly base rate expressed in percent.
	PercentDivisor = 100
)

var (
	// FixedPointScale is the unit of fixed-point factors (decay), 10^18.
	FixedPointScale = big.NewInt(1e18)
)

// SentinelSubID is the sub-identifier forced onto fungible-amount stakes.
// It returns a fresh value each call; the sentinel ends up in record keys
// and events, which must not alias a shared big.Int.
func SentinelSubID() *big.Int {
	return new(big.Int)
}
