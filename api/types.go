// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakevault/stakevault/stakevault"
)

// Deposit is the body of POST /staking/deposits.
type Deposit struct {
	User   stakevault.Address    `json:"user"`
	Asset  stakevault.Address    `json:"asset"`
	SubID  *math.HexOrDecimal256 `json:"subId"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// StakeRef is the body of POST /staking/claims and /staking/withdrawals.
type StakeRef struct {
	User  stakevault.Address    `json:"user"`
	Asset stakevault.Address    `json:"asset"`
	SubID *math.HexOrDecimal256 `json:"subId"`
}

// Stake is the response of GET /staking/stakes.
type Stake struct {
	Principal     *math.HexOrDecimal256 `json:"principal"`
	Kind          string                `json:"kind"`
	OpenedAt      uint64                `json:"openedAt"`
	LastAccrualAt uint64                `json:"lastAccrualAt"`
	RewardsPaid   *math.HexOrDecimal256 `json:"rewardsPaid"`
	PendingReward *math.HexOrDecimal256 `json:"pendingReward"`
}

// RegisterAsset is the body of POST /admin/assets.
type RegisterAsset struct {
	Caller   stakevault.Address `json:"caller"`
	Asset    stakevault.Address `json:"asset"`
	Kind     string             `json:"kind"`
	Accepted *bool              `json:"accepted"`
}

// Parameters is the body and response of the /admin/parameters endpoints.
// All seven fields are replaced together on update.
type Parameters struct {
	Caller                 *stakevault.Address   `json:"caller,omitempty"`
	BaseRatePerYearPercent uint32                `json:"baseRatePerYearPercent"`
	DecayRatePerInterval   *math.HexOrDecimal256 `json:"decayRatePerInterval"`
	IntervalLength         uint64                `json:"intervalLength"`
	RewardAssetID          stakevault.Address    `json:"rewardAssetId"`
	Cooldown               uint64                `json:"cooldown"`
	MinStake               *math.HexOrDecimal256 `json:"minStake"`
	MaxStakePerAsset       *math.HexOrDecimal256 `json:"maxStakePerAsset"`
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}

func fromBig(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}
