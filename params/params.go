// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package params holds the reward and limit configuration of the vault.
// The configuration is replaced wholesale on every update and read back as
// a snapshot, so accrual computations never observe a partial update.
package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/storage"
)

var slotParameters = stakevault.BytesToBytes32([]byte("parameters"))

// Parameters is the whole reward/limit configuration. All seven fields
// are set together; there is no partial mutation.
type Parameters struct {
	BaseRatePerYearPercent uint32
	DecayRatePerInterval   *big.Int // fixed-point 1e18 per interval, zero disables decay
	IntervalLength         uint64   // seconds per compounding interval
	RewardAssetID          stakevault.Address
	Cooldown               uint64   // seconds, zero disables the cooldown
	MinStake               *big.Int // zero disables the minimum
	MaxStakePerAsset       *big.Int // zero disables the limit
}

// normalized returns a copy with nil big fields replaced by zero.
func (p *Parameters) normalized() *Parameters {
	c := *p
	if c.DecayRatePerInterval == nil {
		c.DecayRatePerInterval = new(big.Int)
	}
	if c.MinStake == nil {
		c.MinStake = new(big.Int)
	}
	if c.MaxStakePerAsset == nil {
		c.MaxStakePerAsset = new(big.Int)
	}
	return &c
}

func (p *Parameters) validate() error {
	if p.DecayRatePerInterval != nil && p.DecayRatePerInterval.Sign() < 0 {
		return errors.New("negative decay rate")
	}
	if p.MinStake != nil && p.MinStake.Sign() < 0 {
		return errors.New("negative min stake")
	}
	if p.MaxStakePerAsset != nil && p.MaxStakePerAsset.Sign() < 0 {
		return errors.New("negative max stake")
	}
	return nil
}

// Store binder of the parameter storage namespace.
type Store struct {
	params *storage.Raw[*Parameters]
}

// New create a new store instance.
func New(sctx *storage.Context) *Store {
	return &Store{
		params: storage.NewRaw[*Parameters](sctx, slotParameters),
	}
}

// Current returns the latest snapshot. Before the first Set, all fields
// are at their zero defaults.
func (s *Store) Current() (*Parameters, error) {
	p, err := s.params.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get parameters")
	}
	if p == nil {
		p = &Parameters{}
	}
	return p.normalized(), nil
}

// Set replaces the whole configuration atomically.
func (s *Store) Set(p *Parameters) error {
	if p == nil {
		return errors.New("nil parameters")
	}
	if err := p.validate(); err != nil {
		return err
	}
	return s.params.Upsert(p.normalized())
}
