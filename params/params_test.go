// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/storage"
)

func newTestStore(t *testing.T) *Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	addr := stakevault.BytesToAddress([]byte("reward-params"))
	return New(storage.NewContext(addr, state.New(db)))
}

func TestDefaults(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Current()
	require.NoError(t, err)
	assert.Zero(t, p.BaseRatePerYearPercent)
	assert.Equal(t, 0, p.DecayRatePerInterval.Sign())
	assert.Zero(t, p.IntervalLength)
	assert.True(t, p.RewardAssetID.IsZero())
	assert.Zero(t, p.Cooldown)
	assert.Equal(t, 0, p.MinStake.Sign())
	assert.Equal(t, 0, p.MaxStakePerAsset.Sign())
}

func TestSetReplacesWholeConfig(t *testing.T) {
	s := newTestStore(t)
	reward := stakevault.BytesToAddress([]byte("reward"))

	require.NoError(t, s.Set(&Parameters{
		BaseRatePerYearPercent: 10,
		DecayRatePerInterval:   big.NewInt(5e17),
		IntervalLength:         3600,
		RewardAssetID:          reward,
		Cooldown:               86400,
		MinStake:               big.NewInt(100),
		MaxStakePerAsset:       big.NewInt(1000000),
	}))

	p, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, uint32(10), p.BaseRatePerYearPercent)
	assert.Equal(t, big.NewInt(5e17), p.DecayRatePerInterval)
	assert.Equal(t, reward, p.RewardAssetID)

	// a sparse replacement resets every omitted field
	require.NoError(t, s.Set(&Parameters{BaseRatePerYearPercent: 5}))

	p, err = s.Current()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), p.BaseRatePerYearPercent)
	assert.Equal(t, 0, p.DecayRatePerInterval.Sign())
	assert.Zero(t, p.IntervalLength)
	assert.Zero(t, p.Cooldown)
	assert.True(t, p.RewardAssetID.IsZero())
	assert.Equal(t, 0, p.MinStake.Sign())
	assert.Equal(t, 0, p.MaxStakePerAsset.Sign())
}

func TestSetRejectsInvalid(t *testing.T) {
	s := newTestStore(t)

	assert.Error(t, s.Set(nil))
	assert.Error(t, s.Set(&Parameters{MinStake: big.NewInt(-1)}))
	assert.Error(t, s.Set(&Parameters{MaxStakePerAsset: big.NewInt(-1)}))
	assert.Error(t, s.Set(&Parameters{DecayRatePerInterval: big.NewInt(-1)}))
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(&Parameters{BaseRatePerYearPercent: 10, MinStake: big.NewInt(5)}))
	p, err := s.Current()
	require.NoError(t, err)

	// mutating a snapshot must not leak into the store
	p.MinStake.SetInt64(999)
	p.BaseRatePerYearPercent = 77

	fresh, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, uint32(10), fresh.BaseRatePerYearPercent)
	assert.Equal(t, big.NewInt(5), fresh.MinStake)
}
