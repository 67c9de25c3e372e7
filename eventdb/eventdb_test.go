// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/staking"
)

var (
	alice = stakevault.BytesToAddress([]byte("alice"))
	bob   = stakevault.BytesToAddress([]byte("bob"))
	gold  = stakevault.BytesToAddress([]byte("gold"))
	gem   = stakevault.BytesToAddress([]byte("gem"))
)

func newTestDB(t *testing.T) *EventDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *EventDB) {
	events := []*staking.Event{
		{Type: staking.EventStaked, User: alice, Asset: gold, SubID: big.NewInt(0), Amount: big.NewInt(100), Time: 1},
		{Type: staking.EventStaked, User: bob, Asset: gold, SubID: big.NewInt(0), Amount: big.NewInt(200), Time: 2},
		{Type: staking.EventStaked, User: alice, Asset: gem, SubID: big.NewInt(7), Amount: big.NewInt(1), Time: 3},
		{Type: staking.EventRewardClaimed, User: alice, Asset: gold, SubID: big.NewInt(0), Amount: big.NewInt(10), Time: 4},
		{Type: staking.EventUnstaked, User: alice, Asset: gold, SubID: big.NewInt(0), Amount: big.NewInt(100), Time: 5},
	}
	for _, ev := range events {
		require.NoError(t, db.Append(ev))
	}
}

func TestAppendAndQueryAll(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	events, err := db.Query(nil)
	require.NoError(t, err)
	require.Len(t, events, 5)

	// append order is preserved
	assert.Equal(t, staking.EventStaked, events[0].Type)
	assert.Equal(t, uint64(1), events[0].Time)
	assert.Equal(t, staking.EventUnstaked, events[4].Type)
	assert.Equal(t, big.NewInt(100), events[4].Amount)
}

func TestQueryByUser(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	events, err := db.Query(&Filter{User: &bob})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, bob, events[0].User)
	assert.Equal(t, big.NewInt(200), events[0].Amount)
}

func TestQueryByUserAndAsset(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	events, err := db.Query(&Filter{User: &alice, Asset: &gem})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, gem, events[0].Asset)
	assert.Equal(t, big.NewInt(7), events[0].SubID)
}

func TestQueryLimit(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	events, err := db.Query(&Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].Time)
	assert.Equal(t, uint64(2), events[1].Time)
}

func TestRoundTripBigAmount(t *testing.T) {
	db := newTestDB(t)

	amount, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	require.NoError(t, db.Append(&staking.Event{
		Type: staking.EventStaked, User: alice, Asset: gold,
		SubID: big.NewInt(0), Amount: amount, Time: 9,
	}))

	events, err := db.Query(&Filter{User: &alice})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, amount, events[0].Amount)
}
