// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/stakevault"
)

func TestStorage(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := New(db)

	addr := stakevault.BytesToAddress([]byte("addr"))
	key := stakevault.BytesToBytes32([]byte("key"))
	value := stakevault.BytesToBytes32([]byte("value"))

	got, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, stakevault.Bytes32{}, got)

	require.NoError(t, st.SetStorage(addr, key, value))
	got, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	// the all-zero value deletes the entry
	require.NoError(t, st.SetStorage(addr, key, stakevault.Bytes32{}))
	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Len(t, raw, 0)
}

func TestCheckpointRevert(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := New(db)

	addr := stakevault.BytesToAddress([]byte("addr"))
	key := stakevault.BytesToBytes32([]byte("key"))
	v1 := stakevault.BytesToBytes32([]byte{1})
	v2 := stakevault.BytesToBytes32([]byte{2})

	require.NoError(t, st.SetStorage(addr, key, v1))

	checkpoint := st.NewCheckpoint()
	require.NoError(t, st.SetStorage(addr, key, v2))

	got, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, v2, got)

	st.RevertTo(checkpoint)
	got, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, v1, got)
}

func TestNestedCheckpoints(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := New(db)

	addr := stakevault.BytesToAddress([]byte("addr"))
	key := stakevault.BytesToBytes32([]byte("key"))

	outer := st.NewCheckpoint()
	require.NoError(t, st.SetStorage(addr, key, stakevault.BytesToBytes32([]byte{1})))

	inner := st.NewCheckpoint()
	require.NoError(t, st.SetStorage(addr, key, stakevault.BytesToBytes32([]byte{2})))
	st.RevertTo(inner)

	got, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, stakevault.BytesToBytes32([]byte{1}), got)

	st.RevertTo(outer)
	got, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, stakevault.Bytes32{}, got)
}

func TestCommitAfterRepeatedWrites(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	addr := stakevault.BytesToAddress([]byte("addr"))
	key := stakevault.BytesToBytes32([]byte("key"))
	v2 := stakevault.BytesToBytes32([]byte{2})

	// overwriting a key inside a nested checkpoint must leave the state
	// readable after the commit collapses the checkpoint stack
	st := New(db)
	st.NewCheckpoint()
	st.NewCheckpoint()
	require.NoError(t, st.SetStorage(addr, key, stakevault.BytesToBytes32([]byte{1})))
	require.NoError(t, st.SetStorage(addr, key, v2))
	require.NoError(t, st.Commit())

	got, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, v2, got)

	st2 := New(db)
	got, err = st2.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, v2, got)
}

func TestCommitPersists(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	addr := stakevault.BytesToAddress([]byte("addr"))
	key := stakevault.BytesToBytes32([]byte("key"))
	value := stakevault.BytesToBytes32([]byte("value"))

	st := New(db)
	require.NoError(t, st.SetStorage(addr, key, value))
	require.NoError(t, st.Commit())

	// a fresh state over the same store sees the committed value
	st2 := New(db)
	got, err := st2.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestCommitDeletes(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	addr := stakevault.BytesToAddress([]byte("addr"))
	key := stakevault.BytesToBytes32([]byte("key"))
	value := stakevault.BytesToBytes32([]byte("value"))

	st := New(db)
	require.NoError(t, st.SetStorage(addr, key, value))
	require.NoError(t, st.Commit())

	require.NoError(t, st.SetStorage(addr, key, stakevault.Bytes32{}))
	require.NoError(t, st.Commit())

	st2 := New(db)
	got, err := st2.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, stakevault.Bytes32{}, got)
}

func TestRevertedWritesNotCommitted(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	addr := stakevault.BytesToAddress([]byte("addr"))
	key := stakevault.BytesToBytes32([]byte("key"))

	st := New(db)
	checkpoint := st.NewCheckpoint()
	require.NoError(t, st.SetStorage(addr, key, stakevault.BytesToBytes32([]byte{1})))
	st.RevertTo(checkpoint)
	require.NoError(t, st.Commit())

	st2 := New(db)
	got, err := st2.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, stakevault.Bytes32{}, got)
}

func TestCommitResetsJournal(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	addr := stakevault.BytesToAddress([]byte("addr"))
	k1 := stakevault.BytesToBytes32([]byte("k1"))
	k2 := stakevault.BytesToBytes32([]byte("k2"))

	st := New(db)
	require.NoError(t, st.SetStorage(addr, k1, stakevault.BytesToBytes32([]byte{1})))
	require.NoError(t, st.Commit())

	// a second commit must not rewrite k1
	require.NoError(t, st.SetStorage(addr, k2, stakevault.BytesToBytes32([]byte{2})))
	require.NoError(t, st.Commit())

	st2 := New(db)
	got, err := st2.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, stakevault.BytesToBytes32([]byte{1}), got)
	got, err = st2.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.Equal(t, stakevault.BytesToBytes32([]byte{2}), got)
}
