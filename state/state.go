// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides structured storage for services, with
// checkpoint/revert in save-restore manner and batched commit to the
// underlying key-value store. All mutations stay in memory until Commit.
package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/stackedmap"
	"github.com/stakevault/stakevault/stakevault"
)

// storage trie name prefix of persisted keys.
const storageKeyPrefix = "s"

type storageKey struct {
	addr stakevault.Address
	key  stakevault.Bytes32
}

func (k storageKey) persistKey() []byte {
	b := make([]byte, 0, 1+stakevault.AddressLength+32)
	b = append(b, storageKeyPrefix...)
	b = append(b, k.addr.Bytes()...)
	b = append(b, k.key.Bytes()...)
	return b
}

// State manages the persisted state of all services.
type State struct {
	kv kv.GetPutter
	sm *stackedmap.StackedMap
}

// New create state object.
func New(store kv.GetPutter) *State {
	state := State{kv: store}
	state.sm = stackedmap.New(func(key interface{}) (interface{}, bool, error) {
		raw, err := store.Get(key.(storageKey).persistKey())
		if err != nil {
			if store.IsNotFound(err) {
				return rlp.RawValue(nil), true, nil
			}
			return nil, false, err
		}
		return rlp.RawValue(raw), true, nil
	})
	// base level, so that journal of committed-but-unflushed writes
	// survives checkpoint reverts
	state.sm.Push()
	return &state
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr stakevault.Address, key stakevault.Bytes32) (rlp.RawValue, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	return raw.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr stakevault.Address, key stakevault.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr stakevault.Address, key stakevault.Bytes32) (stakevault.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return stakevault.Bytes32{}, err
	}
	if len(raw) == 0 {
		return stakevault.Bytes32{}, nil
	}
	var content []byte
	if err := rlp.DecodeBytes(raw, &content); err != nil {
		return stakevault.Bytes32{}, err
	}
	return stakevault.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
// The all-zero value leads to deletion of the entry.
func (s *State) SetStorage(addr stakevault.Address, key, value stakevault.Bytes32) error {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return nil
	}
	v, err := rlp.EncodeToBytes(trimLeadingZeros(value.Bytes()))
	if err != nil {
		return err
	}
	s.SetRawStorage(addr, key, v)
	return nil
}

// EncodeStorage set storage value encoded by given enc method.
// An empty encoded value leads to deletion of the entry.
func (s *State) EncodeStorage(addr stakevault.Address, key stakevault.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return err
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// dec will be passed a nil byte slice if the entry does not exist.
func (s *State) DecodeStorage(addr stakevault.Address, key stakevault.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts to the given checkpoint revision.
// All mutations since the checkpoint are dropped.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit flushes all retained mutations into the underlying kv store in
// one batch, then resets the in-memory journal.
func (s *State) Commit() error {
	batch := s.kv.NewBatch()

	var jerr error
	s.sm.Journal(func(key, value interface{}) bool {
		raw := value.(rlp.RawValue)
		pk := key.(storageKey).persistKey()
		if len(raw) == 0 {
			jerr = batch.Delete(pk)
		} else {
			jerr = batch.Put(pk, raw)
		}
		return jerr == nil
	})
	if jerr != nil {
		return jerr
	}
	if err := batch.Write(); err != nil {
		return err
	}

	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
