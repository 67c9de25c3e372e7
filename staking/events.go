// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/stakevault/stakevault/stakevault"
)

// EventType names an observable vault event.
type EventType string

// Observable events. They are informational: consumers must not derive
// behavior from them that the ledger does not already guarantee.
const (
	EventStaked        EventType = "Staked"
	EventRewardClaimed EventType = "RewardClaimed"
	EventUnstaked      EventType = "Unstaked"
)

// Event is an observable record of a completed operation.
type Event struct {
	Type   EventType
	User   stakevault.Address
	Asset  stakevault.Address
	SubID  *big.Int
	Amount *big.Int
	Time   uint64
}

// EventSink receives events. A nil sink drops them.
type EventSink interface {
	Append(ev *Event) error
}
