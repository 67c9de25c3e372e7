// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger owns all mutation of stake state: the per-key stake
// records and the per-asset aggregate totals. The aggregate of an asset
// always equals the sum of record principals for that asset, updated in
// the same operation as every principal change.
package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/storage"
)

var (
	slotStakes  = stakevault.BytesToBytes32([]byte("stakes"))
	slotTotals  = stakevault.BytesToBytes32([]byte("asset-totals"))
	slotPaidOut = stakevault.BytesToBytes32([]byte("rewards-paid-out"))
)

// ErrNoStake is returned when the addressed stake record does not exist.
var ErrNoStake = errors.New("no stake")

// Ledger binder of the stake ledger storage namespace.
type Ledger struct {
	stakes  *storage.Mapping[stakeKey, *StakeRecord]
	totals  *storage.Mapping[stakevault.Address, *big.Int]
	paidOut *storage.Uint256
}

// New create a new ledger instance.
func New(sctx *storage.Context) *Ledger {
	return &Ledger{
		stakes:  storage.NewMapping[stakeKey, *StakeRecord](sctx, slotStakes),
		totals:  storage.NewMapping[stakevault.Address, *big.Int](sctx, slotTotals),
		paidOut: storage.NewUint256(sctx, slotPaidOut),
	}
}

// Get returns the stake record, or nil if none exists.
func (l *Ledger) Get(user, asset stakevault.Address, subID *big.Int) (*StakeRecord, error) {
	rec, err := l.stakes.Get(stakeKey{user, asset, subID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake record")
	}
	return rec, nil
}

// Total returns the aggregate principal currently staked for an asset.
func (l *Ledger) Total(asset stakevault.Address) (*big.Int, error) {
	total, err := l.totals.Get(asset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get aggregate total")
	}
	if total == nil {
		total = new(big.Int)
	}
	return total, nil
}

// OpenOrIncrease creates the record on first deposit, or increases the
// principal of an existing one. Top-ups leave both timestamps untouched:
// the new principal joins the accrual clock of the existing stake, so
// unclaimed rewards on the old principal are preserved. The aggregate
// total is updated in the same call.
func (l *Ledger) OpenOrIncrease(user, asset stakevault.Address, subID, amount *big.Int, kind stakevault.AssetKind, now uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("non-positive amount")
	}

	key := stakeKey{user, asset, subID}
	rec, err := l.stakes.Get(key)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &StakeRecord{
			Principal:     new(big.Int).Set(amount),
			Kind:          kind,
			OpenedAt:      now,
			LastAccrualAt: now,
			RewardsPaid:   new(big.Int),
		}
	} else {
		if rec.Kind == stakevault.UniqueToken {
			return errors.New("unique token already staked")
		}
		rec.Principal = new(big.Int).Add(rec.Principal, amount)
	}
	if rec.Kind == stakevault.UniqueToken && rec.Principal.Cmp(big.NewInt(1)) != 0 {
		return errors.New("unique token principal must be one")
	}

	if err := l.stakes.Set(key, rec); err != nil {
		return err
	}
	return l.addTotal(asset, amount)
}

// SettleClaim advances the accrual clock after a reward payout.
func (l *Ledger) SettleClaim(user, asset stakevault.Address, subID, rewardPaid *big.Int, now uint64) error {
	key := stakeKey{user, asset, subID}
	rec, err := l.stakes.Get(key)
	if err != nil {
		return err
	}
	if rec == nil || rec.Principal.Sign() == 0 {
		return ErrNoStake
	}
	if now < rec.LastAccrualAt {
		return errors.New("accrual clock must not go backwards")
	}

	rec.LastAccrualAt = now
	rec.RewardsPaid = new(big.Int).Add(rec.RewardsPaid, rewardPaid)
	if err := l.stakes.Set(key, rec); err != nil {
		return err
	}
	return l.paidOut.Add(rewardPaid)
}

// PaidOut returns the vault-wide total of rewards ever paid.
func (l *Ledger) PaidOut() (*big.Int, error) {
	return l.paidOut.Get()
}

// Close deletes the record entirely and returns its principal. The
// aggregate total is decreased in the same call.
func (l *Ledger) Close(user, asset stakevault.Address, subID *big.Int) (*big.Int, error) {
	key := stakeKey{user, asset, subID}
	rec, err := l.stakes.Get(key)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Principal.Sign() == 0 {
		return nil, ErrNoStake
	}

	if err := l.stakes.Delete(key); err != nil {
		return nil, err
	}
	if err := l.subTotal(asset, rec.Principal); err != nil {
		return nil, err
	}
	return rec.Principal, nil
}

func (l *Ledger) addTotal(asset stakevault.Address, amount *big.Int) error {
	total, err := l.Total(asset)
	if err != nil {
		return err
	}
	return l.totals.Set(asset, total.Add(total, amount))
}

func (l *Ledger) subTotal(asset stakevault.Address, amount *big.Int) error {
	total, err := l.Total(asset)
	if err != nil {
		return err
	}
	total.Sub(total, amount)
	if total.Sign() < 0 {
		return errors.New("aggregate total underflow")
	}
	if total.Sign() == 0 {
		return l.totals.Delete(asset)
	}
	return l.totals.Set(asset, total)
}
