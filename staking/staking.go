// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking orchestrates the deposit, claim and withdrawal flows.
// Every operation is atomic: either the ledger mutation and the custody
// movement both take effect, or neither is retained. Rewards are
// computed on demand at claim and withdraw time; there is no background
// accrual.
package staking

import (
	"bytes"
	"math/big"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/accrual"
	"github.com/stakevault/stakevault/custody"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/params"
	"github.com/stakevault/stakevault/registry"
	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/storage"
)

var logger = log15.New("pkg", "staking")

// Storage namespaces of the services sharing the state.
var (
	registryAddr = stakevault.BytesToAddress([]byte("asset-registry"))
	paramsAddr   = stakevault.BytesToAddress([]byte("reward-params"))
	ledgerAddr   = stakevault.BytesToAddress([]byte("stake-ledger"))
)

// Staking is the top-level service. It owns the state context and
// threads it through every component call.
type Staking struct {
	authority stakevault.Address
	state     *state.State
	registry  *registry.Registry
	params    *params.Store
	ledger    *ledger.Ledger
	custodian custody.Custodian
	sink      EventSink

	mu sync.Mutex
	// sessionGID holds the goroutine running the current operation, zero
	// when idle. A reentrant call arriving from within a custody callback
	// runs on that goroutine and must be rejected before it reaches the
	// lock, where it would deadlock; callers on other goroutines queue on
	// the lock as usual.
	sessionGID atomic.Uint64
}

// New creates the service. authority is the only caller allowed to
// register assets and replace parameters. sink may be nil.
func New(authority stakevault.Address, st *state.State, custodian custody.Custodian, sink EventSink) *Staking {
	return &Staking{
		authority: authority,
		state:     st,
		registry:  registry.New(storage.NewContext(registryAddr, st)),
		params:    params.New(storage.NewContext(paramsAddr, st)),
		ledger:    ledger.New(storage.NewContext(ledgerAddr, st)),
		custodian: custodian,
		sink:      sink,
	}
}

// runSession serializes an operation against the shared state, rejects
// externally triggered reentrancy, and makes the operation atomic:
// on error every state mutation since entry is dropped, on success the
// whole mutation set is committed.
func (s *Staking) runSession(op string, fn func() error) (err error) {
	gid := goroutineID()
	if s.sessionGID.Load() == gid {
		return ErrReentrancy
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionGID.Store(gid)
	defer s.sessionGID.Store(0)

	start := time.Now()
	defer func() { recordOp(op, start, err) }()

	checkpoint := s.state.NewCheckpoint()
	if err = fn(); err != nil {
		s.state.RevertTo(checkpoint)
		return err
	}
	if err = s.state.Commit(); err != nil {
		s.state.RevertTo(checkpoint)
		return errors.Wrap(err, "commit")
	}
	return nil
}

// Deposit moves amount of the asset from the user into custody and
// records the stake. For fungible-amount assets the sub-identifier is
// forced to the zero sentinel; for unique tokens the amount is forced to
// one and the caller must own the token.
func (s *Staking) Deposit(user, asset stakevault.Address, subID, amount *big.Int, now uint64) error {
	return s.runSession("deposit", func() error {
		desc, found, err := s.registry.Describe(asset)
		if err != nil {
			return err
		}
		if !found || !desc.Accepted {
			return ErrUnsupportedAsset
		}

		switch desc.Kind {
		case stakevault.FungibleAmount:
			subID = stakevault.SentinelSubID()
		case stakevault.UniqueToken:
			amount = big.NewInt(1)
		case stakevault.FungiblePerID:
		default:
			return ErrUnsupportedAsset
		}
		if amount == nil || amount.Sign() <= 0 {
			return ErrBelowMinimum
		}

		p, err := s.params.Current()
		if err != nil {
			return err
		}
		if p.MinStake.Sign() > 0 && amount.Cmp(p.MinStake) < 0 {
			return ErrBelowMinimum
		}
		if p.MaxStakePerAsset.Sign() > 0 {
			total, err := s.ledger.Total(asset)
			if err != nil {
				return err
			}
			if total.Add(total, amount).Cmp(p.MaxStakePerAsset) > 0 {
				return ErrExceedsLimit
			}
		}

		rec, err := s.ledger.Get(user, asset, subID)
		if err != nil {
			return err
		}
		if rec != nil && rec.Kind != desc.Kind {
			// the asset was re-registered under another kind; the old
			// stake keeps its interpretation and cannot be topped up
			return ErrUnsupportedAsset
		}

		if desc.Kind == stakevault.UniqueToken {
			if rec != nil && rec.Principal.Sign() > 0 {
				return ErrNotOwner
			}
			owned, err := s.custodian.VerifyOwnership(asset, subID, user)
			if err != nil {
				return err
			}
			if !owned {
				return ErrNotOwner
			}
		}

		if err := s.custodian.TransferIn(desc.Kind, asset, subID, amount, user); err != nil {
			return errors.WithMessage(ErrTransferFailed, err.Error())
		}

		if err := s.ledger.OpenOrIncrease(user, asset, subID, amount, desc.Kind, now); err != nil {
			return err
		}

		s.emit(&Event{Type: EventStaked, User: user, Asset: asset, SubID: subID, Amount: amount, Time: now})
		logger.Debug("staked", "user", user, "asset", asset, "amount", amount)
		return nil
	})
}

// Claim pays out the reward accrued by the stake and advances its
// accrual clock. A claim with nothing accrued fails with ErrNoRewardsDue
// and changes nothing.
func (s *Staking) Claim(user, asset stakevault.Address, subID *big.Int, now uint64) (reward *big.Int, err error) {
	err = s.runSession("claim", func() error {
		var cerr error
		reward, cerr = s.claim(user, asset, subID, now)
		return cerr
	})
	return
}

// claim is the session-less claim flow, shared with Withdraw.
func (s *Staking) claim(user, asset stakevault.Address, subID *big.Int, now uint64) (*big.Int, error) {
	rec, err := s.ledger.Get(user, asset, subID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Principal.Sign() == 0 {
		return nil, ErrNoStake
	}

	p, err := s.params.Current()
	if err != nil {
		return nil, err
	}
	reward, err := accrual.Calc(rec, p, now)
	if err != nil {
		return nil, err
	}
	if reward.Sign() == 0 {
		return nil, ErrNoRewardsDue
	}

	// the reward asset balance of custody is not checked up front; a
	// declined payout aborts the claim
	if err := s.custodian.TransferOut(stakevault.FungibleAmount, p.RewardAssetID, stakevault.SentinelSubID(), reward, user); err != nil {
		return nil, errors.WithMessage(ErrTransferFailed, err.Error())
	}

	if err := s.ledger.SettleClaim(user, asset, subID, reward, now); err != nil {
		if errors.Is(err, ledger.ErrNoStake) {
			return nil, ErrNoStake
		}
		return nil, err
	}

	if reward.IsInt64() {
		metricRewardAmount().Observe(reward.Int64())
	}
	s.emit(&Event{Type: EventRewardClaimed, User: user, Asset: asset, SubID: subID, Amount: reward, Time: now})
	logger.Debug("reward claimed", "user", user, "asset", asset, "reward", reward)
	return reward, nil
}

// Withdraw returns the staked principal to the user and deletes the
// record. Accrued rewards are claimed first on a best-effort basis: a
// claim failure of any kind is discarded and never blocks the
// withdrawal.
func (s *Staking) Withdraw(user, asset stakevault.Address, subID *big.Int, now uint64) (principal *big.Int, err error) {
	err = s.runSession("withdraw", func() error {
		rec, err := s.ledger.Get(user, asset, subID)
		if err != nil {
			return err
		}
		if rec == nil || rec.Principal.Sign() == 0 {
			return ErrNoStake
		}

		p, err := s.params.Current()
		if err != nil {
			return err
		}
		if p.Cooldown > 0 && (now < rec.OpenedAt || now-rec.OpenedAt < p.Cooldown) {
			return ErrCooldownActive
		}

		checkpoint := s.state.NewCheckpoint()
		if _, cerr := s.claim(user, asset, subID, now); cerr != nil {
			s.state.RevertTo(checkpoint)
			logger.Debug("pre-withdraw claim skipped", "user", user, "asset", asset, "err", cerr)
		}

		if err := s.custodian.TransferOut(rec.Kind, asset, subID, rec.Principal, user); err != nil {
			return errors.WithMessage(ErrTransferFailed, err.Error())
		}

		principal, err = s.ledger.Close(user, asset, subID)
		if err != nil {
			if errors.Is(err, ledger.ErrNoStake) {
				return ErrNoStake
			}
			return err
		}

		s.emit(&Event{Type: EventUnstaked, User: user, Asset: asset, SubID: subID, Amount: principal, Time: now})
		logger.Debug("unstaked", "user", user, "asset", asset, "principal", principal)
		return nil
	})
	return
}

// RegisterAsset makes an asset acceptable for deposits. Authority only.
func (s *Staking) RegisterAsset(caller, asset stakevault.Address, kind stakevault.AssetKind) error {
	return s.runSession("register_asset", func() error {
		if caller != s.authority {
			return ErrUnauthorized
		}
		return s.registry.Register(asset, kind)
	})
}

// SetAssetAccepted flips the acceptance flag of a registered asset.
// Authority only.
func (s *Staking) SetAssetAccepted(caller, asset stakevault.Address, accepted bool) error {
	return s.runSession("set_asset_accepted", func() error {
		if caller != s.authority {
			return ErrUnauthorized
		}
		return s.registry.SetAccepted(asset, accepted)
	})
}

// SetParameters replaces the whole reward/limit configuration.
// Authority only.
func (s *Staking) SetParameters(caller stakevault.Address, p *params.Parameters) error {
	return s.runSession("set_parameters", func() error {
		if caller != s.authority {
			return ErrUnauthorized
		}
		return s.params.Set(p)
	})
}

// StakeOf returns the stake record and the reward it would pay if
// claimed at now. The record is nil when no stake exists.
func (s *Staking) StakeOf(user, asset stakevault.Address, subID *big.Int, now uint64) (*ledger.StakeRecord, *big.Int, error) {
	rec, err := s.ledger.Get(user, asset, subID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, new(big.Int), nil
	}
	p, err := s.params.Current()
	if err != nil {
		return nil, nil, err
	}
	pending, err := accrual.Calc(rec, p, now)
	if err != nil {
		return nil, nil, err
	}
	return rec, pending, nil
}

// TotalStaked returns the aggregate principal staked for an asset.
func (s *Staking) TotalStaked(asset stakevault.Address) (*big.Int, error) {
	return s.ledger.Total(asset)
}

// TotalRewardsPaid returns the vault-wide total of rewards ever paid.
func (s *Staking) TotalRewardsPaid() (*big.Int, error) {
	return s.ledger.PaidOut()
}

// DescribeAsset returns the registry descriptor of an asset.
func (s *Staking) DescribeAsset(asset stakevault.Address) (*registry.Descriptor, bool, error) {
	return s.registry.Describe(asset)
}

// Parameters returns the current configuration snapshot.
func (s *Staking) Parameters() (*params.Parameters, error) {
	return s.params.Current()
}

// goroutineID reads the numeric id out of the goroutine's stack header
// ("goroutine 18 [running]:"). Goroutine ids start at one, so zero is a
// safe idle marker.
func goroutineID() uint64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, _ := strconv.ParseUint(string(fields[1]), 10, 64)
	return id
}

func (s *Staking) emit(ev *Event) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Append(ev); err != nil {
		logger.Warn("event sink append failed", "type", ev.Type, "err", err)
	}
}
