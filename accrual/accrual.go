// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual computes the reward owed to a stake record at a point
// in time. The computation is pure: it reads the record and a parameter
// snapshot and produces a number, with no side effects. All divisions
// truncate toward zero; the floor semantics are part of the accounting
// contract and keep results reproducible.
package accrual

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/params"
	"github.com/stakevault/stakevault/stakevault"
)

// ErrArithmeticOverflow is returned when an intermediate product exceeds
// 256 bits. The operation aborts; values are never silently wrapped or
// saturated.
var ErrArithmeticOverflow = errors.New("arithmetic overflow")

var fixedPointScale = uint256.NewInt(1e18)

// Calc returns the reward owed, not yet paid, for the record at time now.
//
// base   = principal * baseRatePerYearPercent * stakeDuration / (secondsPerYear * 100)
// factor = decayRatePerInterval ^ wholeIntervals(stakeDuration)   (1e18 fixed point)
// reward = base * factor / 1e18
//
// The decay exponent counts whole intervals since the stake opened, not
// since the last claim: claiming frequently does not reset the decay
// clock. Elapsed time since the last accrual only gates the result; with
// nothing elapsed the reward is zero.
func Calc(rec *ledger.StakeRecord, p *params.Parameters, now uint64) (*big.Int, error) {
	if rec == nil || rec.Principal == nil || rec.Principal.Sign() == 0 {
		return new(big.Int), nil
	}
	if now <= rec.LastAccrualAt {
		return new(big.Int), nil
	}

	stakeDuration := now - rec.OpenedAt

	principal, overflow := uint256.FromBig(rec.Principal)
	if overflow {
		return nil, ErrArithmeticOverflow
	}

	base := new(uint256.Int)
	if _, overflow = base.MulOverflow(principal, uint256.NewInt(uint64(p.BaseRatePerYearPercent))); overflow {
		return nil, ErrArithmeticOverflow
	}
	if _, overflow = base.MulOverflow(base, uint256.NewInt(stakeDuration)); overflow {
		return nil, ErrArithmeticOverflow
	}
	base.Div(base, uint256.NewInt(uint64(stakevault.SecondsPerYear)*stakevault.PercentDivisor))

	factor, err := decayFactor(p, stakeDuration)
	if err != nil {
		return nil, err
	}

	reward := new(uint256.Int)
	if _, overflow = reward.MulDivOverflow(base, factor, fixedPointScale); overflow {
		return nil, ErrArithmeticOverflow
	}
	return reward.ToBig(), nil
}

// decayFactor computes decay^n at 1e18 fixed point, where n is the
// number of whole intervals in stakeDuration. A zero decay rate or a
// zero interval length disables decay (factor of one).
func decayFactor(p *params.Parameters, stakeDuration uint64) (*uint256.Int, error) {
	if p.DecayRatePerInterval == nil || p.DecayRatePerInterval.Sign() == 0 || p.IntervalLength == 0 {
		return fixedPointScale.Clone(), nil
	}
	decay, overflow := uint256.FromBig(p.DecayRatePerInterval)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return powScaled(decay, stakeDuration/p.IntervalLength)
}

// powScaled raises a 1e18 fixed-point base to an integer exponent by
// square-and-multiply, rescaling after every multiplication.
func powScaled(base *uint256.Int, n uint64) (*uint256.Int, error) {
	result := fixedPointScale.Clone()
	b := base.Clone()
	for n > 0 {
		if n&1 == 1 {
			if _, overflow := result.MulDivOverflow(result, b, fixedPointScale); overflow {
				return nil, ErrArithmeticOverflow
			}
		}
		n >>= 1
		if n > 0 {
			if _, overflow := b.MulDivOverflow(b, b, fixedPointScale); overflow {
				return nil, ErrArithmeticOverflow
			}
		}
	}
	return result, nil
}
