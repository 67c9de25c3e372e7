// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/pkg/errors"

// Sentinel errors of user-facing operations. Every operation fails fast
// and leaves state untouched on any of these; the single exception is
// the best-effort claim inside Withdraw, whose failure is discarded.
var (
	ErrUnsupportedAsset = errors.New("unsupported asset")
	ErrBelowMinimum     = errors.New("amount below minimum stake")
	ErrExceedsLimit     = errors.New("aggregate stake limit exceeded")
	ErrNotOwner         = errors.New("claimant does not own the token")
	ErrTransferFailed   = errors.New("custody transfer failed")
	ErrNoStake          = errors.New("no stake")
	ErrNoRewardsDue     = errors.New("no rewards due")
	ErrCooldownActive   = errors.New("cooldown active")
	ErrUnauthorized     = errors.New("caller is not the authority")
	ErrReentrancy       = errors.New("reentrant call rejected")
)
