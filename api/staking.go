// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"math/big"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/stakevault"
)

// StakingAPI exposes the staking flows over HTTP.
type StakingAPI struct {
	svc *staking.Staking
	now func() uint64
}

// NewStakingAPI creates the handler group for the staking flows.
func NewStakingAPI(svc *staking.Staking) *StakingAPI {
	return &StakingAPI{
		svc: svc,
		now: func() uint64 { return uint64(time.Now().Unix()) },
	}
}

func (a *StakingAPI) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var body Deposit
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.svc.Deposit(body.User, body.Asset, toBig(body.SubID), toBig(body.Amount), a.now()); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"staked": true})
}

func (a *StakingAPI) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body StakeRef
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	reward, err := a.svc.Claim(body.User, body.Asset, toBig(body.SubID), a.now())
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"reward": fromBig(reward)})
}

func (a *StakingAPI) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body StakeRef
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	principal, err := a.svc.Withdraw(body.User, body.Asset, toBig(body.SubID), a.now())
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"principal": fromBig(principal)})
}

func (a *StakingAPI) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	user, err := stakevault.ParseAddress(mux.Vars(req)["user"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "user"))
	}
	asset, err := stakevault.ParseAddress(mux.Vars(req)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	subID, ok := new(big.Int).SetString(mux.Vars(req)["sub"], 10)
	if !ok {
		return utils.BadRequest(errors.New("sub: invalid number"))
	}

	rec, pending, err := a.svc.StakeOf(*user, *asset, subID, a.now())
	if err != nil {
		return convertError(err)
	}
	if rec == nil {
		return utils.NotFound(staking.ErrNoStake)
	}
	return utils.WriteJSON(w, &Stake{
		Principal:     fromBig(rec.Principal),
		Kind:          rec.Kind.String(),
		OpenedAt:      rec.OpenedAt,
		LastAccrualAt: rec.LastAccrualAt,
		RewardsPaid:   fromBig(rec.RewardsPaid),
		PendingReward: fromBig(pending),
	})
}

func (a *StakingAPI) handleGetTotal(w http.ResponseWriter, req *http.Request) error {
	asset, err := stakevault.ParseAddress(mux.Vars(req)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	total, err := a.svc.TotalStaked(*asset)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"total": fromBig(total)})
}

func (a *StakingAPI) handleGetRewardsPaid(w http.ResponseWriter, _ *http.Request) error {
	paid, err := a.svc.TotalRewardsPaid()
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"paid": fromBig(paid)})
}

// Mount attaches the handlers to the given path prefix.
func (a *StakingAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/deposits").
		Methods(http.MethodPost).
		Name("staking_deposit").
		HandlerFunc(utils.WrapHandlerFunc(a.handleDeposit))
	sub.Path("/claims").
		Methods(http.MethodPost).
		Name("staking_claim").
		HandlerFunc(utils.WrapHandlerFunc(a.handleClaim))
	sub.Path("/withdrawals").
		Methods(http.MethodPost).
		Name("staking_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(a.handleWithdraw))
	sub.Path("/stakes/{user}/{asset}/{sub}").
		Methods(http.MethodGet).
		Name("staking_get_stake").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStake))
	sub.Path("/totals/{asset}").
		Methods(http.MethodGet).
		Name("staking_get_total").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetTotal))
	sub.Path("/rewards-paid").
		Methods(http.MethodGet).
		Name("staking_get_rewards_paid").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetRewardsPaid))
}

// convertError maps domain errors onto http statuses.
func convertError(err error) error {
	switch {
	case errors.Is(err, staking.ErrNoStake):
		return utils.NotFound(err)
	case errors.Is(err, staking.ErrUnauthorized):
		return utils.Forbidden(err)
	case errors.Is(err, staking.ErrUnsupportedAsset),
		errors.Is(err, staking.ErrBelowMinimum),
		errors.Is(err, staking.ErrExceedsLimit),
		errors.Is(err, staking.ErrNotOwner),
		errors.Is(err, staking.ErrNoRewardsDue),
		errors.Is(err, staking.ErrCooldownActive),
		errors.Is(err, staking.ErrTransferFailed):
		return utils.BadRequest(err)
	case errors.Is(err, staking.ErrReentrancy):
		return utils.HTTPError(err, http.StatusConflict)
	default:
		return err
	}
}
