// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/params"
	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/stakevault"
)

// AdminAPI exposes the administrative surface. The service itself
// enforces the authority check; this layer only transports the caller.
type AdminAPI struct {
	svc *staking.Staking
}

// NewAdminAPI creates the handler group for the administrative surface.
func NewAdminAPI(svc *staking.Staking) *AdminAPI {
	return &AdminAPI{svc: svc}
}

func (a *AdminAPI) handleRegisterAsset(w http.ResponseWriter, req *http.Request) error {
	var body RegisterAsset
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	if body.Accepted != nil && !*body.Accepted {
		if err := a.svc.SetAssetAccepted(body.Caller, body.Asset, false); err != nil {
			return convertError(err)
		}
		return utils.WriteJSON(w, utils.M{"accepted": false})
	}

	kind, err := stakevault.ParseAssetKind(body.Kind)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "kind"))
	}
	if err := a.svc.RegisterAsset(body.Caller, body.Asset, kind); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"accepted": true})
}

func (a *AdminAPI) handleSetParameters(w http.ResponseWriter, req *http.Request) error {
	var body Parameters
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller == nil {
		return utils.BadRequest(errors.New("caller: missing"))
	}

	p := &params.Parameters{
		BaseRatePerYearPercent: body.BaseRatePerYearPercent,
		DecayRatePerInterval:   toBig(body.DecayRatePerInterval),
		IntervalLength:         body.IntervalLength,
		RewardAssetID:          body.RewardAssetID,
		Cooldown:               body.Cooldown,
		MinStake:               toBig(body.MinStake),
		MaxStakePerAsset:       toBig(body.MaxStakePerAsset),
	}
	if err := a.svc.SetParameters(*body.Caller, p); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"updated": true})
}

func (a *AdminAPI) handleGetParameters(w http.ResponseWriter, _ *http.Request) error {
	p, err := a.svc.Parameters()
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &Parameters{
		BaseRatePerYearPercent: p.BaseRatePerYearPercent,
		DecayRatePerInterval:   fromBig(p.DecayRatePerInterval),
		IntervalLength:         p.IntervalLength,
		RewardAssetID:          p.RewardAssetID,
		Cooldown:               p.Cooldown,
		MinStake:               fromBig(p.MinStake),
		MaxStakePerAsset:       fromBig(p.MaxStakePerAsset),
	})
}

// Mount attaches the handlers to the given path prefix.
func (a *AdminAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/assets").
		Methods(http.MethodPost).
		Name("admin_register_asset").
		HandlerFunc(utils.WrapHandlerFunc(a.handleRegisterAsset))
	sub.Path("/parameters").
		Methods(http.MethodPost).
		Name("admin_set_parameters").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetParameters))
	sub.Path("/parameters").
		Methods(http.MethodGet).
		Name("admin_get_parameters").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetParameters))
}
