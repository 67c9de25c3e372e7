// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the HTTP surface of the vault: the staking
// flows, the administrative endpoints, the event journal queries and the
// metrics handler.
package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/eventdb"
	"github.com/stakevault/stakevault/metrics"
	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/stakevault"
)

// New assembles the complete handler. events may be nil when no journal
// is configured.
func New(svc *staking.Staking, events *eventdb.EventDB) http.Handler {
	router := mux.NewRouter()

	NewStakingAPI(svc).Mount(router, "/staking")
	NewAdminAPI(svc).Mount(router, "/admin")
	if events != nil {
		(&eventsAPI{events}).Mount(router, "/events")
	}
	if handler := metrics.HTTPHandler(); handler != nil {
		router.Path("/metrics").Handler(handler)
	}

	return handlers.CompressHandler(router)
}

type eventsAPI struct {
	db *eventdb.EventDB
}

func (a *eventsAPI) handleQuery(w http.ResponseWriter, req *http.Request) error {
	var filter eventdb.Filter
	if q := req.URL.Query().Get("user"); q != "" {
		user, err := stakevault.ParseAddress(q)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "user"))
		}
		filter.User = user
	}
	if q := req.URL.Query().Get("asset"); q != "" {
		asset, err := stakevault.ParseAddress(q)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "asset"))
		}
		filter.Asset = asset
	}
	if q := req.URL.Query().Get("limit"); q != "" {
		limit, err := strconv.ParseUint(q, 10, 32)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "limit"))
		}
		filter.Limit = limit
	}

	events, err := a.db.Query(&filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, events)
}

func (a *eventsAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("events_query").
		HandlerFunc(utils.WrapHandlerFunc(a.handleQuery))
}
