// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/custody/memcustody"
	"github.com/stakevault/stakevault/eventdb"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/staking"
	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/state"
)

var (
	authority = stakevault.BytesToAddress([]byte("authority"))
	vault     = stakevault.BytesToAddress([]byte("vault"))
	alice     = stakevault.BytesToAddress([]byte("alice"))
	gold      = stakevault.BytesToAddress([]byte("gold"))
	reward    = stakevault.BytesToAddress([]byte("reward"))
)

func newTestServer(t *testing.T) (*httptest.Server, *memcustody.Custodian) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	cust := memcustody.New(vault)
	cust.Mint(gold, nil, alice, big.NewInt(1_000_000))
	cust.Mint(reward, nil, vault, big.NewInt(1_000_000))

	svc := staking.New(authority, state.New(db), cust, events)
	srv := httptest.NewServer(New(svc, events))
	t.Cleanup(srv.Close)
	return srv, cust
}

func postJSON(t *testing.T, url string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func get(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func registerGold(t *testing.T, srv *httptest.Server) {
	status, _ := postJSON(t, srv.URL+"/admin/assets", map[string]any{
		"caller": authority.String(),
		"asset":  gold.String(),
		"kind":   "fungible",
	})
	require.Equal(t, http.StatusOK, status)
}

func TestDepositFlow(t *testing.T) {
	srv, cust := newTestServer(t)
	registerGold(t, srv)

	status, body := postJSON(t, srv.URL+"/staking/deposits", map[string]any{
		"user":   alice.String(),
		"asset":  gold.String(),
		"amount": "1000",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"staked": true}`, string(body))
	assert.Equal(t, big.NewInt(1000), cust.BalanceOf(gold, nil, vault))

	status, body = get(t, fmt.Sprintf("%s/staking/stakes/%s/%s/0", srv.URL, alice, gold))
	require.Equal(t, http.StatusOK, status)
	var stake Stake
	require.NoError(t, json.Unmarshal(body, &stake))
	assert.Equal(t, "fungible", stake.Kind)
	assert.Equal(t, big.NewInt(1000), (*big.Int)(stake.Principal))

	status, body = get(t, srv.URL+"/staking/totals/"+gold.String())
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"total": "0x3e8"}`, string(body))
}

func TestDepositUnknownAsset(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := postJSON(t, srv.URL+"/staking/deposits", map[string]any{
		"user":   alice.String(),
		"asset":  gold.String(),
		"amount": "1000",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDepositStrictBody(t *testing.T) {
	srv, _ := newTestServer(t)
	registerGold(t, srv)

	status, _ := postJSON(t, srv.URL+"/staking/deposits", map[string]any{
		"user":    alice.String(),
		"asset":   gold.String(),
		"amount":  "1000",
		"unknown": true,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStakeNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := get(t, fmt.Sprintf("%s/staking/stakes/%s/%s/0", srv.URL, alice, gold))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = postJSON(t, srv.URL+"/staking/withdrawals", map[string]any{
		"user":  alice.String(),
		"asset": gold.String(),
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminForbidden(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := postJSON(t, srv.URL+"/admin/assets", map[string]any{
		"caller": alice.String(),
		"asset":  gold.String(),
		"kind":   "fungible",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = postJSON(t, srv.URL+"/admin/parameters", map[string]any{
		"caller":                 alice.String(),
		"baseRatePerYearPercent": 10,
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestParametersRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := postJSON(t, srv.URL+"/admin/parameters", map[string]any{
		"caller":                 authority.String(),
		"baseRatePerYearPercent": 10,
		"rewardAssetId":          reward.String(),
		"cooldown":               3600,
		"minStake":               "100",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := get(t, srv.URL+"/admin/parameters")
	require.Equal(t, http.StatusOK, status)
	var p Parameters
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, uint32(10), p.BaseRatePerYearPercent)
	assert.Equal(t, reward, p.RewardAssetID)
	assert.Equal(t, uint64(3600), p.Cooldown)
	assert.Equal(t, big.NewInt(100), (*big.Int)(p.MinStake))
}

func TestEventsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	registerGold(t, srv)

	status, _ := postJSON(t, srv.URL+"/staking/deposits", map[string]any{
		"user":   alice.String(),
		"asset":  gold.String(),
		"amount": "1000",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := get(t, srv.URL+"/events?user="+alice.String())
	require.Equal(t, http.StatusOK, status)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Staked", events[0]["Type"])

	status, _ = get(t, srv.URL+"/events?user=oops")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRewardsPaidEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := get(t, srv.URL+"/staking/rewards-paid")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"paid": "0x0"}`, string(body))
}
