// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists the observable vault events in sqlite, as an
// append-only journal with simple filtered queries. The journal is
// informational: losing it never affects the ledger.
package eventdb

import (
	"database/sql"
	"math/big"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/staking"
)

const schema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	type TEXT NOT NULL,
	user BLOB NOT NULL,
	asset BLOB NOT NULL,
	subID BLOB NOT NULL,
	amount TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS event_i1 ON event(user, asset);`

// EventDB is the sqlite-backed event journal.
type EventDB struct {
	db *sql.DB
}

var _ staking.EventSink = (*EventDB)(nil)

// New open or create the journal at the given path.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=wal&cache=shared")
	if err != nil {
		return nil, errors.Wrap(err, "open event db")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create event schema")
	}
	return &EventDB{db: db}, nil
}

// NewMem create a journal in memory.
func NewMem() (*EventDB, error) {
	return New("file::memory:")
}

// Append implements staking.EventSink.
func (e *EventDB) Append(ev *staking.Event) error {
	subID := new(big.Int)
	if ev.SubID != nil {
		subID = ev.SubID
	}
	_, err := e.db.Exec(
		"INSERT INTO event(ts, type, user, asset, subID, amount) VALUES(?,?,?,?,?,?)",
		int64(ev.Time),
		string(ev.Type),
		ev.User.Bytes(),
		ev.Asset.Bytes(),
		stakevault.BytesToBytes32(subID.Bytes()).Bytes(),
		ev.Amount.String(),
	)
	return errors.Wrap(err, "append event")
}

// Filter narrows a query. Nil fields match everything.
type Filter struct {
	User  *stakevault.Address
	Asset *stakevault.Address
	Limit uint64
}

// Query returns matching events in append order.
func (e *EventDB) Query(f *Filter) ([]*staking.Event, error) {
	query := "SELECT ts, type, user, asset, subID, amount FROM event"
	var (
		conds []string
		args  []any
	)
	if f != nil && f.User != nil {
		conds = append(conds, "user = ?")
		args = append(args, f.User.Bytes())
	}
	if f != nil && f.Asset != nil {
		conds = append(conds, "asset = ?")
		args = append(args, f.Asset.Bytes())
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY seq"
	if f != nil && f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, int64(f.Limit))
	}

	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*staking.Event
	for rows.Next() {
		var (
			ts                 int64
			typ, amount        string
			user, asset, subID []byte
		)
		if err := rows.Scan(&ts, &typ, &user, &asset, &subID, &amount); err != nil {
			return nil, err
		}
		amt, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, errors.Errorf("corrupted amount %q", amount)
		}
		events = append(events, &staking.Event{
			Type:   staking.EventType(typ),
			User:   stakevault.BytesToAddress(user),
			Asset:  stakevault.BytesToAddress(asset),
			SubID:  new(big.Int).SetBytes(subID),
			Amount: amt,
			Time:   uint64(ts),
		})
	}
	return events, rows.Err()
}

// Close closes the journal.
func (e *EventDB) Close() error {
	return e.db.Close()
}
