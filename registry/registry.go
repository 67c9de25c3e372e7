// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry maps asset identifiers to their kind and acceptance
// flag. An asset absent from the registry, or present but not accepted,
// is rejected for new deposits; existing stakes stay withdrawable.
package registry

import (
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/stakevault"
	"github.com/stakevault/stakevault/storage"
)

var slotAssets = stakevault.BytesToBytes32([]byte("assets"))

// Descriptor describes a registered asset.
type Descriptor struct {
	Kind     stakevault.AssetKind
	Accepted bool
}

// Registry binder of the asset registry storage namespace.
type Registry struct {
	assets *storage.Mapping[stakevault.Address, *Descriptor]
}

// New create a new registry instance.
func New(sctx *storage.Context) *Registry {
	return &Registry{
		assets: storage.NewMapping[stakevault.Address, *Descriptor](sctx, slotAssets),
	}
}

// Register stores the descriptor for an asset with accepted set to true.
// Re-registering overwrites any prior descriptor; a changed kind takes
// effect for future deposits only.
func (r *Registry) Register(asset stakevault.Address, kind stakevault.AssetKind) error {
	if !kind.Valid() {
		return errors.Errorf("invalid asset kind %d", kind)
	}
	return r.assets.Set(asset, &Descriptor{Kind: kind, Accepted: true})
}

// SetAccepted flips the acceptance flag of a registered asset, keeping
// its kind.
func (r *Registry) SetAccepted(asset stakevault.Address, accepted bool) error {
	desc, found, err := r.Describe(asset)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("asset not registered")
	}
	desc.Accepted = accepted
	return r.assets.Set(asset, desc)
}

// Describe returns the descriptor of an asset. The second return value
// reports whether the asset has ever been registered.
func (r *Registry) Describe(asset stakevault.Address) (*Descriptor, bool, error) {
	desc, err := r.assets.Get(asset)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get asset descriptor")
	}
	if desc == nil {
		return nil, false, nil
	}
	return desc, true, nil
}
