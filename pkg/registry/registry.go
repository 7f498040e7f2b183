package registry

import (
	"context"

	"github.com/mverhagen/bpdoc/pkg/asset"
)

// Kind discriminates asset categories in a repository. The exporter
// currently understands a single kind, but the repository API keeps the
// discriminator explicit so filtering stays cheap for mixed content
// stores.
type Kind string

// KindBlueprint identifies visual-script graph assets, the only kind
// the encoder can serialize.
const KindBlueprint Kind = "Blueprint"

// Handle is a lightweight reference to an asset: enough to display it,
// sort it, and resolve it later. Handles are plain values and safe to
// copy.
type Handle struct {
	// Name is the short asset name, e.g. "BP_Door".
	Name string

	// Path is the asset's logical content path, e.g. "/Game/Doors/BP_Door".
	// Paths are unique within a repository.
	Path string

	// Kind is the asset category.
	Kind Kind
}

// Repository enumerates assets and resolves handles into full models.
//
// Implementations must be safe for concurrent use. Resolve returns an
// error carrying [errors.ErrCodeAssetNotFound] when the handle no
// longer refers to a live asset.
type Repository interface {
	// QueryByKind lists all assets of the given kind. The result order
	// is deterministic for a given repository state.
	QueryByKind(ctx context.Context, kind Kind) ([]Handle, error)

	// Resolve loads the full asset model behind a handle.
	Resolve(ctx context.Context, h Handle) (*asset.ScriptAsset, error)
}
