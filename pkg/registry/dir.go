package registry

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/errors"
)

// ContentPrefix is the virtual mount point asset paths live under. A
// repository rooted at /srv/assets maps "/Game/Doors/BP_Door" to
// /srv/assets/Doors/BP_Door.blueprint.json and back.
const ContentPrefix = "/Game"

// Dir is a [Repository] over a directory tree of asset definition
// files. Queries rescan the tree; resolution reads the file mapped to
// the handle's asset path, so a Dir always reflects the current state
// of the filesystem.
type Dir struct {
	root string
}

// NewDir returns a repository rooted at the given directory. The
// directory does not have to exist yet; queries against a missing root
// simply find nothing.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root reports the directory the repository scans.
func (d *Dir) Root() string {
	return d.root
}

// QueryByKind walks the tree and returns a handle per definition file,
// sorted by asset path. Only [KindBlueprint] yields results.
func (d *Dir) QueryByKind(ctx context.Context, kind Kind) ([]Handle, error) {
	handles := make([]Handle, 0)
	if kind != KindBlueprint {
		return handles, nil
	}

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileSuffix) {
			return nil
		}
		assetPath, err := FileToAssetPath(d.root, path)
		if err != nil {
			return err
		}
		handles = append(handles, Handle{
			Name: strings.TrimSuffix(entry.Name(), FileSuffix),
			Path: assetPath,
			Kind: KindBlueprint,
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return make([]Handle, 0), nil
		}
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to scan %q", d.root)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].Path < handles[j].Path })
	return handles, nil
}

// Resolve loads the definition file mapped to the handle's asset path.
// A handle whose file has disappeared resolves to an asset-not-found
// error rather than a raw filesystem error.
func (d *Dir) Resolve(_ context.Context, h Handle) (*asset.ScriptAsset, error) {
	file, err := AssetPathToFile(d.root, h.Path)
	if err != nil {
		return nil, err
	}
	a, err := Load(file)
	if err != nil {
		if errors.Is(err, errors.ErrCodeFileNotFound) {
			return nil, errors.Wrap(errors.ErrCodeAssetNotFound, err, "asset %q is gone", h.Path)
		}
		return nil, err
	}
	return a, nil
}

// AssetPathToFile maps an asset's content path to the definition file
// that backs it under root.
func AssetPathToFile(root, assetPath string) (string, error) {
	rel, ok := strings.CutPrefix(assetPath, ContentPrefix+"/")
	if !ok || rel == "" {
		return "", errors.New(errors.ErrCodeInvalidPath,
			"asset path %q is not under %s", assetPath, ContentPrefix)
	}
	return filepath.Join(root, filepath.FromSlash(rel)) + FileSuffix, nil
}

// FileToAssetPath maps a definition file under root back to the asset's
// content path. It is the inverse of [AssetPathToFile].
func FileToAssetPath(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.New(errors.ErrCodeInvalidPath, "file %q is outside root %q", file, root)
	}
	if !strings.HasSuffix(rel, FileSuffix) {
		return "", errors.New(errors.ErrCodeInvalidPath, "file %q is not an asset definition", file)
	}
	rel = strings.TrimSuffix(rel, FileSuffix)
	return ContentPrefix + "/" + filepath.ToSlash(rel), nil
}
