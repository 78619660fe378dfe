// Package typelib indexes a local checkout of the device type library: the
// per-manufacturer YAML definition trees for device types and module types,
// plus the elevation image tree. The index is built once per run and is
// read-only afterwards; resolvers fuzzy-match against its name lists.
package typelib

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/netgrid-labs/invsync/pkg/util"
)

const (
	deviceTypeDir = "device-types"
	moduleTypeDir = "module-types"
	imageDir      = "elevation-images"
)

// FileSet holds the definition files found under one manufacturer directory.
// Stems are lowercased filenames without extension, in sorted order, suitable
// as fuzzy-match candidates; Paths maps each stem back to its file.
type FileSet struct {
	Stems []string
	Paths map[string]string
}

func (fs *FileSet) add(stem, path string) {
	if fs.Paths == nil {
		fs.Paths = make(map[string]string)
	}
	if _, dup := fs.Paths[stem]; !dup {
		fs.Stems = append(fs.Stems, stem)
	}
	fs.Paths[stem] = path
}

// Empty reports whether the set holds no files.
func (fs *FileSet) Empty() bool { return len(fs.Stems) == 0 }

// Index is the library catalogue: manufacturer directory names and the
// per-manufacturer file sets for each tree.
type Index struct {
	root string

	// Manufacturers is the union of directory names across all three trees,
	// sorted, with original casing preserved.
	Manufacturers []string

	deviceTypes map[string]*FileSet
	moduleTypes map[string]*FileSet
	images      map[string]*FileSet
}

// Load scans the library checkout at root and builds the index. Trees and
// manufacturer directories may be missing or empty; that only narrows the
// candidate sets, it is not an error. A root with none of the three trees is
// rejected since it is almost certainly the wrong path.
func Load(root string) (*Index, error) {
	idx := &Index{
		root:        root,
		deviceTypes: make(map[string]*FileSet),
		moduleTypes: make(map[string]*FileSet),
		images:      make(map[string]*FileSet),
	}

	found := 0
	for _, tree := range []struct {
		dir  string
		dest map[string]*FileSet
	}{
		{deviceTypeDir, idx.deviceTypes},
		{moduleTypeDir, idx.moduleTypes},
		{imageDir, idx.images},
	} {
		ok, err := idx.scanTree(tree.dir, tree.dest)
		if err != nil {
			return nil, err
		}
		if ok {
			found++
		}
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: no device-types, module-types or elevation-images under %s",
			util.ErrMissingDataSource, root)
	}

	seen := make(map[string]bool)
	for _, m := range []map[string]*FileSet{idx.deviceTypes, idx.moduleTypes, idx.images} {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				idx.Manufacturers = append(idx.Manufacturers, name)
			}
		}
	}
	sort.Strings(idx.Manufacturers)

	util.Debugf("Type library indexed: %d manufacturers under %s", len(idx.Manufacturers), root)
	return idx, nil
}

func (idx *Index) scanTree(dir string, dest map[string]*FileSet) (bool, error) {
	entries, err := os.ReadDir(filepath.Join(idx.root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, mfr := range entries {
		if !mfr.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(idx.root, dir, mfr.Name()))
		if err != nil {
			return false, fmt.Errorf("reading %s/%s: %w", dir, mfr.Name(), err)
		}
		fs := &FileSet{}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			name := f.Name()
			ext := strings.ToLower(filepath.Ext(name))
			switch dir {
			case imageDir:
				if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
					continue
				}
			default:
				if ext != ".yaml" && ext != ".yml" {
					continue
				}
			}
			stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
			fs.add(stem, filepath.Join(idx.root, dir, mfr.Name(), name))
		}
		if !fs.Empty() {
			dest[mfr.Name()] = fs
		}
	}
	return true, nil
}

// DeviceTypes returns the device type definitions for a manufacturer
// directory name, or an empty set when the manufacturer has none.
func (idx *Index) DeviceTypes(manufacturer string) *FileSet {
	return idx.fileSet(idx.deviceTypes, manufacturer)
}

// ModuleTypes returns the module type definitions for a manufacturer.
func (idx *Index) ModuleTypes(manufacturer string) *FileSet {
	return idx.fileSet(idx.moduleTypes, manufacturer)
}

// Images returns the elevation images for a manufacturer.
func (idx *Index) Images(manufacturer string) *FileSet {
	return idx.fileSet(idx.images, manufacturer)
}

func (idx *Index) fileSet(m map[string]*FileSet, manufacturer string) *FileSet {
	if fs, ok := m[manufacturer]; ok {
		return fs
	}
	// Directory casing in the library does not always match vendor names
	// reported by discovery.
	for name, fs := range m {
		if strings.EqualFold(name, manufacturer) {
			return fs
		}
	}
	return &FileSet{}
}
