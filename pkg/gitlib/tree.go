package gitlib

import (
	git2go "github.com/libgit2/git2go/v34"
)

// Tree wraps a libgit2 tree.
type Tree struct {
	tree *git2go.Tree
	repo *Repository
}

// Hash returns the tree hash.
func (t *Tree) Hash() Hash {
	return HashFromOid(t.tree.Id())
}

// TreeFile is one blob entry found while walking a tree.
type TreeFile struct {
	Path string
	Hash Hash
}

// Files returns all blob entries of the tree, recursively, in walk order.
func (t *Tree) Files() ([]TreeFile, error) {
	var files []TreeFile

	err := walkTree(t.repo, t, "", func(path string, hash Hash) {
		files = append(files, TreeFile{Path: path, Hash: hash})
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Free releases the tree resources.
func (t *Tree) Free() {
	if t.tree != nil {
		t.tree.Free()
		t.tree = nil
	}
}

// walkTree recursively walks a tree and calls the callback for each blob.
func walkTree(repo *Repository, tree *Tree, prefix string, cb func(path string, hash Hash)) error {
	count := tree.tree.EntryCount()

	for i := range count {
		entry := tree.tree.EntryByIndex(i)
		if entry == nil {
			continue
		}

		path := entry.Name
		if prefix != "" {
			path = prefix + "/" + path
		}

		switch entry.Type {
		case git2go.ObjectBlob:
			cb(path, HashFromOid(entry.Id))
		case git2go.ObjectTree:
			subtree, err := repo.lookupTree(HashFromOid(entry.Id))
			if err != nil {
				continue // Skip entries we can't look up.
			}

			walkErr := walkTree(repo, subtree, path, cb)
			subtree.Free()

			if walkErr != nil {
				return walkErr
			}
		default:
		}
	}

	return nil
}
