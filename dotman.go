// Package dotman implements a content-addressed version-control engine
// specialized for tracking a user's home-directory dotfiles: a working-set
// index, content-addressed object/snapshot stores, a ref namespace with
// reflog, a parallel status/diff engine, and stash/rebase state machines
// The API surface here plays the role go-git's own Repository and
// Worktree types play, adapted to dotman's simpler one-working-tree model.
package dotman

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/dotman-vcs/dotman/config"
	"github.com/dotman-vcs/dotman/index"
	"github.com/dotman-vcs/dotman/rebase"
	"github.com/dotman-vcs/dotman/remote"
	"github.com/dotman-vcs/dotman/scanner"
	"github.com/dotman-vcs/dotman/storage/objstore"
	"github.com/dotman-vcs/dotman/storage/refstore"
	"github.com/dotman-vcs/dotman/storage/snapshotstore"
)

const (
	metaDirName  = ".dotman"
	indexFile    = "index"
	configFile   = "config"
	stashFile    = "stash"
	rebaseFile   = "REBASE_STATE"
	mappingsFile = "remote-mappings.toml"
)

// Repository is an opened dotman repository: a home directory (the
// working tree) paired with its metadata directory under .dotman.
type Repository struct {
	Home     string
	RepoPath string
	Config   config.Config

	Refs   *refstore.Store
	Blobs  *objstore.Store
	Snaps  *snapshotstore.Store
	Index  *index.Index
	Remote *remote.Table

	logger zerolog.Logger
}

// SetLogger attaches logger to the repository and every subsystem that does
// nontrivial I/O, so a single call from a caller like the CLI's root command
// configures Debug/Warn output across the whole repository.
func (r *Repository) SetLogger(logger zerolog.Logger) {
	r.logger = logger
	r.Refs.SetLogger(logger)
	r.Blobs.SetLogger(logger)
	r.Snaps.SetLogger(logger)
	scanner.SetLogger(logger)
	rebase.SetLogger(logger)
}

// Init creates a new repository rooted at home, failing if one already
// exists there. The initial branch is "main", unborn (HEAD points at it
// before any commit exists).
func Init(home string) (*Repository, error) {
	repoPath := filepath.Join(home, metaDirName)
	if _, err := os.Stat(repoPath); err == nil {
		return nil, ErrAlreadyInitialized(repoPath)
	}
	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		return nil, fmt.Errorf("dotman: init: %w", err)
	}

	cfg := config.Default()

	refs, err := refstore.Open(repoPath)
	if err != nil {
		return nil, err
	}
	if err := refs.WriteHeadBranch("main"); err != nil {
		return nil, err
	}

	blobs, err := objstore.Open(repoPath, cfg.Core.CompressionLevel)
	if err != nil {
		return nil, err
	}
	snaps, err := snapshotstore.Open(repoPath, blobs, cfg.Core.CompressionLevel)
	if err != nil {
		return nil, err
	}
	remotes, err := remote.Open(filepath.Join(repoPath, mappingsFile))
	if err != nil {
		return nil, err
	}

	return &Repository{
		Home:     home,
		RepoPath: repoPath,
		Config:   cfg,
		Refs:     refs,
		Blobs:    blobs,
		Snaps:    snaps,
		Index:    index.New(),
		Remote:   remotes,
		logger:   zerolog.Nop(),
	}, nil
}

// Open loads an existing repository rooted at home.
func Open(home string) (*Repository, error) {
	repoPath := filepath.Join(home, metaDirName)
	if _, err := os.Stat(repoPath); err != nil {
		return nil, ErrNotARepository(home)
	}

	cfg, err := config.Load(filepath.Join(repoPath, configFile))
	if err != nil {
		return nil, err
	}

	refs, err := refstore.Open(repoPath)
	if err != nil {
		return nil, err
	}
	blobs, err := objstore.Open(repoPath, cfg.Core.CompressionLevel)
	if err != nil {
		return nil, err
	}
	snaps, err := snapshotstore.Open(repoPath, blobs, cfg.Core.CompressionLevel)
	if err != nil {
		return nil, err
	}
	idx, err := index.Load(filepath.Join(repoPath, indexFile))
	if err != nil {
		return nil, err
	}
	remotes, err := remote.Open(filepath.Join(repoPath, mappingsFile))
	if err != nil {
		return nil, err
	}

	return &Repository{
		Home:     home,
		RepoPath: repoPath,
		Config:   cfg,
		Refs:     refs,
		Blobs:    blobs,
		Snaps:    snaps,
		Index:    idx,
		Remote:   remotes,
		logger:   zerolog.Nop(),
	}, nil
}

// SaveIndex persists the repository's index to its canonical location.
func (r *Repository) SaveIndex() error {
	return r.Index.Save(filepath.Join(r.RepoPath, indexFile))
}

// Actor formats the configured user identity the way reflog entries and
// commit records expect it: "Name <email>".
func (r *Repository) Actor() string {
	return fmt.Sprintf("%s <%s>", r.Config.User.Name, r.Config.User.Email)
}
