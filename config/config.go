// Package config loads dotman's configuration surface: user identity,
// core storage knobs, performance tuning, tracking behavior, pager
// selection, and remote/branch mappings. Values are read from an
// INI-style file via go-git/gcfg, layered with defaults and environment
// overrides via dario.cat/mergo.
package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/go-git/gcfg"
)

// Compression selects the block compressor used for objects and snapshots.
// dotman only ever speaks zstd, but the field is kept distinct from
// the numeric level for forward compatibility with the config file shape.
type Compression string

const ZstdCompression Compression = "zstd"

// Config is dotman's full configuration surface, assembled from defaults,
// an on-disk file, and environment overrides, in that precedence order.
type Config struct {
	User        User
	Core        Core
	Performance Performance
	Tracking    Tracking
	Pager       Pager
	Remotes     map[string]Remote
	Branches    map[string]BranchTracking
}

type User struct {
	Name  string
	Email string
}

type Core struct {
	RepoPath         string
	Compression      Compression
	CompressionLevel int
	Pager            string
}

type Performance struct {
	ParallelThreads int
	MmapThreshold   int64
	UseHardLinks    bool
}

type Tracking struct {
	FollowSymlinks      bool
	PreservePermissions bool
	IgnorePatterns      []string
}

// Pager holds the per-command pager enablement and overrides:
// "pager.{log,diff,show,branch,status}" and "pager.{log,diff}_pager".
type Pager struct {
	Log    bool
	Diff   bool
	Show   bool
	Branch bool
	Status bool

	LogPager  string
	DiffPager string

	MinLines int
	Auto     bool
}

type RemoteType string

const (
	RemoteGit  RemoteType = "git"
	RemoteNone RemoteType = "none"
)

type Remote struct {
	Type RemoteType
	URL  string
}

type BranchTracking struct {
	Remote string
	Branch string
}

// gcfgShape mirrors Config's field names in gcfg's section/subsection/key
// convention, since gcfg unmarshals into exported struct fields matching
// "[section]\nkey = value" or "[section \"subsection\"]\nkey = value".
type gcfgShape struct {
	User struct {
		Name  string
		Email string
	}
	Core struct {
		RepoPath         string `gcfg:"repo-path"`
		Compression      string `gcfg:"compression"`
		CompressionLevel int    `gcfg:"compression-level"`
		Pager            string `gcfg:"pager"`
	}
	Performance struct {
		ParallelThreads int   `gcfg:"parallel-threads"`
		MmapThreshold   int64 `gcfg:"mmap-threshold"`
		UseHardLinks    bool  `gcfg:"use-hard-links"`
	}
	Tracking struct {
		FollowSymlinks      bool     `gcfg:"follow-symlinks"`
		PreservePermissions bool     `gcfg:"preserve-permissions"`
		IgnorePatterns      []string `gcfg:"ignore-patterns"`
	}
	Pager struct {
		Log       bool   `gcfg:"log"`
		Diff      bool   `gcfg:"diff"`
		Show      bool   `gcfg:"show"`
		Branch    bool   `gcfg:"branch"`
		Status    bool   `gcfg:"status"`
		LogPager  string `gcfg:"log-pager"`
		DiffPager string `gcfg:"diff-pager"`
		MinLines  int    `gcfg:"min-lines"`
		Auto      bool   `gcfg:"auto"`
	}
	Remotes map[string]*struct {
		Type string
		URL  string
	} `gcfg:"remotes"`
	Branches map[string]*struct {
		Remote string
		Branch string
	} `gcfg:"branches"`
}

// Default returns dotman's built-in configuration defaults, the base layer
// every other source is merged on top of.
func Default() Config {
	return Config{
		Core: Core{
			Compression:      ZstdCompression,
			CompressionLevel: 3,
		},
		Performance: Performance{
			MmapThreshold: 1 << 20,
		},
		Tracking: Tracking{
			PreservePermissions: true,
		},
		Pager: Pager{
			Log:      true,
			Diff:     true,
			Show:     true,
			Branch:   false,
			Status:   false,
			MinLines: 24,
			Auto:     true,
		},
		Remotes:  map[string]Remote{},
		Branches: map[string]BranchTracking{},
	}
}

// Load reads the config file at path (if present) and layers it and the
// environment on top of Default(). A missing file is not an error: it
// simply leaves the defaults (plus environment overrides) in effect.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var raw gcfgShape
			if err := gcfg.ReadFileInto(&raw, path); err != nil {
				return Config{}, fmt.Errorf("config: %w", err)
			}
			fromFile := fromGcfgShape(raw)
			if err := mergo.Merge(&cfg, fromFile, mergo.WithOverride); err != nil {
				return Config{}, fmt.Errorf("config: merge: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func fromGcfgShape(raw gcfgShape) Config {
	cfg := Config{
		User: User{Name: raw.User.Name, Email: raw.User.Email},
		Core: Core{
			RepoPath:         raw.Core.RepoPath,
			Compression:      Compression(raw.Core.Compression),
			CompressionLevel: raw.Core.CompressionLevel,
			Pager:            raw.Core.Pager,
		},
		Performance: Performance{
			ParallelThreads: raw.Performance.ParallelThreads,
			MmapThreshold:   raw.Performance.MmapThreshold,
			UseHardLinks:    raw.Performance.UseHardLinks,
		},
		Tracking: Tracking{
			FollowSymlinks:      raw.Tracking.FollowSymlinks,
			PreservePermissions: raw.Tracking.PreservePermissions,
			IgnorePatterns:      raw.Tracking.IgnorePatterns,
		},
		Pager: Pager{
			Log: raw.Pager.Log, Diff: raw.Pager.Diff, Show: raw.Pager.Show,
			Branch: raw.Pager.Branch, Status: raw.Pager.Status,
			LogPager: raw.Pager.LogPager, DiffPager: raw.Pager.DiffPager,
			MinLines: raw.Pager.MinLines, Auto: raw.Pager.Auto,
		},
		Remotes:  map[string]Remote{},
		Branches: map[string]BranchTracking{},
	}
	for name, r := range raw.Remotes {
		if r == nil {
			continue
		}
		cfg.Remotes[name] = Remote{Type: RemoteType(r.Type), URL: r.URL}
	}
	for branch, b := range raw.Branches {
		if b == nil {
			continue
		}
		cfg.Branches[branch] = BranchTracking{Remote: b.Remote, Branch: b.Branch}
	}
	return cfg
}

// applyEnv overlays the environment variables dotman recognizes: HOME feeds the
// default home directory elsewhere, while PAGER/GIT_PAGER/DOT_PAGER and
// per-command DOT_<CMD>_PAGER variables are resolved at pager-selection
// time, not here (see package pager). applyEnv only covers the config
// values with a direct environment equivalent.
func applyEnv(cfg *Config) {
	if name := os.Getenv("DOT_USER_NAME"); name != "" {
		cfg.User.Name = name
	}
	if email := os.Getenv("DOT_USER_EMAIL"); email != "" {
		cfg.User.Email = email
	}
}
