package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/pack"
	"github.com/matzehuels/circlepack/pkg/store"
)

// Config holds user-level defaults loaded from a TOML file. Flags always
// take precedence over config values, which take precedence over the
// built-in defaults.
type Config struct {
	Pack  PackConfig  `toml:"pack"`
	Store StoreConfig `toml:"store"`
	Serve ServeConfig `toml:"serve"`
}

// PackConfig provides default simulation parameters.
type PackConfig struct {
	Count      int     `toml:"count"`
	MinRadius  float64 `toml:"min_radius"`
	MaxRadius  float64 `toml:"max_radius"`
	Algorithm  string  `toml:"algorithm"`
	Iterations int     `toml:"iterations"`
	Damping    float64 `toml:"damping"`
	Decay      float64 `toml:"decay"`
	Tolerance  float64 `toml:"tolerance"`
}

// StoreConfig selects and configures the scene store backend.
type StoreConfig struct {
	// Backend is one of "file" (default), "memory", or "mongo".
	Backend string `toml:"backend"`

	// Dir is the file backend's scene directory. Empty means the default
	// under the user's data directory.
	Dir string `toml:"dir"`

	Mongo MongoConfig `toml:"mongo"`
	Redis RedisConfig `toml:"redis"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// RedisConfig configures the optional scene index. An empty Addr disables
// the index.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() Config {
	return Config{
		Pack: PackConfig{
			Count:      16,
			MinRadius:  1,
			MaxRadius:  3,
			Algorithm:  pack.AlgorithmDouble.String(),
			Iterations: pack.DefaultIterations,
			Damping:    pack.DefaultDamping,
			Decay:      pack.DefaultDecay,
		},
		Store: StoreConfig{Backend: "file"},
		Serve: ServeConfig{Addr: ":8722"},
	}
}

// defaultConfigPath returns ~/.config/circlepack/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "circlepack", "config.toml"), nil
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, err
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// configFromCommand loads the config selected by the persistent --config
// flag.
func configFromCommand(cmd *cobra.Command) (Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return LoadConfig(path)
}

// openStore constructs the scene store selected by cfg.
func openStore(cmd *cobra.Command, cfg Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "", "file":
		return store.NewFileStore(cfg.Store.Dir)
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		return store.NewMongoStore(cmd.Context(), store.MongoConfig{
			URI:        cfg.Store.Mongo.URI,
			Database:   cfg.Store.Mongo.Database,
			Collection: cfg.Store.Mongo.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// openIndex constructs the optional Redis scene index. It returns nil when
// no index is configured.
func openIndex(cmd *cobra.Command, cfg Config) (*store.Index, error) {
	if cfg.Store.Redis.Addr == "" {
		return nil, nil
	}
	return store.NewIndex(cmd.Context(), store.IndexConfig{
		Addr:     cfg.Store.Redis.Addr,
		Password: cfg.Store.Redis.Password,
		DB:       cfg.Store.Redis.DB,
	})
}
