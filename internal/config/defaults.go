package config

// Storage backends
const (
	StorageNone     = "none"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Default values for configuration
const (
	DefaultLogLevel     = "info"
	DefaultRoot         = "."
	DefaultVersionFile  = "version.json"
	DefaultVersion      = "1.0.1"
	DefaultMode         = "static"
	DefaultExtension    = ".html"
	DefaultConfigScript = "config.js"
	DefaultJSLoader     = "loadJS"
	DefaultCSSLoader    = "loadCSS"
	DefaultStorageType  = StorageNone
	DefaultSQLitePath   = ".assetstamp/history.db"
	DefaultPostgresPort = 5432
	DefaultPostgresSSL  = "disable"
)

// NewDefault creates a new Config with all default values applied.
func NewDefault() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:       DefaultLogLevel,
			Root:           DefaultRoot,
			VersionFile:    DefaultVersionFile,
			DefaultVersion: DefaultVersion,
		},
		Rewrite: RewriteConfig{
			Mode:         DefaultMode,
			Extension:    DefaultExtension,
			ConfigScript: DefaultConfigScript,
			JSLoader:     DefaultJSLoader,
			CSSLoader:    DefaultCSSLoader,
		},
		Storage: StorageConfig{
			Type: DefaultStorageType,
			SQLite: SQLiteConfig{
				Path: DefaultSQLitePath,
			},
			Postgres: PostgresConfig{
				Port:    DefaultPostgresPort,
				SSLMode: DefaultPostgresSSL,
			},
		},
	}
}

// ApplyDefaults fills in default values for any unset configuration options.
func ApplyDefaults(cfg *Config) {
	// General defaults
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = DefaultLogLevel
	}
	if cfg.General.Root == "" {
		cfg.General.Root = DefaultRoot
	}
	if cfg.General.VersionFile == "" {
		cfg.General.VersionFile = DefaultVersionFile
	}
	if cfg.General.DefaultVersion == "" {
		cfg.General.DefaultVersion = DefaultVersion
	}

	// Rewrite defaults
	if cfg.Rewrite.Mode == "" {
		cfg.Rewrite.Mode = DefaultMode
	}
	if cfg.Rewrite.Extension == "" {
		cfg.Rewrite.Extension = DefaultExtension
	}
	if cfg.Rewrite.ConfigScript == "" {
		cfg.Rewrite.ConfigScript = DefaultConfigScript
	}
	if cfg.Rewrite.JSLoader == "" {
		cfg.Rewrite.JSLoader = DefaultJSLoader
	}
	if cfg.Rewrite.CSSLoader == "" {
		cfg.Rewrite.CSSLoader = DefaultCSSLoader
	}

	// Storage defaults
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = DefaultStorageType
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.Postgres.Port == 0 {
		cfg.Storage.Postgres.Port = DefaultPostgresPort
	}
	if cfg.Storage.Postgres.SSLMode == "" {
		cfg.Storage.Postgres.SSLMode = DefaultPostgresSSL
	}
}
