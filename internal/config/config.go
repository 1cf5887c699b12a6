package config

// DefaultConfigFile is looked up in the current directory unless --config
// points elsewhere.
const DefaultConfigFile = ".cargomcp.toml"

// Config is the process-wide server configuration. It is loaded once at
// startup and treated as immutable afterwards; concurrent request handlers
// read it without synchronization.
type Config struct {
	// DefaultToolchain is inserted as the +<toolchain> argv token when a
	// request does not name one. Empty means use the system default.
	DefaultToolchain string `toml:"default_toolchain"`
	// StateDir enables the SQLite invocation audit log when non-empty.
	StateDir string `toml:"state_dir"`
	// TimeoutSeconds bounds each tool invocation; 0 disables the deadline.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// MaxOutputBytes caps each captured stream; 0 means unlimited.
	MaxOutputBytes int `toml:"max_output_bytes"`
	Verbose        bool `toml:"verbose"`
}

func Default() Config {
	return Config{
		MaxOutputBytes: 4 * 1024 * 1024,
	}
}

// DefaultTOML is written by `cargomcp config init`.
const DefaultTOML = `# cargomcp configuration

# Toolchain used when a request does not name one ("stable", "nightly", ...).
# Empty means the system default toolchain.
default_toolchain = ""

# Directory for the invocation audit database. Empty disables auditing.
state_dir = ""

# Per-invocation timeout in seconds. 0 means no deadline.
timeout_seconds = 0

# Cap on each captured output stream in bytes. 0 means unlimited.
max_output_bytes = 4194304

verbose = false
`
