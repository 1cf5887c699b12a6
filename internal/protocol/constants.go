package protocol

const (
	ServerName    = "cargomcp"
	ServerVersion = "0.3.0"

	// MCP protocol revision implemented by the stdio server.
	Version = "2024-11-05"
)

const (
	ToolNameCheck    = "cargo_check"
	ToolNameClippy   = "cargo_clippy"
	ToolNameTest     = "cargo_test"
	ToolNameFmtCheck = "cargo_fmt_check"
	ToolNameBuild    = "cargo_build"
	ToolNameBench    = "cargo_bench"
	ToolNameAdd      = "cargo_add"
	ToolNameRemove   = "cargo_remove"
	ToolNameUpdate   = "cargo_update"
	ToolNameClean    = "cargo_clean"
	ToolNameRun      = "cargo_run"
)

// JSON-RPC 2.0 error codes used on the wire.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error kinds carried in error.data.kind so that callers can branch without
// parsing the human-readable message.
const (
	ErrorKindUnknownTool    = "UnknownTool"
	ErrorKindValidation     = "ValidationError"
	ErrorKindInvalidProject = "InvalidProject"
	ErrorKindSpawn          = "SpawnError"
)
