package cargo

// CommonArgs are the fields every tool accepts. Path is always required;
// Toolchain and CargoEnv are optional on every schema.
type CommonArgs struct {
	// Path is the caller-supplied project directory. It is resolved and
	// checked by ResolveProject before any process spec is constructed.
	Path string
	// Toolchain overrides the server-wide default for this invocation.
	Toolchain string
	// CargoEnv is the explicit environment overlay for the child process.
	// The child never inherits the server's ambient environment beyond
	// what is needed to locate the cargo binary.
	CargoEnv map[string]string
}

// Arguments is the closed set of validated per-tool argument records.
// Each tool has its own variant so downstream code cannot read a field the
// tool does not have. The unexported method seals the set.
type Arguments interface {
	Common() CommonArgs
	sealed()
}

type CheckArgs struct {
	CommonArgs
	Package string
}

type ClippyArgs struct {
	CommonArgs
	Package string
	Fix     bool
}

type TestArgs struct {
	CommonArgs
	Package   string
	TestName  string
	NoCapture bool
}

type FmtCheckArgs struct {
	CommonArgs
}

type BuildArgs struct {
	CommonArgs
	Package string
	Release bool
}

type BenchArgs struct {
	CommonArgs
	Package   string
	BenchName string
	Baseline  string
}

type AddArgs struct {
	CommonArgs
	Dependencies []string
	Package      string
	Dev          bool
	Optional     bool
	Features     []string
}

type RemoveArgs struct {
	CommonArgs
	Dependencies []string
	Package      string
	Dev          bool
}

type UpdateArgs struct {
	CommonArgs
	Package      string
	Dependencies []string
	DryRun       bool
}

type CleanArgs struct {
	CommonArgs
	Package string
}

type RunArgs struct {
	CommonArgs
	Package           string
	Bin               string
	Example           string
	Release           bool
	Features          string
	AllFeatures       bool
	NoDefaultFeatures bool
	Args              []string
}

func (a CheckArgs) Common() CommonArgs    { return a.CommonArgs }
func (a ClippyArgs) Common() CommonArgs   { return a.CommonArgs }
func (a TestArgs) Common() CommonArgs     { return a.CommonArgs }
func (a FmtCheckArgs) Common() CommonArgs { return a.CommonArgs }
func (a BuildArgs) Common() CommonArgs    { return a.CommonArgs }
func (a BenchArgs) Common() CommonArgs    { return a.CommonArgs }
func (a AddArgs) Common() CommonArgs      { return a.CommonArgs }
func (a RemoveArgs) Common() CommonArgs   { return a.CommonArgs }
func (a UpdateArgs) Common() CommonArgs   { return a.CommonArgs }
func (a CleanArgs) Common() CommonArgs    { return a.CommonArgs }
func (a RunArgs) Common() CommonArgs      { return a.CommonArgs }

func (CheckArgs) sealed()    {}
func (ClippyArgs) sealed()   {}
func (TestArgs) sealed()     {}
func (FmtCheckArgs) sealed() {}
func (BuildArgs) sealed()    {}
func (BenchArgs) sealed()    {}
func (AddArgs) sealed()      {}
func (RemoveArgs) sealed()   {}
func (UpdateArgs) sealed()   {}
func (CleanArgs) sealed()    {}
func (RunArgs) sealed()      {}
