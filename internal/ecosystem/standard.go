package ecosystem

import "codestamp/internal/runner"

// Tools names the executables and files the standard inspectors use.
type Tools struct {
	Python   string // Interpreter backing pip
	Conda    string
	Dir      string // Workspace root, for relative lock files
	Lockfile string
}

// Standard returns the built-in inspectors in record order: pip, conda,
// poetry.
func Standard(exec runner.Executor, tools Tools) []Inspector {
	return []Inspector{
		NewPip(exec, tools.Python),
		NewConda(exec, tools.Conda),
		NewPoetry(tools.Dir, tools.Lockfile),
	}
}
