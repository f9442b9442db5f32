package ecosystem

import (
	"encoding/json"
	"fmt"
)

// Unpinned is the version string Flatten uses for entries without a version.
const Unpinned = "(unpinned)"

// Flatten decodes a persisted snapshot by inspector name into a flat
// package -> version map. conda pip sub-dependencies are prefixed "pip:".
// Ecosystems without a package list yield nil.
func Flatten(name string, data json.RawMessage) (map[string]string, error) {
	switch name {
	case "pip_packages":
		var pkgs Packages
		if err := json.Unmarshal(data, &pkgs); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		flat := make(map[string]string, len(pkgs))
		addPackages(flat, "", pkgs)
		return flat, nil

	case "conda":
		var env CondaEnvironment
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		flat := make(map[string]string, len(env.Dependencies.Conda)+len(env.Dependencies.Pip))
		for pkg, info := range env.Dependencies.Conda {
			flat[pkg] = info.Version
		}
		addPackages(flat, "pip:", env.Dependencies.Pip)
		return flat, nil

	default:
		return nil, nil
	}
}

func addPackages(into map[string]string, prefix string, pkgs Packages) {
	for pkg, version := range pkgs {
		if version == nil {
			into[prefix+pkg] = Unpinned
			continue
		}
		into[prefix+pkg] = *version
	}
}
