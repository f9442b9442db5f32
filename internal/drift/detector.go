// Package drift compares two state records: the commit they were captured at
// and the packages each ecosystem reported.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"codestamp/internal/ecosystem"
	"codestamp/internal/state"
)

// DriftType represents the type of package change.
type DriftType string

const (
	DriftAdded   DriftType = "added"   // Package in current but not baseline
	DriftRemoved DriftType = "removed" // Package in baseline but not current
	DriftChanged DriftType = "changed" // Package in both with different versions
)

// PackageDrift represents a single package's drift. Package is empty when a
// whole ecosystem without a package list appeared or disappeared.
type PackageDrift struct {
	Ecosystem       string    `json:"ecosystem"`
	Package         string    `json:"package,omitempty"`
	Type            DriftType `json:"type"`
	BaselineVersion string    `json:"baselineVersion,omitempty"`
	CurrentVersion  string    `json:"currentVersion,omitempty"`
}

// DriftReport contains the full drift analysis.
type DriftReport struct {
	HasDrift            bool           `json:"hasDrift"`
	BaselineName        string         `json:"baselineName"`
	CurrentName         string         `json:"currentName"`
	BaselineCommit      string         `json:"baselineCommit"`
	CurrentCommit       string         `json:"currentCommit"`
	CommitChanged       bool           `json:"commitChanged"`
	BaselineFingerprint string         `json:"baselineFingerprint"`
	CurrentFingerprint  string         `json:"currentFingerprint"`
	Changes             []PackageDrift `json:"changes"`
}

// Labeled is a record with the name it is reported under.
type Labeled struct {
	Name   string
	Record state.Record
}

// Detect compares current against baseline.
func Detect(baseline, current Labeled) (DriftReport, error) {
	basePkgs, err := packages(baseline.Record)
	if err != nil {
		return DriftReport{}, fmt.Errorf("%s: %w", baseline.Name, err)
	}
	curPkgs, err := packages(current.Record)
	if err != nil {
		return DriftReport{}, fmt.Errorf("%s: %w", current.Name, err)
	}

	report := DriftReport{
		BaselineName:        baseline.Name,
		CurrentName:         current.Name,
		BaselineCommit:      baseline.Record.Git.Hash,
		CurrentCommit:       current.Record.Git.Hash,
		CommitChanged:       baseline.Record.Git.Hash != current.Record.Git.Hash,
		BaselineFingerprint: fingerprint(baseline.Record.Git.Hash, basePkgs),
		CurrentFingerprint:  fingerprint(current.Record.Git.Hash, curPkgs),
		Changes:             []PackageDrift{},
	}

	// Quick check: if fingerprints match, no drift
	if report.BaselineFingerprint == report.CurrentFingerprint {
		return report, nil
	}

	for _, eco := range unionKeys(basePkgs, curPkgs) {
		baseList, inBase := basePkgs[eco]
		curList, inCur := curPkgs[eco]

		// Ecosystems without a package list only drift by presence.
		if baseList == nil && curList == nil {
			switch {
			case inBase && !inCur:
				report.Changes = append(report.Changes, PackageDrift{Ecosystem: eco, Type: DriftRemoved})
			case !inBase && inCur:
				report.Changes = append(report.Changes, PackageDrift{Ecosystem: eco, Type: DriftAdded})
			}
			continue
		}

		report.Changes = append(report.Changes, compare(eco, baseList, curList)...)
	}

	report.HasDrift = report.CommitChanged || len(report.Changes) > 0
	return report, nil
}

func compare(eco string, baseline, current map[string]string) []PackageDrift {
	var changes []PackageDrift
	for _, pkg := range unionKeys(baseline, current) {
		baseVer, inBase := baseline[pkg]
		curVer, inCur := current[pkg]

		if inBase && !inCur {
			changes = append(changes, PackageDrift{
				Ecosystem:       eco,
				Package:         pkg,
				Type:            DriftRemoved,
				BaselineVersion: baseVer,
			})
		} else if !inBase && inCur {
			changes = append(changes, PackageDrift{
				Ecosystem:      eco,
				Package:        pkg,
				Type:           DriftAdded,
				CurrentVersion: curVer,
			})
		} else if baseVer != curVer {
			changes = append(changes, PackageDrift{
				Ecosystem:       eco,
				Package:         pkg,
				Type:            DriftChanged,
				BaselineVersion: baseVer,
				CurrentVersion:  curVer,
			})
		}
	}
	return changes
}

// Fingerprint hashes the commit and the flattened packages of a record in
// canonical form. Records that differ only in date, user or machine share a
// fingerprint.
func Fingerprint(rec state.Record) (string, error) {
	pkgs, err := packages(rec)
	if err != nil {
		return "", err
	}
	return fingerprint(rec.Git.Hash, pkgs), nil
}

func fingerprint(commit string, pkgs map[string]map[string]string) string {
	hash := sha256.Sum256(canonicalJSON(commit, pkgs))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// canonicalJSON renders {"commit":..,"packages":{eco:{pkg:ver}}} with sorted
// keys and no whitespace.
func canonicalJSON(commit string, pkgs map[string]map[string]string) []byte {
	result := []byte(`{"commit":`)
	commitJSON, _ := json.Marshal(commit)
	result = append(result, commitJSON...)
	result = append(result, `,"packages":{`...)

	ecos := make([]string, 0, len(pkgs))
	for eco := range pkgs {
		ecos = append(ecos, eco)
	}
	sort.Strings(ecos)

	for i, eco := range ecos {
		if i > 0 {
			result = append(result, ',')
		}
		keyJSON, _ := json.Marshal(eco)
		// encoding/json sorts map keys; a nil map encodes as null.
		valueJSON, _ := json.Marshal(pkgs[eco])
		result = append(result, keyJSON...)
		result = append(result, ':')
		result = append(result, valueJSON...)
	}
	return append(result, "}}"...)
}

// packages flattens every ecosystem of a record. Ecosystems without a
// package list map to nil.
func packages(rec state.Record) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(rec.Python.Entries))
	for _, entry := range rec.Python.Entries {
		flat, err := ecosystem.Flatten(entry.Name, entry.Data)
		if err != nil {
			return nil, err
		}
		out[entry.Name] = flat
	}
	return out, nil
}

func unionKeys[V any](a, b map[string]V) []string {
	all := make(map[string]bool, len(a)+len(b))
	for k := range a {
		all[k] = true
	}
	for k := range b {
		all[k] = true
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
