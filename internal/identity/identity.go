// Package identity describes the machine a capture runs on.
package identity

import (
	"os"
	"os/user"
	"runtime"
	"strings"
)

// Machine is the node block of a state record. Each field is nil when no
// source could supply it.
type Machine struct {
	Username *string `json:"username"`
	Node     *string `json:"node"`
	System   *string `json:"system"`
	Version  *string `json:"version"`
	Release  *string `json:"release"`
}

// usernameVars are consulted in order after the account database.
var usernameVars = []string{"USER", "LOGNAME", "USERNAME"}

// Describe probes the current machine. It never fails; missing values are
// left nil.
func Describe() Machine {
	m := Machine{
		Username: Username(),
		Node:     Hostname(),
	}
	u := uname()
	m.System = firstNonEmpty(u.system, runtime.GOOS)
	m.Version = firstNonEmpty(u.version)
	m.Release = firstNonEmpty(u.release)
	return m
}

// Username returns the login name of the current user, trying the account
// database and then the usual environment variables.
func Username() *string {
	return lookupUsername(currentUser, os.LookupEnv)
}

func currentUser() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

func lookupUsername(current func() (string, error), lookupEnv func(string) (string, bool)) *string {
	if name, err := current(); err == nil {
		if v := firstNonEmpty(name); v != nil {
			return v
		}
	}
	for _, key := range usernameVars {
		if name, ok := lookupEnv(key); ok {
			if v := firstNonEmpty(name); v != nil {
				return v
			}
		}
	}
	return nil
}

// Hostname returns the network node name, or nil.
func Hostname() *string {
	name, err := os.Hostname()
	if err != nil {
		return nil
	}
	return firstNonEmpty(name)
}

// unameInfo holds the kernel identification fields available on this platform.
type unameInfo struct {
	system  string
	version string
	release string
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}
