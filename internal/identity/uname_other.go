//go:build !unix

package identity

func uname() unameInfo { return unameInfo{} }
