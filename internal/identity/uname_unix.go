//go:build unix

package identity

import "golang.org/x/sys/unix"

func uname() unameInfo {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return unameInfo{}
	}
	return unameInfo{
		system:  unix.ByteSliceToString(u.Sysname[:]),
		version: unix.ByteSliceToString(u.Version[:]),
		release: unix.ByteSliceToString(u.Release[:]),
	}
}
