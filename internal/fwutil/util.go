// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package fwutil provides the cross-cutting leaf helpers used throughout the
table-parsing engine: filesystem helpers used by the loader and CLI, and the
component-G vocabulary from spec.md §4.G (checksum, GUID formatting, hex dump,
enumerated-string lookup).
*/
package fwutil

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandUser expands '~' to the user's home directory, if found, otherwise
// returns the original path unchanged.
func ExpandUser(path string) string {
	usr, _ := user.Current()
	if path == "~" {
		return usr.HomeDir
	} else if strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return filepath.Join(usr.HomeDir, path[2:])
	}
	return path
}

// AbsPath returns the absolute path after expanding '~' to the user's home
// directory. Use in place of filepath.Abs() anywhere a dump-file or config
// path is accepted from the user.
func AbsPath(path string) (string, error) {
	return filepath.Abs(ExpandUser(path))
}

// FileExists reports whether a regular file exists at path.
func FileExists(path string) (exists bool, err error) {
	fileInfo, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}
		return false, statErr
	}
	if !fileInfo.Mode().IsRegular() {
		return false, fmt.Errorf("%s not a file", path)
	}
	return true, nil
}

// DirectoryExists reports whether a directory exists at path.
func DirectoryExists(path string) (exists bool, err error) {
	fileInfo, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}
		return false, statErr
	}
	if !fileInfo.Mode().IsDir() {
		return false, fmt.Errorf("%s not a directory", path)
	}
	return true, nil
}

// StringIndexInList returns the index of s in l, or an error if not found.
func StringIndexInList(s string, l []string) (idx int, err error) {
	for idx, item := range l {
		if item == s {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("%s not found in %s", s, strings.Join(l, ", "))
}

// StringInList reports whether s appears in l.
func StringInList(s string, l []string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}
