// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docreader

import (
	"os"
	"path/filepath"
	"strings"
)

// PathGuard decides whether a caller-supplied path may be opened for
// conversion. It defends the agent-facing file entry point against path
// traversal and disclosure of files outside the allowed roots.
//
// The guard does not resolve symlinks before the allow-list check: a symlink
// created inside an allowed root that points outside it is not caught.
type PathGuard struct {
	allowedRoots []string
}

// NewPathGuard creates a guard whose absolute-path allow list covers the
// shared temp directories, the user's downloads directory, and the process
// working directory.
func NewPathGuard() *PathGuard {
	roots := []string{os.TempDir(), "/var/tmp"}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, "Downloads"))
	}
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}
	return &PathGuard{allowedRoots: roots}
}

// NewPathGuardWithRoots creates a guard with an explicit allow list,
// useful for tests.
func NewPathGuardWithRoots(roots ...string) *PathGuard {
	return &PathGuard{allowedRoots: roots}
}

// ValidatePath admits or denies a path, short-circuiting on the first
// violation. On success it returns the normalized path, which callers must
// use in place of the original.
func (g *PathGuard) ValidatePath(p string) (string, error) {
	clean := filepath.Clean(p)

	// Checked on the normalized path so that inputs like
	// "folder/../../etc/passwd" are caught after collapsing.
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", &PathDeniedError{Path: p, Reason: "path traversal: parent directory access not allowed"}
	}

	if filepath.IsAbs(clean) && !g.underAllowedRoot(clean) {
		return "", &PathDeniedError{Path: p, Reason: "absolute file paths outside allowed directories are not permitted"}
	}

	if fi, err := os.Stat(clean); err == nil && !fi.Mode().IsRegular() {
		return "", &PathDeniedError{Path: p, Reason: "path is not a regular file"}
	}

	return clean, nil
}

func (g *PathGuard) underAllowedRoot(p string) bool {
	for _, root := range g.allowedRoots {
		root = filepath.Clean(root)
		if p == root || strings.HasPrefix(p, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
