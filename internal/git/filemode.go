package git

import "github.com/go-git/go-git/v5/plumbing/filemode"

// isFileMode returns true if the mode represents content the miner can diff:
// a regular file, an executable, or a symlink. Gitlinks (submodules) and
// directories are not files.
func isFileMode(m filemode.FileMode) bool {
	switch m {
	case filemode.Regular, filemode.Deprecated, filemode.Executable, filemode.Symlink:
		return true
	default:
		return false
	}
}
