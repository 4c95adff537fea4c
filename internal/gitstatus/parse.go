// pattern: Functional Core

package gitstatus

import (
	"strconv"
	"strings"

	"devhub/internal/project"
)

// DetachedBranch is the branch.head value git reports when HEAD does not point at a branch.
const DetachedBranch = "(detached)"

// Parse reads the output of `git status --porcelain=v2 --branch`.
//
// Header lines carry the branch and upstream counts:
//
//	# branch.head main
//	# branch.ab +1 -2
//
// Any changed, renamed, unmerged or untracked entry marks the tree dirty.
// Ahead and behind are zero when no upstream is configured.
func Parse(output string) project.GitStatus {
	var (
		branch        string
		dirty         bool
		ahead, behind int
	)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "# branch.head "):
			branch = strings.TrimPrefix(line, "# branch.head ")
		case strings.HasPrefix(line, "# branch.ab "):
			parts := strings.Fields(line)
			if len(parts) >= 4 {
				ahead, _ = strconv.Atoi(strings.TrimPrefix(parts[2], "+"))
				behind, _ = strconv.Atoi(strings.TrimPrefix(parts[3], "-"))
			}
		case strings.HasPrefix(line, "1 "), strings.HasPrefix(line, "2 "),
			strings.HasPrefix(line, "u "), strings.HasPrefix(line, "? "):
			dirty = true
		}
	}

	return project.RepoStatus(branch, dirty, ahead, behind)
}
