// Package shell provides the shell-execution and version-control tools
// registered under CategoryShell and CategoryVCS.
//
// Tools:
//   - shell-exec: execute an arbitrary shell command (CategoryShell)
//   - vcs-status, vcs-diff, vcs-log, vcs-commit, vcs-checkout: the
//     enumerated version-control operation set (CategoryVCS)
package shell
