// Package core provides the filesystem and search tools available to the
// editor and researcher sub-agent profiles (spec §6).
//
// Tools:
//   - read: read file contents
//   - write: write content to a file
//   - patch: edit a file by exact-text replacement
//   - preview-diff: preview a patch without writing it
//   - list-dir: list directory contents
//   - grep: search file contents by regular expression
//   - delete-file: delete a file (outside the named profile allow-lists)
package core
