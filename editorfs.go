// Package editorfs contains the domain types shared by the editor's virtual
// filesystem surfaces: node creation requests and file content sources.
//
// The tree itself lives in package filesystem.
package editorfs
