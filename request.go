package editorfs

// NodeRequest has common fields embedded in concrete request types
type NodeRequest struct {
	Path string
	Type NodeType
	UUID string // Stable identifier for the request, assigned when absent
}

// NodeType valid types are FileNodeType "file", DirNodeType "dir"
type NodeType string

const (
	FileNodeType NodeType = "file"
	DirNodeType  NodeType = "dir"
)

// FileCreateRequest declares a file and where its content comes from.
// Content is used as-is when Sources is empty; otherwise the first source, by
// Priority, that fetches successfully provides the content.
type FileCreateRequest struct {
	NodeRequest
	Content string
	Sources []FileSource
}

// DirCreateRequest declares a directory; missing ancestors are implied
type DirCreateRequest struct {
	NodeRequest
}
