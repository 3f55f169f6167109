package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brettbedarf/editorfs"
	"github.com/brettbedarf/editorfs/adapters"
	"github.com/brettbedarf/editorfs/config"
	"github.com/brettbedarf/editorfs/filesystem"
	"github.com/brettbedarf/editorfs/internal/util"
	"github.com/brettbedarf/editorfs/requests"
	"github.com/brettbedarf/editorfs/session"
)

// Handler contains the HTTP handlers for the session API
type Handler struct {
	cfg      *config.Config
	sessions *session.Manager
	registry *adapters.Registry
}

// NewHandler creates a handler serving sessions from m. Manifest sources
// given at session creation are resolved through r, which may be nil.
func NewHandler(cfg *config.Config, m *session.Manager, r *adapters.Registry) *Handler {
	return &Handler{cfg: cfg, sessions: m, registry: r}
}

type createSessionBody struct {
	Nodes []json.RawMessage `json:"nodes"`
}

type sessionResponse struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Applied   *requests.Result `json:"applied,omitempty"`
}

type pathBody struct {
	Path    string  `json:"path"`
	Content *string `json:"content,omitempty"`
}

// NodeInfo is one line of the explorer view
type NodeInfo struct {
	Depth int               `json:"depth"`
	Name  string            `json:"name"`
	Path  string            `json:"path"`
	Kind  editorfs.NodeType `json:"kind"`
	Ino   uint64            `json:"ino"`
}

type treeResponse struct {
	Nodes []NodeInfo       `json:"nodes"`
	Stats filesystem.Stats `json:"stats"`
}

type dirResponse struct {
	Path  string            `json:"path"`
	Kind  editorfs.NodeType `json:"kind"`
	Dirs  []string          `json:"dirs"`
	Files []string          `json:"files"`
}

type fileResponse struct {
	Path    string            `json:"path"`
	Kind    editorfs.NodeType `json:"kind"`
	Size    int               `json:"size"`
	Content string            `json:"content"`
}

func kindOf(e filesystem.Entry) editorfs.NodeType {
	if e.IsDir() {
		return editorfs.DirNodeType
	}
	return editorfs.FileNodeType
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "healthy",
		"sessions": h.sessions.Len(),
	})
}

// HandleCreateSession handles POST /api/sessions.
// An optional {"nodes": [...]} body seeds the new tree. The session is only
// kept if every node applies.
func (h *Handler) HandleCreateSession(c echo.Context) error {
	var body createSessionBody
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return mapError(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	manifest, err := requests.ParseNodes(body.Nodes, h.registry)
	if err != nil {
		return mapError(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}

	manifest.MaxContentSize = h.cfg.MaxContentSize

	s, err := h.sessions.Create()
	if err != nil {
		return mapError(c, err)
	}
	resp := sessionResponse{ID: s.ID, CreatedAt: s.CreatedAt}
	if manifest.Len() > 0 {
		res, err := manifest.Apply(c.Request().Context(), s.Tree)
		if err != nil {
			if cerr := h.sessions.Close(s.ID); cerr != nil {
				logger := util.GetLogger("HandleCreateSession")
				logger.Error().Err(cerr).Str("id", s.ID).Msg("Failed to drop partially seeded session")
			}
			return mapError(c, err)
		}
		resp.Applied = &res
	}
	return c.JSON(http.StatusCreated, resp)
}

// HandleListSessions handles GET /api/sessions, oldest session first
func (h *Handler) HandleListSessions(c echo.Context) error {
	resp := []sessionResponse{}
	h.sessions.Range(func(s *session.Session) bool {
		resp = append(resp, sessionResponse{ID: s.ID, CreatedAt: s.CreatedAt})
		return true
	})
	slices.SortFunc(resp, func(a, b sessionResponse) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return c.JSON(http.StatusOK, resp)
}

// HandleCloseSession handles DELETE /api/sessions/:id
func (h *Handler) HandleCloseSession(c echo.Context) error {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleTree handles GET /api/sessions/:id/tree.
// Returns the whole tree flattened in explorer order.
func (h *Handler) HandleTree(c echo.Context) error {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}

	resp := treeResponse{Nodes: []NodeInfo{}}
	for depth, e := range s.Tree.Walk() {
		resp.Nodes = append(resp.Nodes, NodeInfo{
			Depth: depth,
			Name:  e.DisplayName(),
			Path:  e.Name(),
			Kind:  kindOf(e),
			Ino:   e.Ino(),
		})
		if e.IsDir() {
			resp.Stats.Dirs++
		} else {
			resp.Stats.Files++
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleNode handles GET /api/sessions/:id/node?path=.
// Returns a directory listing or a file's content.
func (h *Handler) HandleNode(c echo.Context) error {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	e, err := s.Tree.Resolve(c.QueryParam("path"))
	if err != nil {
		return mapError(c, err)
	}

	switch n := e.(type) {
	case *filesystem.DirNode:
		resp := dirResponse{Path: n.Name(), Kind: editorfs.DirNodeType, Dirs: []string{}, Files: []string{}}
		for name := range n.Dirs() {
			resp.Dirs = append(resp.Dirs, name)
		}
		for name := range n.Files() {
			resp.Files = append(resp.Files, name)
		}
		return c.JSON(http.StatusOK, resp)
	case *filesystem.FileLeaf:
		content := n.Content()
		return c.JSON(http.StatusOK, fileResponse{
			Path:    n.Name(),
			Kind:    editorfs.FileNodeType,
			Size:    len(content),
			Content: content,
		})
	default:
		return mapError(c, fmt.Errorf("unexpected node type %T", e))
	}
}

// HandleMkdir handles POST /api/sessions/:id/dirs
func (h *Handler) HandleMkdir(c echo.Context) error {
	s, body, err := h.bindPath(c)
	if err != nil {
		return mapError(c, err)
	}
	dir, err := s.Tree.Mkdir(body.Path)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, NodeInfo{
		Name: dir.DisplayName(),
		Path: dir.Name(),
		Kind: editorfs.DirNodeType,
		Ino:  dir.Ino(),
	})
}

// HandleMkfile handles POST /api/sessions/:id/files.
// An existing file at the path is overwritten.
func (h *Handler) HandleMkfile(c echo.Context) error {
	s, body, err := h.bindPath(c)
	if err != nil {
		return mapError(c, err)
	}
	content := util.ValueOrDefault(body.Content, "")
	if h.cfg.MaxContentSize > 0 && len(content) > h.cfg.MaxContentSize {
		return mapError(c, fmt.Errorf("%w: %d > %d bytes", adapters.ErrContentTooLarge, len(content), h.cfg.MaxContentSize))
	}
	leaf, err := s.Tree.Mkfile(body.Path, content)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, NodeInfo{
		Name: leaf.DisplayName(),
		Path: leaf.Name(),
		Kind: editorfs.FileNodeType,
		Ino:  leaf.Ino(),
	})
}

func (h *Handler) bindPath(c echo.Context) (*session.Session, pathBody, error) {
	var body pathBody
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return nil, body, err
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return nil, body, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return s, body, nil
}
