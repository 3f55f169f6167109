// Package mount serves a read-only snapshot of a file tree over FUSE.
package mount

import (
	"context"
	"syscall"
	"time"

	gofs "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/brettbedarf/editorfs/config"
	"github.com/brettbedarf/editorfs/filesystem"
	"github.com/brettbedarf/editorfs/internal/util"
)

const (
	dirMode  = 0o555
	fileMode = 0o444
)

// Snapshot contents never change
var cacheTimeout = time.Hour

// rootNode is the mount root. It copies the tree into kernel-visible inodes
// when the mount is set up.
type rootNode struct {
	gofs.Inode
	tree *filesystem.Tree
}

var (
	_ gofs.NodeOnAdder   = (*rootNode)(nil)
	_ gofs.NodeGetattrer = (*rootNode)(nil)
	_ gofs.NodeGetattrer = (*dirNode)(nil)
)

func (r *rootNode) OnAdd(ctx context.Context) {
	addDir(ctx, &r.Inode, r.tree.Root())
}

func (r *rootNode) Getattr(_ context.Context, _ gofs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = fuse.S_IFDIR | dirMode
	out.Ino = filesystem.RootIno
	return gofs.OK
}

// dirNode is a read-only directory
type dirNode struct {
	gofs.Inode
}

func (d *dirNode) Getattr(_ context.Context, _ gofs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = fuse.S_IFDIR | dirMode
	out.Ino = d.StableAttr().Ino
	return gofs.OK
}

// addDir mirrors the children of dir under parent in explorer order
func addDir(ctx context.Context, parent *gofs.Inode, dir *filesystem.DirNode) {
	for name, d := range dir.Dirs() {
		ch := parent.NewPersistentInode(ctx, &dirNode{}, gofs.StableAttr{Mode: fuse.S_IFDIR, Ino: d.Ino()})
		parent.AddChild(name, ch, false)
		addDir(ctx, ch, d)
	}
	for name, f := range dir.Files() {
		leaf := &gofs.MemRegularFile{
			Data: []byte(f.Content()),
			Attr: fuse.Attr{Mode: fileMode},
		}
		ch := parent.NewPersistentInode(ctx, leaf, gofs.StableAttr{Mode: fuse.S_IFREG, Ino: f.Ino()})
		parent.AddChild(name, ch, false)
	}
}

// Server is a mounted tree snapshot
type Server struct {
	srv        *fuse.Server
	mountPoint string
	done       chan struct{}
}

// Mount snapshots tree and mounts it read-only at mountPoint. The mount is
// released by [Server.Unmount] or when ctx is cancelled.
func Mount(ctx context.Context, tree *filesystem.Tree, mountPoint string, opts config.MountOptions) (*Server, error) {
	logger := util.GetLogger("Mount")

	lvl := util.InfoLevel
	if opts.Debug {
		lvl = util.TraceLevel
	}
	srv, err := gofs.Mount(mountPoint, &rootNode{tree: tree}, &gofs.Options{
		MountOptions: fuse.MountOptions{
			Name:   opts.Name,
			FsName: opts.FsName,
			Debug:  opts.Debug,
			Logger: util.NewLogLogger("FuseServer", lvl),
		},
		EntryTimeout: &cacheTimeout,
		AttrTimeout:  &cacheTimeout,
	})
	if err != nil {
		logger.Error().Err(err).Str("mountpoint", mountPoint).Msg("Failed to mount filesystem")
		return nil, err
	}

	s := &Server{srv: srv, mountPoint: mountPoint, done: make(chan struct{})}
	go func() {
		srv.Wait()
		close(s.done)
	}()
	go func() {
		select {
		case <-ctx.Done():
			if err := s.Unmount(); err != nil {
				logger.Error().Err(err).Str("mountpoint", mountPoint).Msg("Failed to unmount filesystem")
			}
		case <-s.done:
		}
	}()

	logger.Info().Str("mountpoint", mountPoint).Msg("Filesystem mounted")
	return s, nil
}

// MountPoint returns the directory the tree is mounted at
func (s *Server) MountPoint() string {
	return s.mountPoint
}

// Unmount detaches the filesystem
func (s *Server) Unmount() error {
	return s.srv.Unmount()
}

// Wait blocks until the filesystem is unmounted
func (s *Server) Wait() {
	<-s.done
}
