package watcher

// FilesystemType is a best-effort classification of the filesystem a
// watched path lives on. Remote filesystems deliver inotify events
// unreliably or not at all, so the watcher falls back to polling there.
type FilesystemType string

const (
	FSTypeUnknown FilesystemType = "unknown"
	FSTypeLocal   FilesystemType = "local"
	FSTypeNFS     FilesystemType = "nfs"
	FSTypeSMB     FilesystemType = "smb"
	FSTypeFUSE    FilesystemType = "fuse"
)

// isRemoteFilesystem reports whether the filesystem type should use the
// polling fallback instead of fsnotify.
func isRemoteFilesystem(t FilesystemType) bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeFUSE:
		return true
	default:
		return false
	}
}
