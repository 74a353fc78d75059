//go:build !linux && !darwin

package watcher

func statFilesystem(string) FilesystemType {
	return FSTypeUnknown
}
