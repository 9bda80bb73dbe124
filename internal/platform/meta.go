package platform

// DirID is equal for every path that reaches the same directory. Unix
// systems fill Dev and Ino; elsewhere Path holds the symlink-free path.
type DirID struct {
	Dev  uint64
	Ino  uint64
	Path string
}
