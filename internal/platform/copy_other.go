//go:build !linux && !darwin

package platform

import "os"

// CopyFile always streams on platforms without a kernel copy primitive.
func CopyFile(params CopyFileParams) (CopyResult, error) {
	return copyReadWrite(params)
}

func reserve(*os.File, int64) {}
