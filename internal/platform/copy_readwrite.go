package platform

import (
	"io"
	"os"
	"sync"
)

// streamChunk is the buffer size for user-space copies.
const streamChunk = 1 << 20

var chunks = sync.Pool{
	New: func() any { return new([streamChunk]byte) },
}

// copyReadWrite opens the source and streams it into the destination.
func copyReadWrite(params CopyFileParams) (CopyResult, error) {
	src, err := os.Open(params.SrcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer src.Close()
	return CopyStream(params.DstFd, src)
}

// CopyStream copies r into w through a pooled chunk. The worker uses it
// instead of CopyFile whenever it wraps either side, for bandwidth limits
// or checksums.
func CopyStream(w io.Writer, r io.Reader) (CopyResult, error) {
	chunk := chunks.Get().(*[streamChunk]byte)
	defer chunks.Put(chunk)

	// Hide ReaderFrom and WriterTo so io.CopyBuffer uses the chunk.
	n, err := io.CopyBuffer(struct{ io.Writer }{w}, struct{ io.Reader }{r}, chunk[:])
	return CopyResult{BytesWritten: n, Method: ReadWrite}, err
}
