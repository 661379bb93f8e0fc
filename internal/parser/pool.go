package parser

import (
	"sync"
)

// scannerPool manages a pool of scanner buffers to reduce allocations.
//
// Buffer Sizing Strategy:
// - Initial size: 64KB (defaultBufferSize) - good for most rule files
// - Maximum size: 4MB (maxBufferSize) - prevents memory bloat
// - Returns buffers to pool only if they're within reasonable size bounds
var scannerPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, defaultBufferSize)
		return &buf
	},
}

// acquireScannerBuffer gets a buffer for the scanner from the pool
func acquireScannerBuffer() []byte {
	bufPtr, ok := scannerPool.Get().(*[]byte)
	if !ok {
		// Fallback: allocate new buffer if type assertion fails
		return make([]byte, 0, defaultBufferSize)
	}
	buf := *bufPtr
	return buf[:0] // Reset length but keep capacity
}

// releaseScannerBuffer returns a scanner buffer to the pool with size validation.
//
// Buffer Return Policy:
// - Reject buffers smaller than half the standard size (too small to be useful)
// - Reject buffers larger than maximum size (prevent memory bloat)
func releaseScannerBuffer(buf []byte) {
	if buf == nil || cap(buf) < defaultBufferSize/2 {
		return // Don't pool small buffers
	}
	if cap(buf) <= maxBufferSize {
		buf = buf[:0]
		scannerPool.Put(&buf)
	}
}
