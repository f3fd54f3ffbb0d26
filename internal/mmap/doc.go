// Package mmap provides memory mappings for off-heap slot arenas and
// zero-copy reads of fixture files.
//
// # Anonymous Mappings
//
// MapAnon creates read-write anonymous mappings. The arena package uses them
// so that large sort buffers live outside the Go garbage collector's control
// and are never scanned or moved.
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//	buf := m.Bytes()
//
// # File Mappings
//
// Open maps an existing file read-only. The local blob store uses it to load
// fixtures without copying them through kernel buffers.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: VirtualAlloc for anonymous memory, CreateFileMapping/MapViewOfFile
//     for files (Advise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure no
// goroutine touches Bytes() after Close returns.
package mmap
