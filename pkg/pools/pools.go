// Package pools provides object pooling for reducing GC pressure.
//
// This package contains various pool implementations for commonly
// allocated types in the BFS engine:
//
//   - BytePool: Size-class based byte slice pooling
//   - VIDPool: Pooling for uint32 vertex-id/offset slices
//   - BufferBuilder: Efficient buffer construction with pooling
package pools
