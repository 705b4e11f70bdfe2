// Package seq reads frames from raw-frame .seq video containers.
package seq

// Container layout, all integers little-endian.
//
//   header { // 1024 bytes.
//     magic          [4]byte
//     descriptor     [24]byte
//     version        int32
//     allocated      int32   // 1024 is invalid.
//     description    [512]byte
//     params         [9]int32 {
//       0 width
//       1 height
//       2 bitDepth
//       3 -
//       4 declaredSize
//       5 formatCode
//       6 frameCount
//       7 -
//       8 trueSize
//     }
//     frameRate      float64
//     reserved       [432]byte
//   }
//
//   block { // Repeated frameCount times.
//     blockLen uint32 // Includes itself.
//     payload  [blockLen-4]byte
//     padding  [extra]byte
//   }
//
//
// The padding between blocks is not stored anywhere. It starts out
// as 8 bytes and is corrected once, after the first block, by looking
// at the byte where the second block is expected to start:
//   nonzero: the first gap is 4 bytes, step back 4 once.
//   zero:    every gap is 16 bytes, skip 8 more.
