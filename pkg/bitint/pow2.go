// SPDX-License-Identifier: MIT
/*
Package bitint holds the power-of-two helpers used when sizing FFT windows.

Window sizes come from the track length divided by the segment count, so they
are rarely powers of two. Both FFT backends accept any size, but power-of-two
sizes take the radix-2 path and are the fast case.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of two >= size, or 1 for
// size <= 0. Exact powers of two are returned unchanged.
//
//	Input  Output
//	4      4
//	5      8
//	0      1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	// size-1 keeps exact powers from being doubled.
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
