// Package compression implements the run-length codec shared by every encoder
// and decoder in this module.
//
// A byte sequence is encoded as an ordered list of runs. Each run is a
// (length, symbol) pair standing for `symbol` repeated `length` times, and every
// run produced by the encoder is maximal: no two adjacent runs share a symbol.
// Lengths are unsigned 32-bit integers.
//
// On the wire, each run becomes a five-byte record: the run length as a 32-bit
// unsigned integer in the machine's native byte order, followed by the symbol.
// Records are concatenated with no header, footer, or separator, so the output
// for several inputs is indistinguishable from the output for their
// concatenation:
//
//	aaabbbbc (on a little-endian machine)
//	03 00 00 00 'a'  04 00 00 00 'b'  01 00 00 00 'c'
//
// A decoder reads records until the stream ends. Running out of data exactly on
// a record boundary is a clean end; running out in the middle of one is an
// error.

package compression
