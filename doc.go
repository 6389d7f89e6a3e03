// Package pzip holds the error values shared by the run-length compressors in
// this module. The codec lives in utilities/compression, the parallel
// compressor and its reference encoders in pipeline, and the binaries under
// cmd.
package pzip
