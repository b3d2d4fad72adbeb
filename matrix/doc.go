// SPDX-License-Identifier: MIT

// Package matrix provides row-major float64 coefficient storage and the
// handful of kernels the tensor package needs on top of it.
//
// Dense keeps its values in one flat slice (offset = i*cols + j). At/Set never
// panic on user input; they return ErrOutOfRange (and ErrNaNInf when the
// numeric policy rejects non-finite values). MatVec is row-parallel under the
// process-wide threshold of package parallel and uses vek dot products per row.
//
// Errors are package sentinels matched with errors.Is; kernels wrap them as
// "<Op>: <sentinel>".
package matrix
