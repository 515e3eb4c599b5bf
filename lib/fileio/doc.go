// Package fileio provides file-backed streams satisfying the same
// capability contracts as the network transports, so files plug into
// lib/datastream and lib/buffered unchanged. Both directions add absolute
// seeking and position reporting on top of the plain stream surface.
package fileio
