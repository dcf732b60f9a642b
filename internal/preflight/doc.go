// Package preflight provides readiness checks run by `murmur doctor` and at
// batch start: directory access, free disk space, external binaries, and
// reachability of a remote transcription endpoint.
package preflight
