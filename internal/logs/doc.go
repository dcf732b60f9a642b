// Package logs reads murmur's log file for the `murmur logs` command.
//
// Last returns the trailing lines of the file together with the byte offset
// where reading stopped; Follow tails the file from that offset with
// github.com/hpcloud/tail and hands each new line to a callback until the
// context is cancelled. A missing log file is treated
// as empty so the command works before the first batch has run.
package logs
