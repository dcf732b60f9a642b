// Package main hosts the murmur CLI entrypoint and command graph.
//
// Invoked with audio paths, the root command loads configuration and the
// speech model once, then transcribes each file in order, writing a .txt
// transcript and an .srt subtitle file next to every input. Subcommands
// cover history review, log viewing, environment diagnostics and
// configuration scaffolding.
package main
