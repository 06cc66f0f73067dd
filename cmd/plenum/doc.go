// Package main hosts the plenum CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into pipeline
// runs against the session store: processing transcripts and decoder output
// into labeled segments, assembling the merged corpus tables, filtering
// minority-language leakage, and configuration scaffolding. It centralizes
// configuration resolution, run locking, and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
