// Package main hosts the vellum CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into document
// formatting, conversion, inspection, and catalog maintenance operations. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the serial and
// internal packages first, then surface it through dedicated commands or
// flags here.
package main
