package main

// Options are the command line settings the game graph is built from.
type Options struct {
	Debug bool
	Seed  uint64
}
