//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import "github.com/google/wire"

func initGame(opts Options) (*Game, func(), error) {
	wire.Build(gameSet)
	return nil, nil, nil
}
