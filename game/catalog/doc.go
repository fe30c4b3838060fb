// Package catalog maps the type names used in genesis data to square and
// entity factories.
//
// A Registry is filled once at startup, either with the built-in types from
// Default or with custom factories, and then turns config.GameData into an
// engine.Genesis. Every type name is resolved during Resolve; an unknown name
// fails the whole resolution so a world is never started half-built.
//
// Built-in squares: floor, wall, water, goal.
// Built-in entities: stone, wanderer, patroller, chaser, player.
package catalog
