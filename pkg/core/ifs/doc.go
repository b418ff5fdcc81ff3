// Package ifs generates point clouds of self-similar fractals with iterated
// function systems.
//
// # Overview
//
// An iterated function system is a small set of affine maps, each with a
// selection probability. Starting from any seed point, repeatedly picking a
// map at random and applying it to the running point makes the sequence
// converge to the attractor of the system: the fractal.
//
//   - [AffineMap]: six coefficients, x' = a·x + b·y + e, y' = c·x + d·y + f
//   - [Model]: an ordered recipe of maps with cumulative probability thresholds
//   - [Generator]: the chaotic iteration driven by an injected [Source]
//   - [Registry]: fractal kinds by name ("tree", "triangle", custom recipes)
//
// # Thresholds
//
// All thresholds are cumulative upper bounds in the normalized range [0, 1).
// A random value v selects the first map whose threshold is >= v; anything
// above every threshold falls through to the last map, which therefore acts
// as the catch-all. The last threshold of a valid model is always 1.
//
// # Randomness
//
// The generator never touches a process-wide random function. It draws from
// the [Source] it was built with, so a fixed seed reproduces the exact same
// sequence:
//
//	gen := ifs.NewGenerator(ifs.NewSource(42), ifs.DefaultBounds)
//	seq, err := gen.Generate(ifs.Triangle(), 2500, 0, 0)
//	if err != nil {
//	    return err
//	}
//	for step := range seq.All() {
//	    fmt.Println(step.X, step.Y, step.Map)
//	}
//
// A Generator owns its source and must not be shared between goroutines; give
// each concurrent caller its own generator.
package ifs
