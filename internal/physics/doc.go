// Package physics provides the gravitational force laws and orbital helpers
// used by the simulator.
//
// Every law implements [ForceLaw], accumulating the net Newtonian force on
// each body from a frozen slice of [dynamo.State]:
//
//   - [AttractorOnly]: only bodies tagged as attractors pull (fixed-centre model)
//   - [FullPairwise]: every body pulls every other body
//   - [BarnesHut]: quadtree approximation of FullPairwise
//
// Laws also report the matching potential energy so that [Energy] stays
// consistent with whichever law is in force.
//
// # Energy Conservation
//
//	law := physics.NewAttractorOnly(physics.G)
//	e0 := physics.Energy(law, reg.States())
package physics
