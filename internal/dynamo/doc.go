// Package dynamo holds the mutable state of a gravitational system.
//
// The package defines the body registry the integrator works on:
//
//   - [Body]: one point mass with position, velocity and presentation metadata
//   - [Trail]: fixed-capacity ring of the most recent positions of a body
//   - [Registry]: creation-ordered set of bodies addressed by [Handle]
//   - [State]: value copy of the physical part of a body
//   - [Snapshot]: read-only view handed to presentation code
//
// # Example
//
//	reg := dynamo.NewRegistry(dynamo.DefaultTrailCap)
//	sun, _ := reg.Create(dynamo.BodySpec{Name: "Sun", Mass: 1.98892e30, Attractor: true})
//	snap, _ := reg.Snapshot(sun)
//
// # Thread Safety
//
// Registry instances are NOT thread-safe. Callers that step and read from
// different goroutines must serialize access themselves.
package dynamo
