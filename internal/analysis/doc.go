// Package analysis derives orbital quantities from recorded frames.
//
//   - [Track]: one body's sample times and positions
//   - [AngularPeriod]: period from the angle swept about the origin
//   - [DominantPeriod]: period of the strongest frequency in a sampled signal
//
// A run sampled daily over two years gives Earth's period either way:
//
//	times, track := analysis.Track(frames, "Earth")
//	p, err := analysis.AngularPeriod(times, track)
package analysis
