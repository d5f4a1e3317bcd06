// Package analysis inspects recorded test runs.
//
//   - [CornerSpectrum] and [DominantFrequency]: frequency content of corner motion
//   - [PhasePortrait]: one corner's trajectory in a chosen pair of quantities
//   - [Sweep]: repeat a scenario across a range of one parameter
//
// # Damper characteristic
//
// Plotting force against velocity for a corner shows the damper's effective curve:
//
//	p := analysis.PhasePortrait(entries, vehicle.FrontLeft, analysis.Velocity, analysis.Force)
//	fmt.Print(analysis.PhasePortraitToASCII(p, 60, 20))
package analysis
