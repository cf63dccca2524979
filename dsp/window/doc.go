// Package window generates the analysis and design windows used by the
// oversampling filter designer and the distortion measurements.
package window
