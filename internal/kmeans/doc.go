// Package kmeans implements k-means clustering for partition calibration.
//
// Used internally by the IVF backend to learn partition centroids from
// training data.
package kmeans
