package version

// Version is the current release of the GeoTruth API.
var Version = "0.1.0"
