// Package nestling scaffolds PyNest projects and modules.
package nestling

// Version is set at build time with -ldflags "-X github.com/simonhull/nestling.Version=...".
var Version = "0.1.0-dev"
