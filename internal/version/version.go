// ABOUTME: Version information for mp3play
// ABOUTME: Product identity reported in logs and the TUI
package version

const (
	// Version is the software version
	Version = "0.1.0"

	// Product is the product name
	Product = "mp3play"

	// Manufacturer identifies who built it
	Manufacturer = "mp3play authors"
)
