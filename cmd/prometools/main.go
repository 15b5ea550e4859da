// prometools exercises the prometools metric adapters from the command line.
//
// Usage:
//
//	# Print the canonical exposition text of sample values
//	prometools format -- 42 0.1 -0.0 1e3
//
//	# Render the configured registry once
//	prometools render --config prometools.yaml
//
//	# Re-render every five minutes and whenever the config file changes
//	prometools render --config prometools.yaml --schedule "*/5 * * * *" --watch
//
//	# Show version information
//	prometools version
package main

import "os"

func main() {
	os.Exit(Execute())
}
