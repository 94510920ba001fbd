package shared

import "fmt"

// DebugPrint prints debug messages when debug mode is enabled
func DebugPrint(debug bool, format string, args ...interface{}) {
	if debug {
		fmt.Printf("DEBUG: "+format+"\n", args...)
	}
}
