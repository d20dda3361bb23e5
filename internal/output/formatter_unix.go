//go:build !windows

package output

import "os"

// enableANSI is a no-op outside windows: terminals there understand ANSI codes
func enableANSI(*os.File) bool {
	return true
}
