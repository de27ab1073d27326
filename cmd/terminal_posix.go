// +build !windows

package cmd

// HandleTerminalCompatibility re-launches the current process under a
// terminal compatibility shim if the console it's running in needs one; see
// the Windows implementation for the one case (mintty consoles) this
// currently handles. POSIX terminals need no such shim, so this is a no-op.
func HandleTerminalCompatibility() {
}
