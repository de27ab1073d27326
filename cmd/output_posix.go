//go:build !windows

package cmd

const (
	// statusLineFormat truncates and space-pads a status message to exactly
	// 80 characters on POSIX terminals: wide enough to overwrite whatever
	// the previous update printed, narrow enough to fit inside the minimum
	// width of a VT100-class terminal, so a carriage-return repaint never
	// bleeds onto the next line.
	statusLineFormat = "\r%-80.80s"
	// statusLineClearFormat pads an empty status line the same way, then
	// issues a second carriage return to leave the cursor at column zero.
	statusLineClearFormat = statusLineFormat + "\r"
)
