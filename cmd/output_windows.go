package cmd

const (
	// statusLineFormat truncates and space-pads a status message to 79
	// characters on Windows consoles -- one narrower than the 80-character
	// POSIX width, because cmd.exe's carriage-return repaint fails to wipe
	// the previous line when the cursor has already printed a character in
	// the console's last column.
	statusLineFormat = "\r%-79.79s"
	// statusLineClearFormat pads an empty status line the same way, then
	// issues a second carriage return to leave the cursor at column zero.
	statusLineClearFormat = statusLineFormat + "\r"
)
