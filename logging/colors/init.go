package colors

// init probes ANSI support once. Unix consoles support it out of the box; Windows needs a kernel call.
func init() {
	EnableColor()
}
