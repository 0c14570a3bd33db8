package input

// noopDevice records attempted actions in the log without performing
// them. It backs unsupported platforms and failed backend init.
type noopDevice struct{}

func newNoopDevice() *noopDevice { return &noopDevice{} }

func (*noopDevice) Name() string { return "noop" }

func (*noopDevice) Move(x, y int) error {
	log.Info("noop move", "x", x, "y", y)
	return nil
}

func (*noopDevice) MouseDown(x, y int, b Button) error {
	log.Info("noop mousedown", "x", x, "y", y, "button", b)
	return nil
}

func (*noopDevice) MouseUp(x, y int, b Button) error {
	log.Info("noop mouseup", "x", x, "y", y, "button", b)
	return nil
}

func (*noopDevice) Scroll(dx, dy int) error {
	log.Info("noop scroll", "dx", dx, "dy", dy)
	return nil
}

func (*noopDevice) KeyDown(key string) error {
	log.Info("noop keydown", "key", key)
	return nil
}

func (*noopDevice) KeyUp(key string) error {
	log.Info("noop keyup", "key", key)
	return nil
}

func (*noopDevice) TypeText(text string) error {
	log.Info("noop type", "chars", len([]rune(text)))
	return nil
}
