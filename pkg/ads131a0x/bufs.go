package ads131a0x

// frameBufs are the working buffers of one device, sized once from its variant.
type frameBufs struct {
	tx   Frame // command being sent
	rx   Frame // response of the last successful transfer
	null Frame // always zero

	// scratch receives a transfer in flight so that rx keeps its
	// previous content when the transport fails.
	scratch Frame
}

func newFrameBufs(c Codec) *frameBufs {
	return &frameBufs{
		tx:      c.NewFrame(),
		rx:      c.NewFrame(),
		null:    c.NewFrame(),
		scratch: c.NewFrame(),
	}
}

func (b *frameBufs) clear() {
	clear(b.tx)
	clear(b.rx)
}
