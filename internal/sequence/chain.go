package sequence

// Chain applies mutators to a sequence in order and keeps the first error.
// Steps after a failure are skipped.
type Chain struct {
	seq *Sequence
	err error
}

// Edit starts a chain of edits on s.
func (s *Sequence) Edit() *Chain {
	return &Chain{seq: s}
}

func (c *Chain) do(fn func() error) *Chain {
	if c.err == nil {
		c.err = fn()
	}
	return c
}

// Append adds v to the end.
func (c *Chain) Append(v Value) *Chain {
	return c.do(func() error { return c.seq.Append(v) })
}

// Insert inserts v before offset.
func (c *Chain) Insert(offset int, v Value) *Chain {
	return c.do(func() error { return c.seq.Insert(offset, v) })
}

// Replace replaces [start, end] with v.
func (c *Chain) Replace(start, end int, v Value) *Chain {
	return c.do(func() error { return c.seq.Replace(start, end, v) })
}

// Delete removes [start, end].
func (c *Chain) Delete(start, end int) *Chain {
	return c.do(func() error { return c.seq.Delete(start, end) })
}

// DeleteCharAt removes one character.
func (c *Chain) DeleteCharAt(index int) *Chain {
	return c.do(func() error { return c.seq.DeleteCharAt(index) })
}

// Reverse reverses the characters.
func (c *Chain) Reverse() *Chain {
	return c.do(c.seq.Reverse)
}

// SetLength truncates or pads with the default padding.
func (c *Chain) SetLength(n int) *Chain {
	return c.do(func() error { return c.seq.SetLength(n) })
}

// SetLengthPad truncates or pads with pad.
func (c *Chain) SetLengthPad(n int, pad Value) *Chain {
	return c.do(func() error { return c.seq.SetLengthPad(n, pad) })
}

// Trim trims both ends.
func (c *Chain) Trim(cutset string) *Chain {
	return c.do(func() error { return c.seq.Trim(cutset) })
}

// TrimLeft trims the start.
func (c *Chain) TrimLeft(cutset string) *Chain {
	return c.do(func() error { return c.seq.TrimLeft(cutset) })
}

// TrimRight trims the end.
func (c *Chain) TrimRight(cutset string) *Chain {
	return c.do(func() error { return c.seq.TrimRight(cutset) })
}

// SetEncoding retags the sequence.
func (c *Chain) SetEncoding(name string) *Chain {
	return c.do(func() error {
		c.seq.SetEncoding(name)
		return nil
	})
}

// ChangeEncoding transcodes the sequence.
func (c *Chain) ChangeEncoding(name string) *Chain {
	return c.do(func() error { return c.seq.ChangeEncoding(name) })
}

// Err returns the first error, if any.
func (c *Chain) Err() error {
	return c.err
}

// Sequence returns the sequence being edited.
func (c *Chain) Sequence() *Sequence {
	return c.seq
}
