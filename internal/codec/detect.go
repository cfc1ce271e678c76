package codec

import (
	"golang.org/x/net/html/charset"
)

// Detect returns the first detection candidate under which raw decodes
// losslessly. When no candidate fits, the HTML sniffing heuristic decides
// (byte order marks first, then windows-1252). Empty input detects as the
// first candidate.
func (c *XText) Detect(raw []byte) (string, error) {
	for _, name := range c.order {
		e, _, err := resolve(name)
		if err != nil {
			continue
		}
		if _, err := decode(e, raw); err == nil {
			return name, nil
		}
	}

	_, name, _ := charset.DetermineEncoding(raw, "text/plain")
	if name == "" {
		return "", newError("detect", "", ErrUnknownEncoding)
	}
	return name, nil
}
