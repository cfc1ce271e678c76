// Package report renders a sequence and the results of the operations
// applied to it as a JSON document.
//
// A report looks like:
//
//	{
//	  "encoding": "UTF-16LE",
//	  "length": 5,
//	  "byteCount": 10,
//	  "text": "hello",
//	  "hex": "680065006c006c006f00",
//	  "results": [{"op": "indexOf:l", "value": 2}]
//	}
//
// When the bytes do not decode under the sequence encoding, "length" and
// "text" are omitted and "decodeError" carries the reason.
package report

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/strseq/internal/script"
	"github.com/dshills/strseq/internal/sequence"
)

// Options controls report rendering.
type Options struct {
	// Pretty indents the document.
	Pretty bool

	// Indent is the indentation used when Pretty is set. Defaults to two
	// spaces.
	Indent string
}

// Build renders seq and results.
func Build(seq *sequence.Sequence, results []script.Result, opts Options) ([]byte, error) {
	doc := []byte(`{}`)
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("encoding", seq.Encoding())
	if n, lerr := seq.Length(); lerr == nil {
		set("length", n)
	}
	set("byteCount", seq.ByteCount())
	if text, terr := seq.Text(); terr == nil {
		set("text", text)
	} else {
		set("decodeError", terr.Error())
	}
	set("hex", hex.EncodeToString(seq.Bytes()))

	if err == nil {
		doc, err = sjson.SetRawBytes(doc, "results", []byte(`[]`))
	}
	for i, r := range results {
		prefix := "results." + strconv.Itoa(i)
		set(prefix+".op", r.Op)
		set(prefix+".value", r.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	if opts.Pretty {
		indent := opts.Indent
		if indent == "" {
			indent = "  "
		}
		return pretty.PrettyOptions(doc, &pretty.Options{
			Width:  80,
			Indent: indent,
		}), nil
	}
	return doc, nil
}
