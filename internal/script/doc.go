// Package script applies edit scripts to a sequence.
//
// Two script forms are supported. Operation lists name sequence operations
// with string arguments and come from the command line or JSON:
//
//	append:world        insert:0:>>         replace:1:3:ELL
//	[{"op": "reverse"}, {"op": "setLength", "args": [3]}]
//
// Lua scripts drive the same operations through a sandboxed interpreter
// where the working sequence is the global seq:
//
//	seq:append(" world"):reverse()
//	local head = seq:substring(0, 4)
//	seq = strseq.new(head:text() .. "!", "UTF-16LE")
//
// Operation names are case-insensitive; underscores and dashes are ignored,
// so deleteCharAt, delete_char_at and DELETE-CHAR-AT are the same operation.
// Indices are zero-based character indices and range ends are inclusive, as
// in package sequence.
package script
