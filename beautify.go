package stne

import (
	"fmt"

	"github.com/ditashi/jsbeautifier-go/jsbeautifier"
)

// JSBeautifier formats with the js-beautify port. STNE script shares the
// brace and statement layout of JavaScript closely enough for it.
type JSBeautifier struct{}

// Beautify implements Beautifier.
func (JSBeautifier) Beautify(src string, opts FormatOptions) (out string, err error) {
	// The port panics on some malformed input instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jsbeautifier: %v", r)
		}
	}()

	options := jsbeautifier.DefaultOptions()
	options["indent_size"] = opts.IndentSize
	options["brace_style"] = opts.BraceStyle
	options["space_in_empty_paren"] = true

	return jsbeautifier.Beautify(&src, options)
}
