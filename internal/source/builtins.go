package source

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/vango-dev/abbrev/pkg/snippet"
)

//go:embed builtins.yaml
var builtinsYAML []byte

var (
	builtinsOnce sync.Once
	builtins     *snippet.Static
)

// Builtins returns the built-in HTML snippets. The registry is built once
// and shared; callers must not modify it.
func Builtins() *snippet.Static {
	builtinsOnce.Do(func() {
		reg, err := Parse("builtins.yaml", builtinsYAML)
		if err != nil {
			panic("source: embedded builtins: " + err.Error())
		}
		reg.DefineFunc("lorem|lipsum", lorem)
		builtins = reg
	})
	return builtins
}

const loremText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do " +
	"eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim " +
	"veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea " +
	"commodo consequat."

// lorem turns the node into a text node holding placeholder text. An
// authored value is kept.
func lorem(c *snippet.Call) error {
	el := c.Element()
	el.Name = ""
	if el.Value == nil {
		text := loremText
		if el.Repeat != nil && el.Repeat.Index > 0 {
			// Repeated copies start at different words.
			words := strings.Fields(loremText)
			shift := el.Repeat.Index % len(words)
			text = strings.Join(append(words[shift:], words[:shift]...), " ")
		}
		el.Value = &text
	}
	return nil
}
