package output

import (
	"fmt"
	"io"
	"os"
)

type Class int

const (
	Required Class = iota //requested information, printed even in quiet mode
	Error
	Normal
	Verbose
)

type Printer struct {
	classes    map[Class]bool
	terminal   io.Writer
	diagnosis  io.Writer
	useEscapes bool
}

func NewPrinter(include []Class, allowEscapes bool) (p Printer) {
	p = Printer{
		classes:    map[Class]bool{},
		terminal:   os.Stdout,
		diagnosis:  os.Stderr,
		useEscapes: allowEscapes,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

// Redirect yields a copy writing to the given targets instead of stdout and stderr.
func (p Printer) Redirect(terminal io.Writer, diagnosis io.Writer) Printer {
	p.terminal = terminal
	p.diagnosis = diagnosis
	return p
}

func (p Printer) Out(class Class, format string, values ...interface{}) {
	if !p.classes[class] {
		return
	}
	target := &p.terminal
	if class == Error {
		target = &p.diagnosis
	}
	fmt.Fprintf(*target, format, values...)
}

// Style wraps text in the modifier if escape sequences are allowed.
func (p Printer) Style(modifier SgrModifier, text string) string {
	if !p.useEscapes {
		return text
	}
	return string(modifier) + text + string(Reset)
}
