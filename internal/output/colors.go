package output

import "fmt"

// SgrModifier is a terminal escape sequence (Select Graphic Rendition).
type SgrModifier string

const (
	Reset          SgrModifier = "\x1B[0m"
	BoldIntensity  SgrModifier = "\x1B[1m"
	FaintIntensity SgrModifier = "\x1B[2m"
	Underline      SgrModifier = "\x1B[4m"
	Red            SgrModifier = "\x1B[31m"
	Green          SgrModifier = "\x1B[32m"
	Yellow         SgrModifier = "\x1B[33m"
)

func TerminalFormatAsDim(text string) string {
	return fmt.Sprintf("%s%s%s", FaintIntensity, text, Reset)
}

func TerminalFormatAsError(text string) string {
	return fmt.Sprintf("%s%s%s", Red, text, Reset)
}
