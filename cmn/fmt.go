package cmn

import (
	"fmt"
	"io"
	"os"
)

/*
	terminal output of the cli.
	every printer has a raw twin (Cnd* with fmtdisable set) for piping the
	output into files or other tools.
*/

var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

const (
	MediumMark        string = "✓"
	MediumX           string = "✕"
	MediumBulletPoint string = "•"
)

// FPrintflnTrailing applies seq to the line and resets it after the LF.
func FPrintflnTrailing(w io.Writer, seq AnsiFlag, format string, args ...interface{}) {
	fmt.Fprintf(w, "%v%s\n%v", seq, fmt.Sprintf(format, args...), AttrOff)
}

func PrintflnSuccess(prefix, _fmt string, argv ...interface{}) {
	fmt.Fprintf(Stderr, "%s%v%s %s%v\n", prefix, ForeGreen, MediumMark, fmt.Sprintf(_fmt, argv...), AttrOff)
}

func PrintflnWarn(prefix, _fmt string, argv ...interface{}) {
	fmt.Fprintf(Stderr, "%s%v%s %s%v\n", prefix, ForeYellow, MediumX, fmt.Sprintf(_fmt, argv...), AttrOff)
}

func PrintflnNotify(prefix, _fmt string, argv ...interface{}) {
	fmt.Fprintf(Stdout, "%s%v%s%v %s\n", prefix, ForeBlue, MediumBulletPoint, AttrOff, fmt.Sprintf(_fmt, argv...))
}

func PrintflnError(_fmt string, argv ...interface{}) {
	FPrintflnTrailing(Stderr, ForeRed, _fmt, argv...)
}

func PrintError(err error) {
	PrintflnError("%s", err)
}

/*
	conditional formatting.
	with fmtdisable the call is a plain printf with a LF at the end,
	otherwise fptr does the printing.
*/
func CndPrintfln(
	fmtdisable bool,
	fptr func(string, string, ...interface{}),
	prefix, _fmt string, argv ...interface{}) {

	if fmtdisable {
		fmt.Fprintf(Stdout, "%s\n", fmt.Sprintf(_fmt, argv...))
	} else {
		fptr(prefix, _fmt, argv...)
	}
}

func CndPrintln(
	fmtdisable bool,
	fptr func(string, string, ...interface{}),
	prefix,
	text string) {

	CndPrintfln(fmtdisable, fptr, prefix, "%s", text)
}

func CndPrintError(fmtdisable bool, err error) {
	if fmtdisable {
		fmt.Fprintf(Stderr, "%s\n", err)
	} else {
		PrintError(err)
	}
}
