package cmn

import (
	"strconv"
	"strings"
)

/*
	ansi select graphic rendition.

	AnsiFlag packs up to three SGR codes, one per byte:
	[0 | back | fore | attr]
	so that a foreground and a background can be or-ed into one value:

	fmt.Printf("%vwarning%v\n", cmn.ForeYellow|cmn.AttrBold, cmn.AttrOff)
*/

type AnsiFlag uint32

const (
	AttrOff AnsiFlag = iota
	AttrBold
	_
	_
	AttrUnderscore
	AttrBlink
	_
	AttrReverseVideo
	AttrConcealed
)

const (
	ForeBlack AnsiFlag = (iota + 30) << 8
	ForeRed
	ForeGreen
	ForeYellow
	ForeBlue
	ForeMagenta
	ForeCyan
	ForeWhite
)

const (
	BackBlack AnsiFlag = (iota + 40) << 16
	BackRed
	BackGreen
	BackYellow
	BackBlue
	BackMagenta
	BackCyan
	BackWhite
)

func (f AnsiFlag) String() string {
	var codes []string
	for shift := 0; shift < 24; shift += 8 {
		if c := (f >> shift) & 0xFF; c != 0 {
			codes = append(codes, strconv.Itoa(int(c)))
		}
	}
	if len(codes) == 0 {
		return "\033[0m"
	}
	return "\033[" + strings.Join(codes, ";") + "m"
}
