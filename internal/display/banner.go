package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gamer92000/lecturecut/internal/term"
)

var bannerLines = []string{
	"██╗    ███████╗ ██████╗████████╗██╗   ██╗███████╗███████╗    ██████╗██╗  ██╗████████╗",
	"██║    ██╔════╝██╔════╝╚══██╔══╝██║   ██║██╔══██║██╔════╝   ██╔════╝██║  ██║╚══██╔══╝",
	"██║    █████╗  ██║        ██║   ██║   ██║██████╔╝█████╗     ██║     ██║  ██║   ██║   ",
	"██║    ██╔══╝  ██║        ██║   ██║   ██║██╔══██╗██╔══╝     ██║     ██║  ██║   ██║   ",
	"██████╗███████╗╚██████╗   ██║   ╚██████╔╝██║  ██║███████╗   ╚██████╗╚█████╔╝   ██║   ",
	"╚═════╝╚══════╝ ╚═════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝    ╚═════╝ ╚════╝    ╚═╝   ",
}

// PrintBanner writes the ASCII art banner centered in width columns, followed
// by the engine versions. Art wider than the terminal is skipped.
func PrintBanner(w io.Writer, width int, generatorVersion, renderVersion string) {
	fmt.Fprintln(w)
	artWidth := utf8.RuneCountInString(bannerLines[0])
	if artWidth <= width {
		pad := strings.Repeat(" ", (width-artWidth)/2)
		for _, line := range bannerLines {
			fmt.Fprintln(w, pad+term.Magenta.Sprint(line))
		}
	}
	versions := "Generator: " + generatorVersion + " | Render: " + renderVersion
	fmt.Fprintln(w, center(versions, width, "Generator: "+term.Yellow.Sprint(generatorVersion)+" | Render: "+term.Yellow.Sprint(renderVersion)))
	fmt.Fprintln(w)
}

// center pads styled so that plain, its uncolored form, is centered.
func center(plain string, width int, styled string) string {
	n := utf8.RuneCountInString(plain)
	if n >= width {
		return styled
	}
	return strings.Repeat(" ", (width-n)/2) + styled
}
