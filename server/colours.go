package server

// ANSI colours for DEV route listings
const (
	colourGreen = "\033[32m"
	colourBlue  = "\033[34m"
	colourGray  = "\033[90m"
	colourReset = "\033[0m"
)

var methodColours = map[string]string{
	"GET":  colourGreen,
	"POST": colourBlue,
}

// colourize wraps s in the colour used for method, gray when unknown
func colourize(method, s string) string {
	colour, ok := methodColours[method]
	if !ok {
		colour = colourGray
	}
	return colour + s + colourReset
}
