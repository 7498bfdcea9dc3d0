package main

var funnyMessages = []string{
	"Reticulating splines...",
	"Polishing pixels...",
	"Convincing the bits to behave...",
	"Making your images 42% cooler...",
	"Negotiating with color spaces...",
	"Counting all the pixels (just kidding)...",
	"Unleashing the magic smoke...",
	"Telling JPEGs to stop being lossy...",
	"Summoning the lossless gods...",
	"Making your image look professional...",
}

// IntNSource is satisfied by *math/rand/v2.Rand.
type IntNSource interface {
	IntN(n int) int
}

// PickMessage returns a flavor line chosen by src.
func PickMessage(src IntNSource) string {
	return funnyMessages[src.IntN(len(funnyMessages))]
}
