package models

var palette = []string{
	"bg-indigo-500",
	"bg-rose-500",
	"bg-emerald-500",
	"bg-amber-500",
	"bg-fuchsia-500",
	"bg-sky-500",
	"bg-orange-500",
	"bg-violet-600",
}

// Palette returns the fixed set of deck colors in display order.
func Palette() []string {
	out := make([]string, len(palette))
	copy(out, palette)
	return out
}

// DefaultColor is the color given to new decks.
func DefaultColor() string {
	return palette[0]
}

// IsPaletteColor reports whether c is one of the palette entries.
func IsPaletteColor(c string) bool {
	for _, p := range palette {
		if p == c {
			return true
		}
	}
	return false
}
