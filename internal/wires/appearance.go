package wires

// Fallback appearance used once a pool runs dry. Collisions are possible
// in that mode and are accepted: appearance is only a mnemonic.
const (
	DefaultColor  = ColorRed
	DefaultLetter = LetterAlpha
)

// AppearancePool hands out colours and letters without replacement for a
// single board build.
type AppearancePool struct {
	rnd     Rand
	colors  []Color
	letters []Letter
}

// NewAppearancePool returns a pool holding every colour and letter.
func NewAppearancePool(rnd Rand) *AppearancePool {
	return &AppearancePool{
		rnd:     rnd,
		colors:  AllColors(),
		letters: AllLetters(),
	}
}

// Draw removes a random colour and a random letter from the pool.
// An empty set yields DefaultColor or DefaultLetter instead.
func (p *AppearancePool) Draw() Appearance {
	a := Appearance{Color: DefaultColor, Letter: DefaultLetter}
	if len(p.colors) > 0 {
		a.Color = pickAndTake(p.rnd, &p.colors)
	}
	if len(p.letters) > 0 {
		a.Letter = pickAndTake(p.rnd, &p.letters)
	}
	return a
}

// Reserve removes a's colour and letter from the pool. Values already
// taken are ignored.
func (p *AppearancePool) Reserve(a Appearance) {
	removeValue(&p.colors, a.Color)
	removeValue(&p.letters, a.Letter)
}

// Remaining reports how many colours and letters are still available.
func (p *AppearancePool) Remaining() (colors, letters int) {
	return len(p.colors), len(p.letters)
}
