package wires

import (
	"fmt"
	"strings"
)

// Key identifies a wire within its owning provider.
//
// Keys are opaque to observers and only meaningful to the provider that
// registered them. Keys must be unique within one board, so providers
// should namespace them (e.g. "door.bolt").
type Key string

// Color is the colour a wire is drawn in.
type Color int

// Wire colours. The zero value is Red, which doubles as the fallback
// colour when the pool is exhausted.
const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorOrange
	ColorBrown
	ColorGold
	ColorGray
	ColorCyan
	ColorNavy
	ColorPurple
	ColorPink
	ColorFuchsia
)

var colorNames = [...]string{
	ColorRed:     "red",
	ColorBlue:    "blue",
	ColorGreen:   "green",
	ColorOrange:  "orange",
	ColorBrown:   "brown",
	ColorGold:    "gold",
	ColorGray:    "gray",
	ColorCyan:    "cyan",
	ColorNavy:    "navy",
	ColorPurple:  "purple",
	ColorPink:    "pink",
	ColorFuchsia: "fuchsia",
}

// AllColors returns every wire colour in declaration order.
func AllColors() []Color {
	out := make([]Color, len(colorNames))
	for i := range colorNames {
		out[i] = Color(i)
	}
	return out
}

// String returns the lowercase colour name.
func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// Valid reports whether c is a declared colour.
func (c Color) Valid() bool {
	return c >= 0 && int(c) < len(colorNames)
}

// ParseColor converts a colour name to a Color.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColor, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Letter is the Greek letter printed under a wire.
type Letter int

// Wire letters. The zero value is Alpha, the fallback letter.
const (
	LetterAlpha Letter = iota
	LetterBeta
	LetterGamma
	LetterDelta
	LetterEpsilon
	LetterZeta
	LetterEta
	LetterTheta
	LetterIota
	LetterKappa
	LetterLambda
	LetterMu
	LetterNu
	LetterXi
	LetterOmicron
	LetterPi
	LetterRho
	LetterSigma
	LetterTau
	LetterUpsilon
	LetterPhi
	LetterChi
	LetterPsi
	LetterOmega
)

var letterNames = [...]string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
	"iota", "kappa", "lambda", "mu", "nu", "xi", "omicron", "pi",
	"rho", "sigma", "tau", "upsilon", "phi", "chi", "psi", "omega",
}

const letterGlyphs = "αβγδεζηθικλμνξοπρστυφχψω"

// AllLetters returns every wire letter in alphabetical order.
func AllLetters() []Letter {
	out := make([]Letter, len(letterNames))
	for i := range letterNames {
		out[i] = Letter(i)
	}
	return out
}

// String returns the letter's English name ("alpha").
func (l Letter) String() string {
	if !l.Valid() {
		return fmt.Sprintf("letter(%d)", int(l))
	}
	return letterNames[l]
}

// Glyph returns the Greek glyph for the letter ('α').
func (l Letter) Glyph() rune {
	if !l.Valid() {
		return '?'
	}
	return []rune(letterGlyphs)[l]
}

// Valid reports whether l is a declared letter.
func (l Letter) Valid() bool {
	return l >= 0 && int(l) < len(letterNames)
}

// ParseLetter converts a letter name or glyph to a Letter.
func ParseLetter(s string) (Letter, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range letterNames {
		if n == name {
			return Letter(i), nil
		}
	}
	for i, g := range []rune(letterGlyphs) {
		if string(g) == name {
			return Letter(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Letter) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLetter, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Letter) UnmarshalText(text []byte) error {
	v, err := ParseLetter(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Appearance is the colour/letter pair that identifies a wire visually.
type Appearance struct {
	Color  Color  `json:"color" yaml:"color"`
	Letter Letter `json:"letter" yaml:"letter"`
}

func (a Appearance) String() string {
	return a.Color.String() + "/" + a.Letter.String()
}

// Action is an operator action against a single wire.
type Action string

// Wire actions.
const (
	ActionCut   Action = "cut"
	ActionMend  Action = "mend"
	ActionPulse Action = "pulse"
)

// ParseAction converts an action name to an Action.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionCut, ActionMend, ActionPulse:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Capability is a tool quality required by an interaction.
type Capability string

// Tool capabilities consumed by the interaction rules.
const (
	CapScrewing  Capability = "screwing"
	CapCutting   Capability = "cutting"
	CapMultitool Capability = "multitool"
)

// RequiredCapability returns the tool capability an action needs.
func (a Action) RequiredCapability() (Capability, error) {
	switch a {
	case ActionCut, ActionMend:
		return CapCutting, nil
	case ActionPulse:
		return CapMultitool, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, string(a))
	}
}

// Wire is one registered control line on a board.
//
// Key and Owner never leave this package through snapshots; observers only
// see the display id, cut state and appearance.
type Wire struct {
	Owner      Provider
	Key        Key
	Appearance Appearance
	Cut        bool

	// DisplayID is 0 until ordering is finalised, then 1..N.
	DisplayID int
}
