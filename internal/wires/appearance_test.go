package wires

import "testing"

func TestAppearancePool_DrawWithoutReplacement(t *testing.T) {
	pool := NewAppearancePool(testRand(7))

	colors := make(map[Color]bool)
	letters := make(map[Letter]bool)
	for i := 0; i < len(AllColors()); i++ {
		a := pool.Draw()
		if colors[a.Color] {
			t.Fatalf("draw %d: colour %s drawn twice", i, a.Color)
		}
		if letters[a.Letter] {
			t.Fatalf("draw %d: letter %s drawn twice", i, a.Letter)
		}
		colors[a.Color] = true
		letters[a.Letter] = true
	}

	c, l := pool.Remaining()
	if c != 0 {
		t.Errorf("Remaining() colors = %d, want 0", c)
	}
	if want := len(AllLetters()) - len(AllColors()); l != want {
		t.Errorf("Remaining() letters = %d, want %d", l, want)
	}
}

func TestAppearancePool_ExhaustionFallsBack(t *testing.T) {
	pool := NewAppearancePool(testRand(3))
	for i := 0; i < len(AllLetters()); i++ {
		pool.Draw()
	}

	a := pool.Draw()
	if a.Color != DefaultColor || a.Letter != DefaultLetter {
		t.Errorf("Draw() on empty pool = %v, want %s/%s", a, DefaultColor, DefaultLetter)
	}

	// Degraded mode keeps answering with the default.
	if b := pool.Draw(); b != a {
		t.Errorf("second Draw() on empty pool = %v, want %v", b, a)
	}
}

func TestAppearancePool_Reserve(t *testing.T) {
	pool := NewAppearancePool(testRand(1))
	pool.Reserve(Appearance{Color: ColorGold, Letter: LetterPi})

	c, l := pool.Remaining()
	if c != len(AllColors())-1 || l != len(AllLetters())-1 {
		t.Fatalf("Remaining() = %d, %d after Reserve", c, l)
	}

	for i := 0; i < len(AllColors())-1; i++ {
		a := pool.Draw()
		if a.Color == ColorGold {
			t.Fatal("Draw() returned a reserved colour")
		}
		if a.Letter == LetterPi {
			t.Fatal("Draw() returned a reserved letter")
		}
	}
}

func TestAppearancePool_ReserveAbsentIsNoop(t *testing.T) {
	pool := NewAppearancePool(testRand(1))
	pool.Reserve(Appearance{Color: ColorRed, Letter: LetterAlpha})
	pool.Reserve(Appearance{Color: ColorRed, Letter: LetterAlpha})
	pool.Reserve(Appearance{Color: Color(99), Letter: Letter(-1)})

	c, l := pool.Remaining()
	if c != len(AllColors())-1 || l != len(AllLetters())-1 {
		t.Errorf("Remaining() = %d, %d, want one of each removed", c, l)
	}
}
