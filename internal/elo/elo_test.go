package elo

import "testing"

func TestExpectedSymmetry(t *testing.T) {
	a, b := Expected(1200, 1000), Expected(1000, 1200)
	if got, want := a+b, 1.0; got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("Expected(a,b)+Expected(b,a) = %v, want 1", got)
	}
	if a <= 0.5 {
		t.Fatalf("higher-rated player's expected score = %v, want > 0.5", a)
	}
}

func TestExpectedEqualRatings(t *testing.T) {
	if got := Expected(1500, 1500); got != 0.5 {
		t.Fatalf("Expected(equal ratings) = %v, want 0.5", got)
	}
}

func TestChangeZeroSumForDraw(t *testing.T) {
	wDelta, err := Change(1400, 1600, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	bDelta, err := Change(1600, 1400, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if wDelta+bDelta != 0 {
		t.Fatalf("deltas = %d, %d; a symmetric draw should zero-sum", wDelta, bDelta)
	}
	if wDelta <= 0 {
		t.Fatalf("lower-rated drawer should gain rating, got %d", wDelta)
	}
}

func TestChangeNeverExceedsK(t *testing.T) {
	delta, err := Change(1000, 3000, 1)
	if err != nil {
		t.Fatal(err)
	}
	if delta <= 0 || delta > K {
		t.Fatalf("a huge underdog's win delta = %d, want in (0, %d]", delta, K)
	}
}

func TestChangeRejectsInvalidScore(t *testing.T) {
	if _, err := Change(1000, 1000, 0.75); err != ErrInvalidScore {
		t.Fatalf("err = %v, want ErrInvalidScore", err)
	}
}
