package board

import "testing"

func destsContain(dests []Square, want Square) bool {
	for _, d := range dests {
		if d == want {
			return true
		}
	}
	return false
}

func TestCastlingBothSidesAvailable(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/R3K2R", "w")
	dests := b.LegalDestinations(sq(t, "e1"))
	if !destsContain(dests, sq(t, "g1")) {
		t.Fatalf("kingside castle missing from %v", dests)
	}
	if !destsContain(dests, sq(t, "c1")) {
		t.Fatalf("queenside castle missing from %v", dests)
	}
}

func TestCastlingRemovedByKingMoved(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/4K2R", "w")
	b.MakeMove(sq(t, "e1"), sq(t, "f1"))
	b.MakeMove(sq(t, "e8"), sq(t, "e7"))
	b.MakeMove(sq(t, "f1"), sq(t, "e1"))
	b.MakeMove(sq(t, "e7"), sq(t, "e8"))
	if destsContain(b.LegalDestinations(sq(t, "e1")), sq(t, "g1")) {
		t.Fatalf("castle must be gone after the king has moved")
	}
}

func TestCastlingRemovedByRookMoved(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/4K2R", "w")
	b.MakeMove(sq(t, "h1"), sq(t, "h2"))
	b.MakeMove(sq(t, "e8"), sq(t, "e7"))
	b.MakeMove(sq(t, "h2"), sq(t, "h1"))
	b.MakeMove(sq(t, "e7"), sq(t, "e8"))
	if destsContain(b.LegalDestinations(sq(t, "e1")), sq(t, "g1")) {
		t.Fatalf("castle must be gone after the rook has moved")
	}
}

func TestCastlingRemovedByBlocker(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/4KB1R", "w")
	if destsContain(b.LegalDestinations(sq(t, "e1")), sq(t, "g1")) {
		t.Fatalf("castle must be blocked by the bishop on f1")
	}
}

func TestCastlingRemovedWhileInCheck(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/4r3/8/8/4K2R", "w")
	if !b.InCheck(White) {
		t.Fatalf("white should be in check from the e4 rook")
	}
	if destsContain(b.LegalDestinations(sq(t, "e1")), sq(t, "g1")) {
		t.Fatalf("castling out of check must be illegal")
	}
}

func TestCastlingRemovedWhenPathAttacked(t *testing.T) {
	for _, file := range []string{"f", "g"} {
		b := mustBoard(t, "4k3/8/8/8/8/8/8/4K2R", "w")
		rookSq := sq(t, file+"4")
		st, ok := b.PlacePiece(rookSq, PieceTypeRook, Black)
		if !ok {
			t.Fatalf("placing attacker failed")
		}
		if destsContain(b.LegalDestinations(sq(t, "e1")), sq(t, "g1")) {
			t.Fatalf("castle must be gone while %s1 is attacked", file)
		}
		b.UnplacePiece(st)
	}
}

func TestEnPassantOnlyImmediatelyAfterDoubleStep(t *testing.T) {
	b := mustBoard(t, "4k3/3p4/8/4P3/8/8/8/4K3", "b")
	b.MakeMove(sq(t, "d7"), sq(t, "d5"))
	if !destsContain(b.LegalDestinations(sq(t, "e5")), sq(t, "d6")) {
		t.Fatalf("en passant capture should be available right after the double step")
	}

	// Any other move closes the window.
	b.MakeMove(sq(t, "e1"), sq(t, "d1"))
	b.MakeMove(sq(t, "e8"), sq(t, "d8"))
	if b.EnPassantSquare() != NoSquare {
		t.Fatalf("window should have closed")
	}
	if destsContain(b.LegalDestinations(sq(t, "e5")), sq(t, "d6")) {
		t.Fatalf("en passant must expire after one half-move")
	}
}

func TestPawnDoubleStepGatedOnMovedFlag(t *testing.T) {
	// A pawn placed on the home rank may double-step from there.
	b := New()
	b.PlacePiece(sq(t, "e1"), PieceTypePawn, White)
	dests := b.LegalDestinations(sq(t, "e1"))
	if !destsContain(dests, sq(t, "e2")) || !destsContain(dests, sq(t, "e3")) {
		t.Fatalf("unmoved pawn should have single and double step, got %v", dests)
	}

	b.MakeMove(sq(t, "e1"), sq(t, "e2"))
	dests = b.LegalDestinations(sq(t, "e2"))
	if destsContain(dests, sq(t, "e4")) {
		t.Fatalf("pawn that has moved must not double-step, got %v", dests)
	}
}

func TestSlidingRayStopsAtBlockers(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/2p5/8/R1P1K3", "w")
	dests := b.LegalDestinations(sq(t, "a1"))

	if destsContain(dests, sq(t, "c1")) {
		t.Fatalf("friendly-occupied square is never a destination")
	}
	if !destsContain(dests, sq(t, "b1")) {
		t.Fatalf("square before the blocker must be reachable")
	}
	if !destsContain(dests, sq(t, "a8")) {
		t.Fatalf("open file should be fully reachable")
	}

	// Enemy piece ends the ray and is capturable.
	b2 := mustBoard(t, "4k3/8/8/8/p7/8/8/R3K3", "w")
	d2 := b2.LegalDestinations(sq(t, "a1"))
	if !destsContain(d2, sq(t, "a4")) {
		t.Fatalf("enemy blocker must be capturable")
	}
	if destsContain(d2, sq(t, "a5")) {
		t.Fatalf("ray must stop at the first enemy piece")
	}
}

func TestPinnedPieceMayNotExposeKing(t *testing.T) {
	// White knight on e2 is pinned by the e8 rook.
	b := mustBoard(t, "4r3/8/8/8/8/8/4N3/4K3", "w")
	if len(b.LegalDestinations(sq(t, "e2"))) != 0 {
		t.Fatalf("pinned knight must have no legal moves")
	}
}

func TestCheckEvasionOnly(t *testing.T) {
	// White king on e1 checked by e8 rook; the bishop can block on e3.
	b := mustBoard(t, "4r3/8/8/8/8/8/6B1/4K3", "w")
	moves := b.LegalMoves(White)
	for _, m := range moves {
		st := b.MakeMove(m.From(), m.To())
		if b.InCheck(White) {
			t.Fatalf("generated move %s leaves king in check", m)
		}
		b.UnmakeMove(st)
	}
	found := false
	for _, m := range moves {
		if m.From() == sq(t, "g2") && m.To() == sq(t, "e4") {
			found = true
		}
	}
	if !found {
		t.Fatalf("blocking move Bg2-e4 missing from %v", moves)
	}
}

func TestCheckmateAndStalemateDetection(t *testing.T) {
	// Back-rank mate: king a1, enemy rooks a8 and b8.
	mate := mustBoard(t, "rr2k3/8/8/8/8/8/8/K7", "w")
	if !mate.InCheckmate(White) {
		t.Fatalf("expected checkmate:\n%s", mate)
	}

	// Classic stalemate: king a1, enemy queen b3.
	stale := mustBoard(t, "4k3/8/8/8/8/1q6/8/K7", "w")
	if stale.InCheck(White) {
		t.Fatalf("stalemate position should not be check")
	}
	if !stale.InStalemate(White) {
		t.Fatalf("expected stalemate:\n%s", stale)
	}
}

func TestKingAbsentMeansNoCheck(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/R7", "w")
	if b.InCheck(White) {
		t.Fatalf("a side without a king cannot be in check")
	}
	if b.KingSquare(White) != NoSquare {
		t.Fatalf("KingSquare should report NoSquare")
	}
}

func TestExecuteMoveRejectsIllegal(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/4P3/4K3", "w")
	if res := b.ExecuteMove(sq(t, "e2"), sq(t, "e5")); res.Valid {
		t.Fatalf("three-square pawn move accepted")
	}
	res := b.ExecuteMove(sq(t, "e2"), sq(t, "e4"))
	if !res.Valid || res.Special != SpecialNone || res.NeedsPromotion {
		t.Fatalf("plain legal move misreported: %+v", res)
	}

	promo := mustBoard(t, "4k3/1P6/8/8/8/8/8/4K3", "w")
	pres := promo.ExecuteMove(sq(t, "b7"), sq(t, "b8"))
	if !pres.Valid || !pres.NeedsPromotion {
		t.Fatalf("promotion must report a pending choice: %+v", pres)
	}
}
