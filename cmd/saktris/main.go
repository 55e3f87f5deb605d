package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tomgun/saktris-game-sub001/board"
	"github.com/tomgun/saktris-game-sub001/engine"
)

const defaultSearchDepth = 6

func main() {
	commandLoop()
}

func commandLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	game := engine.NewGame(engine.Config{Seed: time.Now().UnixNano()})
	searcher := engine.NewSearcher()

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "new":
			cfg, err := parseNewOptions(tokens[1:])
			if err != nil {
				fmt.Println("info string", err)
				continue
			}
			game.StartNewGame(cfg)
			searcher.Reset()
			fmt.Println("info string New game started")
			printPrompt(game)
		case "place":
			if len(tokens) < 2 {
				fmt.Println("info string Usage: place <column a-h>")
				continue
			}
			col, ok := parseColumn(tokens[1])
			if !ok {
				fmt.Println("info string Invalid column", tokens[1])
				continue
			}
			if !game.TryPlacePiece(col) {
				fmt.Println("info string Illegal placement")
				continue
			}
			printBoard(game)
			printPrompt(game)
		case "move":
			if len(tokens) < 2 {
				fmt.Println("info string Usage: move <from><to>, e.g. move e2e4")
				continue
			}
			from, to, ok := parseMove(tokens[1])
			if !ok {
				fmt.Println("info string Invalid move string", tokens[1])
				continue
			}
			res := game.ExecuteMove(from, to)
			if !res.Valid {
				fmt.Println("info string Illegal move")
				continue
			}
			if res.NeedsPromotion {
				fmt.Println("info string Promotion pending; use promote <q|r|b|n>")
			}
			printBoard(game)
			printPrompt(game)
		case "promote":
			if len(tokens) < 2 {
				fmt.Println("info string Usage: promote <q|r|b|n>")
				continue
			}
			pt, ok := board.PieceTypeFromLetter(tokens[1][0])
			if !ok || !game.SetPromotion(pt) {
				fmt.Println("info string Invalid promotion choice")
				continue
			}
			printBoard(game)
			printPrompt(game)
		case "legal":
			if game.MustPlacePiece() {
				cols := game.PlacementColumns()
				names := make([]string, len(cols))
				for i, c := range cols {
					names[i] = string(rune('a' + c))
				}
				fmt.Println("placements:", strings.Join(names, " "))
				continue
			}
			if len(tokens) >= 2 {
				from, ok := board.ParseSquare(tokens[1])
				if !ok {
					fmt.Println("info string Invalid square", tokens[1])
					continue
				}
				for _, to := range game.LegalDestinations(from) {
					fmt.Print(from.String(), to.String(), " ")
				}
				fmt.Println()
				continue
			}
			for _, m := range game.GetLegalMovesForCurrentPlayer() {
				fmt.Print(m.String(), " ")
			}
			fmt.Println()
		case "go":
			depth, budget := parseGoOptions(tokens[1:])
			res, ok := searcher.BestAction(game, depth, budget)
			if !ok {
				fmt.Println("info string No action available")
				continue
			}
			fmt.Printf("info depth %d nodes %d score %d\n", res.Depth, res.Nodes, res.Score)
			applyAction(game, res.Action)
			fmt.Println("bestaction", res.Action)
			printBoard(game)
			printPrompt(game)
		case "show":
			printBoard(game)
			printPrompt(game)
		case "status":
			printStatus(game)
		case "hash":
			fmt.Printf("%x %d\n", game.PositionHash(), game.MoveCount())
		case "save":
			if len(tokens) < 2 {
				fmt.Println("info string Usage: save <file>")
				continue
			}
			if err := saveGame(game, tokens[1]); err != nil {
				fmt.Println("info string Save failed:", err)
				continue
			}
			fmt.Println("info string Saved to", tokens[1])
		case "load":
			if err := loadGame(game, tokens[1:]); err != nil {
				fmt.Println("info string Load failed:", err)
				continue
			}
			searcher.Reset()
			printBoard(game)
			printPrompt(game)
		case "resign":
			game.Resign(game.CurrentPlayer())
			printStatus(game)
		case "quit":
			return
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

func parseNewOptions(tokens []string) (engine.Config, error) {
	cfg := engine.Config{Seed: time.Now().UnixNano()}
	for i := 0; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "freq":
			i++
			if i >= len(tokens) {
				return cfg, errors.New("freq needs a value")
			}
			n, err := strconv.Atoi(tokens[i])
			if err != nil || n < 1 {
				return cfg, errors.Errorf("bad frequency %q", tokens[i])
			}
			cfg.ArrivalFrequency = n
		case "seed":
			i++
			if i >= len(tokens) {
				return cfg, errors.New("seed needs a value")
			}
			n, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil {
				return cfg, errors.Errorf("bad seed %q", tokens[i])
			}
			cfg.Seed = n
		case "vs-ai":
			i++
			if i >= len(tokens) {
				return cfg, errors.New("vs-ai needs a side (w|b)")
			}
			cfg.Mode = engine.ModeVsAI
			switch strings.ToLower(tokens[i]) {
			case "w":
				cfg.AISide = board.White
			case "b":
				cfg.AISide = board.Black
			default:
				return cfg, errors.Errorf("bad side %q", tokens[i])
			}
		case "time":
			i++
			if i >= len(tokens) {
				return cfg, errors.New("time needs milliseconds")
			}
			ms, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil || ms < 0 {
				return cfg, errors.Errorf("bad time %q", tokens[i])
			}
			cfg.TimeBudget = time.Duration(ms) * time.Millisecond
		default:
			return cfg, errors.Errorf("unknown option %q", tokens[i])
		}
	}
	return cfg, nil
}

func parseGoOptions(tokens []string) (int8, time.Duration) {
	depth := int8(defaultSearchDepth)
	var budget time.Duration
	for i := 0; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "depth":
			i++
			if i >= len(tokens) {
				continue
			}
			if n, err := strconv.Atoi(tokens[i]); err == nil && n > 0 && n < 64 {
				depth = int8(n)
			}
		case "time":
			i++
			if i >= len(tokens) {
				continue
			}
			if ms, err := strconv.ParseInt(tokens[i], 10, 64); err == nil && ms > 0 {
				budget = time.Duration(ms) * time.Millisecond
			}
		}
	}
	return depth, budget
}

func parseColumn(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	switch {
	case s[0] >= 'a' && s[0] <= 'h':
		return int(s[0] - 'a'), true
	case s[0] >= '0' && s[0] <= '7':
		return int(s[0] - '0'), true
	}
	return 0, false
}

func parseMove(s string) (board.Square, board.Square, bool) {
	if len(s) != 4 {
		return board.NoSquare, board.NoSquare, false
	}
	from, ok := board.ParseSquare(s[:2])
	if !ok {
		return board.NoSquare, board.NoSquare, false
	}
	to, ok := board.ParseSquare(s[2:])
	if !ok {
		return board.NoSquare, board.NoSquare, false
	}
	return from, to, true
}

func applyAction(g *engine.Game, a engine.Action) {
	if a.Place {
		g.TryPlacePiece(a.Column)
		return
	}
	res := g.ExecuteMove(a.From, a.To)
	if res.NeedsPromotion {
		// The engine promotes to queen on its own turns; for a human side
		// driven through "go", default to the same.
		g.SetPromotion(board.PieceTypeQueen)
	}
}

func printBoard(g *engine.Game) {
	fmt.Print(g.Board().String())
}

func printPrompt(g *engine.Game) {
	if g.Outcome() != engine.OutcomeOngoing {
		printStatus(g)
		return
	}
	side := g.CurrentPlayer()
	if g.MustPlacePiece() {
		pt, _ := g.Arrivals().CurrentPiece(side)
		fmt.Printf("%s to place %s (columns", side, pt)
		for _, c := range g.PlacementColumns() {
			fmt.Printf(" %c", 'a'+c)
		}
		fmt.Println(")")
		return
	}
	fmt.Printf("%s to move\n", side)
}

func printStatus(g *engine.Game) {
	switch g.Outcome() {
	case engine.OutcomeOngoing:
		fmt.Println("status ongoing,", g.CurrentPlayer(), "to act")
	case engine.OutcomeDraw:
		fmt.Println("status draw:", g.DrawReason())
	default:
		fmt.Println("status", g.Outcome(), "winner", g.Winner())
	}
}

func saveGame(g *engine.Game, path string) error {
	data, err := json.MarshalIndent(g.Snapshot(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func loadGame(g *engine.Game, tokens []string) error {
	if len(tokens) < 1 {
		return errors.New("usage: load <file>")
	}
	data, err := os.ReadFile(tokens[0])
	if err != nil {
		return errors.Wrapf(err, "read %s", tokens[0])
	}
	var snap engine.GameSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return errors.Wrapf(err, "parse %s", tokens[0])
	}
	if err := g.RestoreSnapshot(snap); err != nil {
		return errors.Wrap(err, "restore game")
	}
	return nil
}
