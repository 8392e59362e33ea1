package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"callbreak/internal/bot"
	"callbreak/internal/config"
	"callbreak/internal/game"
)

const you game.PlayerID = "you"

func main() {
	cfg := config.Load()
	cpu := bot.New(cfg.Bot)

	e := game.NewEngine(game.WithMaxRounds(cfg.MaxRounds))
	for _, p := range []struct {
		id   game.PlayerID
		name string
	}{{you, "You"}, {"west", "West"}, {"north", "North"}, {"east", "East"}} {
		if _, err := e.AddPlayer(p.id, p.name); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := e.StartGame(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	in := bufio.NewReader(os.Stdin)
	round := 0
	for e.Phase() != game.PhaseGameEnd {
		if e.Round() != round {
			round = e.Round()
			pterm.DefaultSection.Println(fmt.Sprintf("Round %d of %d", round, e.MaxRounds()))
		}
		id, _ := e.CurrentPlayer()
		view, err := e.PrivateSnapshot(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if id != you {
			botTurn(e, cpu, id, view)
			continue
		}

		printView(view)
		line, err := in.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Println("\nbye")
			return
		}
		if err := humanTurn(e, view, strings.TrimSpace(line)); err != nil {
			pterm.Warning.Println(err)
		}
	}

	pterm.DefaultSection.Println("Game over")
	js, _ := json.MarshalIndent(e.Standings(), "", "  ")
	fmt.Println(string(js))
}

func botTurn(e *game.Engine, cpu *bot.Bot, id game.PlayerID, view game.PrivateSnapshot) {
	var err error
	switch view.Phase {
	case game.PhaseCalling:
		n := cpu.Call(view)
		fmt.Printf("%s calls %d\n", id, n)
		_, err = e.MakeCall(id, n)
	case game.PhaseTrumpSelection:
		s := cpu.Trump(view.Cards)
		fmt.Printf("%s picks %s as trump\n", id, s)
		err = e.SetTrump(id, s)
	case game.PhasePlaying:
		c := cpu.Play(view)
		fmt.Printf("%s plays %s\n", id, short(c))
		var res game.PlayResult
		res, err = e.PlayCard(id, c)
		report(res)
	}
	if errors.Is(err, game.ErrInvalidCallConfiguration) {
		fmt.Println("Calls add up to 13, calling again.")
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "bot error:", err)
		os.Exit(1)
	}
}

func humanTurn(e *game.Engine, view game.PrivateSnapshot, line string) error {
	switch view.Phase {
	case game.PhaseCalling:
		n, err := strconv.Atoi(line)
		if err != nil {
			return err
		}
		_, err = e.MakeCall(you, n)
		if errors.Is(err, game.ErrInvalidCallConfiguration) {
			fmt.Println("Calls add up to 13, calling again.")
			return nil
		}
		return err
	case game.PhaseTrumpSelection:
		s, err := game.ParseSuit(line)
		if err != nil {
			return err
		}
		return e.SetTrump(you, s)
	case game.PhasePlaying:
		i, err := strconv.Atoi(line)
		if err != nil || i < 1 || i > len(view.ValidPlays) {
			return fmt.Errorf("pick a number from 1 to %d", len(view.ValidPlays))
		}
		res, err := e.PlayCard(you, view.ValidPlays[i-1])
		report(res)
		return err
	}
	return nil
}

func printView(v game.PrivateSnapshot) {
	fmt.Print("Hand:")
	for _, c := range v.Cards {
		fmt.Printf(" %s", short(c))
	}
	fmt.Println()

	switch v.Phase {
	case game.PhaseCalling:
		fmt.Print("Your call (0-13): ")
	case game.PhaseTrumpSelection:
		fmt.Print("Choose trump (hearts, diamonds, clubs, spades): ")
	case game.PhasePlaying:
		fmt.Printf("Trump: %s  Trick:", v.TrumpSuit)
		for _, tp := range v.CurrentTrick {
			fmt.Printf(" %s", short(tp.Card))
		}
		fmt.Println()
		for i, c := range v.ValidPlays {
			fmt.Printf("  %d) %s\n", i+1, short(c))
		}
		fmt.Print("> ")
	}
}

func report(res game.PlayResult) {
	if res.TrickComplete {
		fmt.Printf("  trick to %s\n", res.TrickWinner)
	}
	if res.RoundComplete {
		fmt.Printf("\nRound %d scores:\n", res.Round)
		for _, s := range res.RoundScores {
			fmt.Printf("  %-6s call %2d  won %2d  %+d  total %d\n", s.Name, s.Call, s.TricksWon, s.Points, s.Score)
		}
	}
}

// short renders a card as rank letter plus colored suit symbol, e.g. Q♥.
func short(c game.Card) string {
	r := c.Rank.String()
	if c.Rank >= game.Jack {
		r = strings.ToUpper(r[:1])
	}
	switch c.Suit {
	case game.Hearts:
		return r + pterm.LightRed("♥")
	case game.Diamonds:
		return r + pterm.LightRed("♦")
	case game.Clubs:
		return r + pterm.Black("♣")
	default:
		return r + pterm.Black("♠")
	}
}
