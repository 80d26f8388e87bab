package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/user"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nvasile/blockfall/internal/engine"
	"github.com/nvasile/blockfall/internal/netclient"
	"github.com/nvasile/blockfall/internal/randomizer"
	"github.com/nvasile/blockfall/internal/tui"
)

func main() {
	relayAddr := flag.String("relay", "ws://localhost:8080/ws", "Relay WebSocket address")
	playerName := flag.String("name", "", "Display name (defaults to OS username)")
	watch := flag.Bool("watch", false, "Watch other streams instead of playing")
	seed := flag.Uint64("seed", 0, "Randomizer seed (0 = pick one)")
	savePath := flag.String("save", "", "Write the input trace here when the game ends")
	flag.Parse()

	name := *playerName
	if name == "" {
		if u, err := user.Current(); err == nil && u.Username != "" {
			name = u.Username
		} else {
			name = "Player"
		}
	}

	client, err := netclient.Dial(*relayAddr, name, !*watch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to relay at %s: %v\n", *relayAddr, err)
		fmt.Fprintf(os.Stderr, "Make sure the relay is running (go run ./cmd/server)\n")
		os.Exit(1)
	}
	defer client.Close()

	var model tui.Model
	if *watch {
		model = tui.NewWatchModel(name, client)
	} else {
		cfg := engine.DefaultConfig()
		cfg.Seed = *seed
		if cfg.Seed == 0 {
			cfg.Seed = rand.New(rand.NewSource(time.Now().UnixNano())).Uint64()
		}
		eng := engine.New(cfg, randomizer.New(cfg.Randomizer, cfg.Seed))
		model = tui.NewPlayModel(eng, name, client, *savePath)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Wire the program into the client so the read pump can send tea.Msgs.
	client.SetProgram(p)
	client.Start()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
