package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/snake-duel/internal/client"
	"github.com/yourusername/snake-duel/internal/client/connection"
	"github.com/yourusername/snake-duel/internal/client/ui"
	"github.com/yourusername/snake-duel/internal/config"
	"github.com/yourusername/snake-duel/internal/logging"
	"github.com/yourusername/snake-duel/internal/protocol"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)

	serverURL := flag.String("server", "ws://localhost:5000/ws", "WebSocket server URL")
	codecName := flag.String("codec", "json", "Wire codec: json or msgpack")
	roomName := flag.String("room", "", "Room to join")
	playerName := flag.String("name", "", "Player name")
	useTermloop := flag.Bool("termloop", false, "Use termloop for game rendering")
	logFile := flag.String("log-file", "", "Write client logs to this file")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}
	codec, ok := protocol.CodecByName(*codecName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown codec %q\n", *codecName)
		os.Exit(2)
	}

	// the terminal belongs to the UI; logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logging.SetOutput(logOut)
	logging.SetLevel(cfg.LogLevel)

	if *useTermloop {
		if err := runTermloopGame(*serverURL, codec, *roomName, *playerName, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	model := ui.NewModel(ui.Options{
		ServerURL: *serverURL,
		Codec:     codec,
		Board:     ui.Board{SizeX: cfg.SizeX, SizeY: cfg.SizeY, Scale: cfg.Scale},
		Name:      *playerName,
		Room:      *roomName,
	})
	defer model.Disconnect()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runTermloopGame connects, joins the room right away and hands the terminal
// to termloop
func runTermloopGame(serverURL string, codec protocol.Codec, room, name string, cfg *config.Config) error {
	if room == "" || name == "" {
		return fmt.Errorf("-termloop needs -room and -name")
	}

	mgr := connection.NewManager(serverURL, codec)
	if err := mgr.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer mgr.Disconnect()

	if err := mgr.JoinRoom(room, name); err != nil {
		return fmt.Errorf("join room: %w", err)
	}

	client.NewTermloopGame(mgr, cfg.SizeX, cfg.SizeY).Start()
	return nil
}
