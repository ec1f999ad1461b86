package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"codeberg.org/archviz/studio/internal/config"
	"codeberg.org/archviz/studio/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

const loginTimeout = 15 * time.Second

func main() {
	flags := config.ParseConsoleFlags(os.Args[1:])

	if !term.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "the console needs an interactive terminal")
		os.Exit(1)
	}

	username := flags.Username
	if username == "" {
		username = prompt("username: ")
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(os.Stdin.Fd())
	fmt.Println()

	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read password: %v\n", err)
		os.Exit(1)
	}

	client := tui.NewRESTClient(flags.ServerURL)

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	err = client.Login(ctx, username, string(password))
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	feed, err := tui.NewWSClient(flags.ServerURL, client.Token())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	go feed.Run()
	defer feed.Close()

	app := tui.NewApp(client, feed, username)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running console: %v\n", err)
		os.Exit(1) //nolint:gocritic // feed is closed by process exit
	}
}

func prompt(label string) string {
	fmt.Print(label)

	line, _ := bufio.NewReader(os.Stdin).ReadString('\n') //nolint:errcheck // empty input is rejected by login

	return strings.TrimSpace(line)
}
