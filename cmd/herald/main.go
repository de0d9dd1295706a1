// herald is the interactive console for the notification toolkit.
// It wires the same container the daemon uses and sends synchronously,
// so a delivery can be exercised end to end from a prompt.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/openherald/herald/pkg/app"
	"github.com/openherald/herald/pkg/bus"
	"github.com/openherald/herald/pkg/config"
	"github.com/openherald/herald/pkg/domain"
	"github.com/openherald/herald/pkg/logger"
	"github.com/openherald/herald/pkg/notifier"
)

func main() {
	configPath := flag.String("config", "herald.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "herald: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.SetLevel(logger.LevelError) // keep the prompt clean

	container, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer container.Stop()

	rl, err := readline.New("herald> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Printf("herald console — channels: %s\n", strings.Join(container.Senders.Keys(), ", "))
	fmt.Println(`type "help" for commands`)

	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit":
			return nil
		case "help":
			printHelp()
		case "channels":
			for _, name := range container.Senders.Keys() {
				fmt.Println(" ", name)
			}
		case "send":
			cmdSend(ctx, container, args[1:])
		case "history":
			cmdHistory(container, args[1:])
		case "status":
			cmdStatus(container)
		default:
			fmt.Printf("unknown command %q — type \"help\"\n", args[0])
		}
	}
}

func printHelp() {
	fmt.Print(`commands:
  send <channel> <recipient> <body...>   deliver a notification now
  channels                               list registered channels
  history [n]                            show recent delivery attempts
  status                                 delivery counts by status
  quit                                   leave
`)
}

func cmdSend(ctx context.Context, c *app.Container, args []string) {
	if len(args) < 3 {
		fmt.Println("usage: send <channel> <recipient> <body...>")
		return
	}
	channel, recipient := args[0], args[1]
	body := strings.Join(args[2:], " ")

	msg := notifier.NewMessage(domain.ChannelType(strings.ToLower(channel)), recipient, "", body)
	c.Dispatcher.Dispatch(ctx, bus.Envelope{Message: msg, Origin: "cli"})

	attempts, err := c.History.Recent(1)
	if err != nil || len(attempts) == 0 {
		fmt.Println("sent (no history available)")
		return
	}
	a := attempts[0]
	if a.Status == domain.StatusSent {
		fmt.Printf("sent %s via %s\n", a.ID, a.Channel)
	} else {
		fmt.Printf("failed: %s\n", a.Error)
	}
}

func cmdHistory(c *app.Container, args []string) {
	n := 10
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil {
			n = parsed
		}
	}
	attempts, err := c.History.Recent(n)
	if err != nil {
		fmt.Println("history error:", err)
		return
	}
	for _, a := range attempts {
		line := fmt.Sprintf("%s  %-9s %-10s %s", a.CreatedAt.Format("2006-01-02 15:04:05"), a.Channel, a.Status, a.Recipient)
		if a.Error != "" {
			line += "  (" + a.Error + ")"
		}
		fmt.Println(line)
	}
}

func cmdStatus(c *app.Container) {
	counts, err := c.History.CountByStatus()
	if err != nil {
		fmt.Println("status error:", err)
		return
	}
	for status, n := range counts {
		fmt.Printf("  %-8s %d\n", status, n)
	}
}
