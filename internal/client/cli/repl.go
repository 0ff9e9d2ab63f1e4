package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. Handlers receive
// the arguments after the command word.
type execIface interface {
	Connect(ctx context.Context, args []string) error
	Callback(ctx context.Context, args []string) error
	Disconnect(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Handshake(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Get(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Keys(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  connect <network>      start linking facebook, instagram, linkedin, twitter, tiktok or pinterest
  callback [url]         complete a sign-in from the redirect URL
  disconnect <network>   unlink a network
  status                 show linked networks
  handshake              exchange a pending Pinterest code for a token
  set <key>              store an encrypted value
  get <key>              show a stored value
  rm <key>               delete a stored value
  keys                   list stored keys
  export <key> [file]    write a value to a file under ./exports
  backup                 upload an encrypted backup
  restore <object>       restore a backup
  exit | quit            leave the program`

func prompt(status string) string {
	return fmt.Sprintf("vx%s> ", status)
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or when the user types "exit" or "quit". Handler
// errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(prompt(statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "connect":
			handler = a.Connect
		case "callback":
			handler = a.Callback
		case "disconnect":
			handler = a.Disconnect
		case "status":
			handler = a.Status
		case "handshake":
			handler = a.Handshake
		case "set":
			handler = a.Set
		case "get":
			handler = a.Get
		case "rm":
			handler = a.Remove
		case "keys":
			handler = a.Keys
		case "export":
			handler = a.Export
		case "backup":
			handler = a.Backup
		case "restore":
			handler = a.Restore
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if handler != nil {
			if err := handler(ctx, args); err != nil {
				printlnFn("error:", err)
			}
		}
	}
}
