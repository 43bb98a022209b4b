package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Dashboard(ctx context.Context) error
	List(ctx context.Context, resource string, filters []string) error
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	SetOrderStatus(ctx context.Context, id, status string) error
}

// listCommands maps REPL commands to resource names understood by List.
var listCommands = map[string]string{
	"products":  "products",
	"orders":    "orders",
	"suppliers": "suppliers",
	"customers": "customers",
	"documents": "documents",
	"messages":  "messages",
}

// runREPL reads commands line by line and dispatches them to a. The loop
// exits on EOF, on "exit"/"quit", or when ctx is done.
//
//	Not logged in:
//	  - help                    show available commands
//	  - login                   sign in
//	  - exit | quit             leave the program
//
//	Logged in:
//	  - whoami                  show the signed-in user
//	  - dashboard               counts for every collection
//	  - products|orders|suppliers|customers|documents|messages [name=value ...]
//	  - approve <id>            approve a document
//	  - reject <id>             reject a document
//	  - status <id> <status>    change an order status
//	  - logout                  sign out
//
// Handlers report their own errors; the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "bd %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if resource, ok := listCommands[cmd]; ok {
			_ = a.List(ctx, resource, args)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: whoami, dashboard, products, orders, suppliers, customers, documents, messages, approve <id>, reject <id>, status <id> <status>, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "approve", "reject":
			if len(args) != 1 {
				fmt.Fprintf(out, "Usage: %s <id>\n", cmd)
				continue
			}
			if cmd == "approve" {
				_ = a.Approve(ctx, args[0])
			} else {
				_ = a.Reject(ctx, args[0])
			}

		case "status":
			if len(args) != 2 {
				fmt.Fprintln(out, "Usage: status <id> <new|confirmed|shipped|cancelled>")
				continue
			}
			_ = a.SetOrderStatus(ctx, args[0], args[1])

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
