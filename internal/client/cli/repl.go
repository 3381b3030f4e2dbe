package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bucketlist/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	consumeRedirect() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Discover(ctx context.Context) error
	Mine(ctx context.Context, filter string) error
	Show(ctx context.Context, id int64) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Done(ctx context.Context, id int64) error
	Like(ctx context.Context, id int64) error
	Comment(ctx context.Context, id int64) error

	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, discover, show <id>, help, exit"
	helpMember = "Available commands: discover, mine [all|active|completed], show <id>, add, edit <id>, " +
		"delete <id>, done <id>, like <id>, comment <id>, profile, editprofile, passwd, whoami, logout, exit"
)

// idCommands take a single numeric argument.
var idCommands = map[string]func(execIface, context.Context, int64) error{
	"show":    execIface.Show,
	"edit":    execIface.Edit,
	"delete":  execIface.Delete,
	"done":    execIface.Done,
	"like":    execIface.Like,
	"comment": execIface.Comment,
}

// runREPL starts a simple read–eval–print loop for the bucket-list CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Errors returned by command handlers are
// printed as one line. After each command, if the server dropped the
// session, the user is sent to the login prompt. The loop exits on EOF or
// when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bucket (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "passwd":
			cmdErr = a.ChangePassword(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "d", "discover":
			cmdErr = a.Discover(ctx)
		case "mine":
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			cmdErr = a.Mine(ctx, filter)
		case "add":
			cmdErr = a.Add(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "editprofile":
			cmdErr = a.EditProfile(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			run, ok := idCommands[cmd]
			if !ok {
				printlnFn("Unknown command:", cmd)
				continue
			}
			id, ok := parseID(args)
			if !ok {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			cmdErr = run(a, ctx, id)
		}

		if cmdErr != nil {
			printlnFn("Error:", services.AsResult(cmdErr).Error)
		}
		if a.consumeRedirect() {
			printlnFn("Your session has ended, please log in again.")
			if err := a.Login(ctx); err != nil {
				printlnFn("Error:", services.AsResult(err).Error)
			}
		}
	}
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
