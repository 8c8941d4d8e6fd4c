// boardctl is a terminal client for the maestro API. It drives the same
// sync layer the web board uses: list renders the columns, add and rm go
// through the confirm gate, move patches status directly.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Gokul-Webzenith/maestro-done/internal/domain"
	"github.com/Gokul-Webzenith/maestro-done/internal/dto"
	"github.com/Gokul-Webzenith/maestro-done/pkg/syncclient"
)

const usage = `usage: boardctl [flags] <command> [args]

commands:
  list                         board columns with urgency markers and totals
  add <text> <start> <end>     stage a new task and confirm (start/end: 2006-01-02T15:04)
  move <id> <status>           drag a task to another column
  rm <id>                      stage a delete and confirm

flags:
`

var columns = []domain.Status{
	domain.StatusTodo,
	domain.StatusBacklog,
	domain.StatusInProgress,
	domain.StatusDone,
	domain.StatusCancelled,
}

var urgencyMark = map[domain.UrgencyTier]string{
	domain.TierNormal:   " ",
	domain.TierWarning:  "~",
	domain.TierCritical: "!",
	domain.TierOverdue:  "x",
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "API base URL")
	email := flag.String("email", os.Getenv("MAESTRO_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("MAESTRO_PASSWORD"), "account password")
	register := flag.Bool("register", false, "create the account instead of logging in")
	yes := flag.Bool("y", false, "answer yes to confirmation prompts")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *email == "" || *password == "" {
		fatal("email and password are required (flags or MAESTRO_EMAIL / MAESTRO_PASSWORD)")
	}

	ctx := context.Background()
	tr, err := syncclient.NewTransport(*addr, syncclient.TransportOptions{})
	if err != nil {
		fatal("bad address: %v", err)
	}
	if *register {
		err = tr.Register(ctx, *email, *password)
	} else {
		err = tr.Login(ctx, *email, *password)
	}
	if err != nil {
		fatal("authentication failed: %v", err)
	}

	store := syncclient.NewStore(tr)
	args := flag.Args()[1:]

	switch cmd := flag.Arg(0); cmd {
	case "list":
		err = runList(ctx, store)
	case "add":
		err = runAdd(ctx, store, args, *yes)
	case "move":
		err = runMove(ctx, store, args)
	case "rm":
		err = runRm(ctx, store, args, *yes)
	default:
		fatal("unknown command %q", cmd)
	}
	if err != nil {
		fatal("%v", err)
	}
}

func runList(ctx context.Context, store *syncclient.Store) error {
	if err := store.Refresh(ctx); err != nil {
		return err
	}
	now := time.Now()
	for _, col := range columns {
		todos := store.ByStatus(col)
		if len(todos) == 0 {
			continue
		}
		fmt.Printf("%s (%d)\n", col, len(todos))
		for _, t := range todos {
			mark := urgencyMark[syncclient.Urgency(t, now)]
			fmt.Printf("  %s #%-4d %-40s ends %s\n",
				mark, t.ID, t.Text, t.EndAt.Local().Format("2006-01-02 15:04"))
		}
	}
	sum := store.Summary(now)
	fmt.Printf("\ntotal %d  in progress %d  done %d  overdue %d\n",
		sum.Total, sum.InProgress, sum.Done, sum.Overdue)
	return nil
}

func runAdd(ctx context.Context, store *syncclient.Store, args []string, yes bool) error {
	if len(args) != 3 {
		return fmt.Errorf("add wants <text> <start> <end>")
	}
	start, err := splitInstant(args[1])
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := splitInstant(args[2])
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	form := dto.TodoFormRequest{
		Text:      args[0],
		Status:    string(domain.StatusTodo),
		StartDate: start[0], StartTime: start[1],
		EndDate: end[0], EndTime: end[1],
	}

	store.Stage(syncclient.Mutation{Kind: syncclient.MutationCreate, Form: &form})
	if !confirm(fmt.Sprintf("create %q (%s to %s)?", form.Text, args[1], args[2]), yes) {
		store.CancelConfirm()
		fmt.Println("cancelled")
		return nil
	}
	if err := store.Confirm(ctx); err != nil {
		return err
	}
	fmt.Println("created")
	return nil
}

func runMove(ctx context.Context, store *syncclient.Store, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("move wants <id> <status>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", args[0])
	}
	status := domain.Status(args[1])
	if !status.Valid() {
		return fmt.Errorf("bad status %q", args[1])
	}
	if err := store.Move(ctx, id, status); err != nil {
		return err
	}
	fmt.Printf("#%d moved to %s\n", id, status)
	return nil
}

func runRm(ctx context.Context, store *syncclient.Store, args []string, yes bool) error {
	if len(args) != 1 {
		return fmt.Errorf("rm wants <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", args[0])
	}

	store.Stage(syncclient.Mutation{Kind: syncclient.MutationDelete, ID: id})
	if !confirm(fmt.Sprintf("delete #%d? this cannot be undone", id), yes) {
		store.CancelConfirm()
		fmt.Println("cancelled")
		return nil
	}
	if err := store.Confirm(ctx); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

// splitInstant turns "2006-01-02T15:04" into the date and time parts the
// form body carries separately.
func splitInstant(s string) ([2]string, error) {
	date, clock, ok := strings.Cut(s, "T")
	if !ok {
		return [2]string{}, fmt.Errorf("want 2006-01-02T15:04, got %q", s)
	}
	if _, err := time.Parse("2006-01-02 15:04", date+" "+clock); err != nil {
		return [2]string{}, err
	}
	return [2]string{date, clock}, nil
}

func confirm(prompt string, yes bool) bool {
	if yes {
		return true
	}
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
