package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rmaloney/backoffice/internal/client"
	"github.com/rmaloney/backoffice/internal/models"
	"github.com/rmaloney/backoffice/internal/query"
	"github.com/rmaloney/backoffice/internal/session"
)

// App is the interactive admin console. It wires the API client, the
// persisted session, the query cache, and the route guards into a terminal
// command loop.
type App struct {
	api     *client.Client
	session *session.Store
	cache   *query.Cache
	router  *Router
	view    *ListView

	in    *bufio.Scanner
	out   io.Writer
	route string
}

// NewApp assembles the console around the given client and session store
func NewApp(api *client.Client, sess *session.Store, in io.Reader, out io.Writer) *App {
	a := &App{
		api:     api,
		session: sess,
		cache:   query.NewCache(),
		in:      bufio.NewScanner(in),
		out:     out,
	}
	a.router = NewRouter(sess)
	a.view = NewListView(a.cache, api.Users(), a.confirmDelete, DefaultQuietPeriod)
	a.route = a.router.Resolve(RouteDashboard)
	return a
}

// Run starts the command loop and blocks until the input ends, the user
// quits, or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	a.refreshCurrentUser(ctx)

	fmt.Fprintln(a.out, "backoffice console - type 'help' for commands")
	a.render(ctx)

	for {
		fmt.Fprintf(a.out, "%s> ", a.route)
		if !a.in.Scan() {
			a.view.Close()
			return a.in.Err()
		}
		if err := ctx.Err(); err != nil {
			a.view.Close()
			return err
		}

		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			a.view.Close()
			return nil
		}

		if err := a.dispatch(ctx, line); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

// refreshCurrentUser revalidates a persisted token against the server
func (a *App) refreshCurrentUser(ctx context.Context) {
	if !a.session.IsAuthenticated() {
		return
	}

	user, err := a.api.Auth().CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			// Stale token from a previous run; drop the session.
			_ = a.session.Logout()
		}
		return
	}
	_ = a.session.SetUser(user)
}

// dispatch parses and executes one command line
func (a *App) dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		a.printHelp()
		return nil
	case "go":
		if len(args) != 1 {
			return fmt.Errorf("usage: go <path>")
		}
		a.navigate(ctx, args[0])
		return nil
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		return a.login(ctx, args[0], args[1])
	case "register":
		if len(args) != 3 {
			return fmt.Errorf("usage: register <name> <email> <password>")
		}
		return a.register(ctx, args[0], args[1], args[2])
	case "logout":
		if err := a.session.Logout(); err != nil {
			return err
		}
		a.navigate(ctx, RouteLogin)
		return nil
	case "search":
		a.view.SetSearch(strings.Join(args, " "))
		a.view.FlushSearch()
		return a.showUsers(ctx)
	case "page":
		if len(args) != 1 {
			return fmt.Errorf("usage: page <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("page must be a number")
		}
		a.view.SetPage(n)
		return a.showUsers(ctx)
	case "next":
		a.view.SetPage(a.view.Page() + 1)
		return a.showUsers(ctx)
	case "prev":
		a.view.SetPage(a.view.Page() - 1)
		return a.showUsers(ctx)
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: show <id>")
		}
		return a.showUser(ctx, args[0])
	case "create":
		if len(args) < 3 || len(args) > 4 {
			return fmt.Errorf("usage: create <name> <email> <password> [role]")
		}
		return a.createUser(ctx, args)
	case "update":
		if len(args) < 2 {
			return fmt.Errorf("usage: update <id> <field>=<value> ...")
		}
		return a.updateUser(ctx, args[0], args[1:])
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete <id>")
		}
		return a.deleteUser(ctx, args[0])
	case "status":
		a.printStatus(ctx)
		return nil
	case "refresh":
		a.render(ctx)
		return nil
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

// navigate resolves a path through the route guards and renders the result
func (a *App) navigate(ctx context.Context, path string) {
	resolved := a.router.Resolve(path)
	if resolved != path {
		fmt.Fprintf(a.out, "redirected to %s\n", resolved)
	}
	a.route = resolved
	a.render(ctx)
}

// render shows the current screen
func (a *App) render(ctx context.Context) {
	a.route = a.router.Resolve(a.route)

	switch a.route {
	case RouteLogin:
		fmt.Fprintln(a.out, "sign in with: login <email> <password>")
	case RouteRegister:
		fmt.Fprintln(a.out, "create an account with: register <name> <email> <password>")
	case RouteDashboard:
		if user := a.session.Current(); user != nil {
			fmt.Fprintf(a.out, "welcome back, %s (%s)\n", user.Name, user.Role)
		} else {
			fmt.Fprintln(a.out, "welcome back")
		}
	case RouteUsers:
		if err := a.showUsers(ctx); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	case RouteSettings:
		if user := a.session.Current(); user != nil {
			fmt.Fprintf(a.out, "account: %s <%s> role=%s status=%s\n", user.Name, user.Email, user.Role, user.Status)
		}
	}
}

func (a *App) login(ctx context.Context, email, password string) error {
	form := loginForm{Email: email, Password: password}
	if err := validateForm(form); err != nil {
		return err
	}

	resp, err := a.api.Auth().Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.session.Login(resp.Token, resp.User); err != nil {
		return err
	}

	a.navigate(ctx, RouteDashboard)
	return nil
}

func (a *App) register(ctx context.Context, name, email, password string) error {
	form := registerForm{Name: name, Email: email, Password: password}
	if err := validateForm(form); err != nil {
		return err
	}

	resp, err := a.api.Auth().Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	if err := a.session.Login(resp.Token, resp.User); err != nil {
		return err
	}

	a.navigate(ctx, RouteDashboard)
	return nil
}

// showUsers renders the users table for the view's current page and search
func (a *App) showUsers(ctx context.Context) error {
	if a.router.Resolve(RouteUsers) != RouteUsers {
		a.navigate(ctx, RouteUsers)
		return nil
	}
	a.route = RouteUsers

	page, err := a.view.Load(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
	for _, user := range page.Users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", user.ID, user.Name, user.Email, user.Role, user.Status)
	}
	tw.Flush()

	fmt.Fprintf(a.out, "page %d of %d (%d users)  %s\n",
		page.Page, page.TotalPages(), page.Total, formatPageNumbers(page.Page, page.TotalPages()))
	return nil
}

// formatPageNumbers renders the pagination controls line
func formatPageNumbers(current, total int) string {
	pages := PageNumbers(current, total, 5)
	parts := make([]string, len(pages))
	for i, p := range pages {
		switch {
		case p == Ellipsis:
			parts[i] = "..."
		case p == current:
			parts[i] = "[" + strconv.Itoa(p) + "]"
		default:
			parts[i] = strconv.Itoa(p)
		}
	}
	return strings.Join(parts, " ")
}

func (a *App) showUser(ctx context.Context, id string) error {
	user, err := a.view.LoadUser(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nstatus: %s\ncreated: %s\nupdated: %s\n",
		user.Name, user.Email, user.Role, user.Status,
		user.CreatedAt.Format("2006-01-02 15:04"), user.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

func (a *App) createUser(ctx context.Context, args []string) error {
	form := createForm{Name: args[0], Email: args[1], Password: args[2]}
	if len(args) == 4 {
		form.Role = args[3]
	}
	if err := validateForm(form); err != nil {
		return err
	}

	user, err := a.view.Create(ctx, client.CreateUserInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created %s (%s)\n", user.Name, user.ID)
	return a.showUsers(ctx)
}

func (a *App) updateUser(ctx context.Context, id string, assignments []string) error {
	var input client.UpdateUserInput
	for _, assignment := range assignments {
		field, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return fmt.Errorf("expected <field>=<value>, got %q", assignment)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(field) {
		case "name":
			input.Name = &value
		case "email":
			input.Email = &value
		case "role":
			input.Role = &value
		case "status":
			input.Status = &value
		default:
			return fmt.Errorf("unknown field %q", field)
		}
	}

	user, err := a.view.Update(ctx, id, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "updated %s\n", user.Name)
	return a.showUsers(ctx)
}

func (a *App) deleteUser(ctx context.Context, id string) error {
	user, err := a.view.LoadUser(ctx, id)
	if err != nil {
		return err
	}

	confirmed, err := a.view.Delete(ctx, user)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(a.out, "canceled")
		return nil
	}

	fmt.Fprintf(a.out, "deleted %s\n", user.Name)
	return a.showUsers(ctx)
}

// printStatus reports API reachability and the current session
func (a *App) printStatus(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Health(checkCtx); err != nil {
		fmt.Fprintf(a.out, "api: offline (%v)\n", err)
	} else {
		fmt.Fprintln(a.out, "api: online")
	}

	switch user := a.session.Current(); {
	case user != nil:
		fmt.Fprintf(a.out, "session: signed in as %s <%s>\n", user.Name, user.Email)
	case a.session.IsAuthenticated():
		fmt.Fprintln(a.out, "session: authenticated")
	default:
		fmt.Fprintln(a.out, "session: logged out")
	}
}

// confirmDelete prompts before a delete mutation fires
func (a *App) confirmDelete(user *client.User) bool {
	fmt.Fprintf(a.out, "delete %s <%s>? [y/N] ", user.Name, user.Email)
	if !a.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(a.in.Text()))
	return answer == "y" || answer == "yes"
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `commands:
  go <path>                                navigate (/login /register /dashboard /users /settings)
  login <email> <password>                 sign in
  register <name> <email> <password>       create an account
  logout                                   sign out
  search <text>                            filter users by name or email
  page <n> | next | prev                   change page
  show <id>                                show one user
  create <name> <email> <password> [role]  create a user (admin)
  update <id> <field>=<value> ...          update name/email/role/status
  delete <id>                              delete a user (admin, with confirmation)
  status                                   check API reachability and session
  refresh                                  redraw the current screen
  quit`)
}
