package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/userdir-go/internal/cli/connection"
	"github.com/yndnr/userdir-go/internal/cli/output"
	"github.com/yndnr/userdir-go/internal/core/domain"
)

// UserCommand returns the user subcommand group.
func UserCommand() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Aliases: []string{"users"},
		Usage:   "Directory records",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List users in directory order",
				Action:  userList,
			},
			{
				Name:      "get",
				Usage:     "Show the user at INDEX",
				ArgsUsage: "INDEX",
				Action:    userGet,
			},
			{
				Name:   "create",
				Usage:  "Append a user owned by the logged-in identity",
				Flags:  fieldFlags(),
				Action: userCreate,
			},
			{
				Name:      "update",
				Usage:     "Change fields of a user you created",
				ArgsUsage: "INDEX",
				Flags:     fieldFlags(),
				Action:    userUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Remove a user you created; later indices shift down",
				ArgsUsage: "INDEX",
				Action:    userDelete,
			},
		},
	}
}

func fieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "login name"},
		&cli.StringFlag{Name: "real-name", Aliases: []string{"n"}, Usage: "display name"},
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "contact address"},
	}
}

// parseIndex validates the INDEX argument.
func parseIndex(c *cli.Context) (int, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one INDEX argument")
	}
	arg := c.Args().First()
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("invalid index %q: must be a non-negative integer", arg)
	}
	return idx, nil
}

func usersTable(start int, users ...domain.User) *output.Table {
	t := output.NewTable("INDEX", "USERNAME", "REAL_NAME", "EMAIL", "CREATED_BY")
	for i, u := range users {
		t.AddRow(strconv.Itoa(start+i), orDash(u.Username), orDash(u.RealName), orDash(u.Email), orDash(u.CreatedBy))
	}
	return t
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func userList(c *cli.Context) error {
	client, flags, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/users")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var users []domain.User
	if err := connection.ParseResponse(resp, &users); err != nil {
		return err
	}

	if flags.Output != output.FormatTable {
		if users == nil {
			users = []domain.User{}
		}
		return render(c, flags.Output, users)
	}
	if len(users) == 0 {
		fmt.Fprintln(stdout(c), "No users.")
		return nil
	}
	return usersTable(0, users...).Render(stdout(c))
}

func userGet(c *cli.Context) error {
	idx, err := parseIndex(c)
	if err != nil {
		return err
	}
	client, flags, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, fmt.Sprintf("/users/%d", idx))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var user domain.User
	if err := connection.ParseResponse(resp, &user); err != nil {
		return err
	}

	if flags.Output != output.FormatTable {
		return render(c, flags.Output, user)
	}
	return usersTable(idx, user).Render(stdout(c))
}

func userCreate(c *cli.Context) error {
	client, flags, err := NewClient(c)
	if err != nil {
		return err
	}
	if err := requireSession(client); err != nil {
		return err
	}

	fields := domain.UserFields{
		Username: c.String("username"),
		RealName: c.String("real-name"),
		Email:    c.String("email"),
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/users", fields)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var result struct {
		Message string      `json:"message" yaml:"message"`
		User    domain.User `json:"user" yaml:"user"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return sessionHint(err)
	}

	if flags.Output != output.FormatTable {
		return render(c, flags.Output, result)
	}
	fmt.Fprintln(stdout(c), result.Message)
	return nil
}

func userUpdate(c *cli.Context) error {
	idx, err := parseIndex(c)
	if err != nil {
		return err
	}

	var patch domain.UserPatch
	if c.IsSet("username") {
		v := c.String("username")
		patch.Username = &v
	}
	if c.IsSet("real-name") {
		v := c.String("real-name")
		patch.RealName = &v
	}
	if c.IsSet("email") {
		v := c.String("email")
		patch.Email = &v
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update: pass --username, --real-name or --email")
	}

	client, flags, err := NewClient(c)
	if err != nil {
		return err
	}
	if err := requireSession(client); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Put(ctx, fmt.Sprintf("/users/%d", idx), patch)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var user domain.User
	if err := connection.ParseResponse(resp, &user); err != nil {
		return sessionHint(err)
	}

	if flags.Output != output.FormatTable {
		return render(c, flags.Output, user)
	}
	return usersTable(idx, user).Render(stdout(c))
}

func userDelete(c *cli.Context) error {
	idx, err := parseIndex(c)
	if err != nil {
		return err
	}
	client, _, err := NewClient(c)
	if err != nil {
		return err
	}
	if err := requireSession(client); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Delete(ctx, fmt.Sprintf("/users/%d", idx))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return sessionHint(err)
	}

	fmt.Fprintf(stdout(c), "Deleted user at index %d.\n", idx)
	return nil
}
