// Package admin implements the operator commands of diaryadmin: creating
// admin accounts, changing roles and applying migrations.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/services"
)

const usage = `Usage: diaryadmin [flags] <command>

Commands:
  create-admin [username] [email]   create an admin account (prompts for the password)
  set-role <email> <user|admin>     change the role of an existing account
  migrate                           apply pending database migrations
  help                              show this message`

var ErrUsage = errors.New("invalid usage")

// AccountService is the part of services.UserService the CLI needs.
type AccountService interface {
	CreateWithRole(ctx context.Context, in services.SignupInput, role models.Role) (*models.User, error)
	SetRole(ctx context.Context, email string, role models.Role) (*models.User, error)
}

type Admin struct {
	accounts AccountService
	migrate  func(ctx context.Context) error
	reader   *bufio.Reader
	out      io.Writer

	getPassword func(w io.Writer, prompt string) ([]byte, error)
}

func New(accounts AccountService, migrate func(ctx context.Context) error, in io.Reader, out io.Writer) *Admin {
	return &Admin{
		accounts:    accounts,
		migrate:     migrate,
		reader:      bufio.NewReader(in),
		out:         out,
		getPassword: GetPassword,
	}
}

// Run executes the command named by args[0].
func (a *Admin) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "create-admin":
		return a.createAdmin(ctx, rest)
	case "set-role":
		return a.setRole(ctx, rest)
	case "migrate":
		if err := a.migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Migrations applied")
		return nil
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}
}

func (a *Admin) createAdmin(ctx context.Context, args []string) error {
	var in services.SignupInput
	var err error

	if len(args) > 0 {
		in.Username = args[0]
	} else if in.Username, err = GetSimpleText(a.reader, "Enter user name", a.out); err != nil {
		return err
	}
	if len(args) > 1 {
		in.Email = args[1]
	} else if in.Email, err = GetSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}

	pw, err := a.getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := a.getPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	if string(pw) != string(confirm) {
		return errors.New("passwords do not match")
	}
	in.Password = string(pw)
	clear(pw)
	clear(confirm)

	u, err := a.accounts.CreateWithRole(ctx, in, models.RoleAdmin)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Admin %s <%s> created with id %d\n", u.Username, u.Email, u.ID)
	return nil
}

func (a *Admin) setRole(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: set-role <email> <user|admin>")
		return ErrUsage
	}

	u, err := a.accounts.SetRole(ctx, args[0], models.Role(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %s\n", u.Email, u.Role)
	return nil
}
