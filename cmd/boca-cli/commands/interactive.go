package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"boca-cli/internal/access"
	"boca-cli/internal/app"
	"boca-cli/internal/boca"
	"boca-cli/internal/output"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

var (
	interactivePath  string
	interactiveFlags browserFlags
)

func init() {
	interactiveCmd.Flags().StringVarP(&interactivePath, "path", "p", ".", "A setup file, or a directory holding <method>.json(5) files and a default setup.json(5).")
	interactiveFlags.register(interactiveCmd)
	rootCmd.AddCommand(interactiveCmd)
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive [-p <setup-dir-or-file>]",
	Short: "Signs in once and runs methods picked from menus.",
	RunE: func(cmd *cobra.Command, args []string) error {
		invoker, _, err := newInvoker(interactiveFlags)
		if err != nil {
			return err
		}
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "boca> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		r := &repl{
			rl:      rl,
			invoker: invoker,
			path:    interactivePath,
			out:     rl.Stdout(),
		}
		return r.run(cmd.Context())
	},
}

type repl struct {
	rl      *readline.Instance
	invoker app.Invoker
	path    string
	out     io.Writer

	username string
	password string
	role     access.Role
	// category picked from the menu, empty at the top level
	category access.Category
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// setupFile finds the setup a method runs with.
func (r *repl) setupFile(method access.Method) (string, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", app.ErrConfigNotFound, r.path)
	}
	if !info.IsDir() {
		return r.path, nil
	}
	names := []string{"setup.json5", "setup.json"}
	if method != "" {
		names = append([]string{string(method) + ".json5", string(method) + ".json"}, names...)
	}
	for _, name := range names {
		candidate := filepath.Join(r.path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no %s in %s", app.ErrConfigNotFound, strings.Join(names, " or "), r.path)
}

// load reads a setup and replaces its login with the prompted credentials.
func (r *repl) load(path string) (map[string]any, error) {
	raw, err := app.LoadSetup(path)
	if err != nil {
		return nil, err
	}
	raw["login"] = map[string]any{"username": r.username, "password": r.password}
	return raw, nil
}

func (r *repl) readLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	defer r.rl.SetPrompt("boca> ")
	line, err := r.rl.Readline()
	return strings.TrimSpace(line), err
}

// signIn prompts for credentials until BOCA accepts them.
func (r *repl) signIn(ctx context.Context) error {
	path, err := r.setupFile("")
	if err != nil {
		return err
	}
	for {
		username, err := r.readLine("username: ")
		if err != nil {
			return err
		}
		if username == "" {
			continue
		}
		password, err := r.rl.ReadPassword("password: ")
		if err != nil {
			return err
		}
		r.username = username
		r.password = string(password)

		raw, err := r.load(path)
		if err != nil {
			return err
		}
		role, err := r.invoker.ResolveRole(ctx, raw)
		var authErr *boca.AuthError
		if errors.As(err, &authErr) && authErr.Kind == boca.LoginFailed {
			r.printf("%v, try again\n", err)
			continue
		}
		if err != nil {
			return err
		}
		r.role = role
		r.category = ""
		r.printf("signed in as %s (%s)\n", r.username, r.role)
		return nil
	}
}

func (r *repl) menu() {
	if r.category == "" {
		for i, category := range access.Categories(r.role) {
			r.printf("  %d) %s\n", i+1, category)
		}
		return
	}
	methods, err := access.MethodsFor(r.role, r.category)
	if err != nil {
		r.printf("%v\n", err)
		return
	}
	for i, method := range methods {
		r.printf("  %d) %s\n", i+1, method)
	}
	r.printf("  0) back\n")
}

// pick resolves a menu number or a name typed at the prompt.
func (r *repl) pick(token string) (access.Category, access.Method, bool) {
	if method, ok := access.Lookup(token); ok {
		return "", method, true
	}
	for _, category := range access.Categories(r.role) {
		if strings.EqualFold(string(category), token) {
			return category, "", true
		}
	}

	n, err := strconv.Atoi(token)
	if err != nil {
		return "", "", false
	}
	if r.category == "" {
		categories := access.Categories(r.role)
		if n < 1 || n > len(categories) {
			return "", "", false
		}
		return categories[n-1], "", true
	}
	methods, _ := access.MethodsFor(r.role, r.category)
	if n < 1 || n > len(methods) {
		return "", "", false
	}
	return "", methods[n-1], true
}

func (r *repl) invoke(ctx context.Context, method access.Method, path string) error {
	if path == "" {
		var err error
		path, err = r.setupFile(method)
		if err != nil {
			return err
		}
	}
	raw, err := r.load(path)
	if err != nil {
		return err
	}
	out, err := r.invoker.Invoke(ctx, app.Request{Method: method, Raw: raw, Role: r.role})
	if err != nil {
		return err
	}
	return output.Render(r.out, out.Value)
}

func (r *repl) help() {
	r.printf(`  <number>               pick from the menu
  <category>             list the methods of a category
  <method> [setup file]  run a method, the setup defaults to the one in -p
  back                   return to the categories
  login                  sign in again
  exit                   quit
`)
}

func (r *repl) run(ctx context.Context) error {
	err := r.signIn(ctx)
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	r.menu()

	for {
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			r.printf("parse command: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "exit", "quit":
			return nil
		case "help", "?":
			r.help()
			continue
		case "back", "0":
			r.category = ""
			r.menu()
			continue
		case "login":
			err = r.signIn(ctx)
			if err != nil {
				return err
			}
			r.menu()
			continue
		}

		category, method, ok := r.pick(tokens[0])
		if !ok {
			r.printf("unknown choice %q, type help\n", tokens[0])
			continue
		}
		if category != "" {
			if !slices.Contains(access.Categories(r.role), category) {
				r.printf("%v\n", access.ErrNoMethods)
				continue
			}
			r.category = category
			r.menu()
			continue
		}

		path := ""
		if len(tokens) > 1 {
			path = tokens[1]
		}
		err = r.invoke(ctx, method, path)
		var authErr *boca.AuthError
		switch {
		case errors.As(err, &authErr) && authErr.Kind == boca.LoginFailed:
			r.printf("%v\n", err)
			err = r.signIn(ctx)
			if err != nil {
				return err
			}
		case err != nil:
			r.printf("%v (exit code %d)\n", err, app.ExitCode(err))
		}
		r.menu()
	}
}
