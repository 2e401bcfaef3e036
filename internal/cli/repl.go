package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var (
	errNotLoggedIn        = errors.New("please log in first")
	errInvalidCredentials = errors.New("invalid username or password")
)

type command struct {
	usage     string
	summary   string
	needsAuth bool
	run       func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"register":      {usage: "register", summary: "create an account and log in", run: a.cmdRegister},
		"login":         {usage: "login", summary: "log in with username and password", run: a.cmdLogin},
		"resume":        {usage: "resume <token>", summary: "log in with a remember-me token", run: a.cmdResume},
		"logout":        {usage: "logout", summary: "log out", needsAuth: true, run: a.cmdLogout},
		"token":         {usage: "token", summary: "issue a remember-me token", needsAuth: true, run: a.cmdToken},
		"passwd":        {usage: "passwd", summary: "change your password", needsAuth: true, run: a.cmdPasswd},
		"deleteaccount": {usage: "deleteaccount", summary: "delete your account and entries", needsAuth: true, run: a.cmdDeleteAccount},
		"new":           {usage: "new", summary: "write a new entry", needsAuth: true, run: a.cmdNew},
		"edit":          {usage: "edit <id>", summary: "edit an entry", needsAuth: true, run: a.cmdEdit},
		"show":          {usage: "show <id>", summary: "show an entry", needsAuth: true, run: a.cmdShow},
		"list":          {usage: "list", summary: "list your entries", needsAuth: true, run: a.cmdList},
		"today":         {usage: "today", summary: "show today's entry", needsAuth: true, run: a.cmdToday},
		"range":         {usage: "range <from> <to>", summary: "list entries between two dates", needsAuth: true, run: a.cmdRange},
		"mood":          {usage: "mood <mood>", summary: "list entries with a mood", needsAuth: true, run: a.cmdMood},
		"tag":           {usage: "tag <tag>", summary: "list entries with a tag", needsAuth: true, run: a.cmdTag},
		"search":        {usage: "search <term>", summary: "search titles, content and tags", needsAuth: true, run: a.cmdSearch},
		"delete":        {usage: "delete <id>", summary: "delete an entry", needsAuth: true, run: a.cmdDelete},
		"moods":         {usage: "moods", summary: "list the moods you used", needsAuth: true, run: a.cmdMoods},
		"categories":    {usage: "categories", summary: "list your categories", needsAuth: true, run: a.cmdCategories},
		"stats":         {usage: "stats", summary: "show your statistics", needsAuth: true, run: a.cmdStats},
		"backup":        {usage: "backup [path]", summary: "copy the journal database", run: a.cmdBackup},
		"export":        {usage: "export", summary: "upload a backup to object storage", run: a.cmdExport},
		"schema":        {usage: "schema", summary: "describe the entries table", run: a.cmdSchema},
	}
}

// Run reads commands until "exit", "quit" or end of input.
func (a *App) Run(ctx context.Context) error {
	a.println("Journal shell (type 'help' for commands)")
	cmds := a.commands()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.printf("journal%s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				a.println()
				a.println("Bye!")
				return nil
			}
			return err
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			a.println("Bye!")
			return nil
		case "help":
			a.printHelp(cmds)
			continue
		}

		c, ok := cmds[name]
		if !ok {
			a.println("Unknown command:", name)
			continue
		}
		if err := a.exec(ctx, c, args); err != nil {
			a.println("Error:", err)
		}
	}
}

func (a *App) exec(ctx context.Context, c command, args []string) error {
	if c.needsAuth && !a.session.IsAuthenticated() {
		return errNotLoggedIn
	}
	return c.run(ctx, args)
}

func (a *App) printHelp(cmds map[string]command) {
	authed := a.session.IsAuthenticated()

	names := make([]string, 0, len(cmds))
	for name, c := range cmds {
		if c.needsAuth && !authed {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	a.println("Available commands:")
	for _, name := range names {
		c := cmds[name]
		a.printf("  %-18s %s\n", c.usage, c.summary)
	}
	a.printf("  %-18s %s\n", "exit", "leave the journal")
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}
