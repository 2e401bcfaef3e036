package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/session"
)

func (a *App) cmdRegister(ctx context.Context, _ []string) error {
	username, err := a.ask("Choose a username")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Choose a password")
	if err != nil {
		return err
	}
	again, err := a.askSecret("Repeat the password")
	if err != nil {
		return err
	}
	if password != again {
		a.println("Passwords do not match.")
		return nil
	}

	if !a.session.Register(ctx, username, password) {
		a.printf("Registration failed. Usernames need %d characters and passwords %d, and the username must be free.\n",
			session.MinUsernameLength, session.MinPasswordLength)
		return nil
	}
	a.printf("Welcome, %s!\n", username)
	return nil
}

func (a *App) cmdLogin(ctx context.Context, _ []string) error {
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Password")
	if err != nil {
		return err
	}

	if !a.session.Login(ctx, username, password) {
		a.println("Invalid username or password.")
		return nil
	}
	a.printf("Logged in as %s.\n", username)
	return nil
}

func (a *App) cmdResume(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("resume <token>")
	}
	if !a.session.LoginWithToken(ctx, args[0]) {
		a.println("Unknown token.")
		return nil
	}
	a.printf("Logged in as %s.\n", a.session.CurrentUser().Username)
	return nil
}

func (a *App) cmdLogout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.println("Logged out.")
	return nil
}

func (a *App) cmdToken(_ context.Context, _ []string) error {
	token, err := a.session.GenerateToken(a.session.CurrentUser().Username)
	if err != nil {
		return err
	}
	a.printf("Token: %s\n", token)
	a.println("Use 'resume <token>' to log in again while the journal is running.")
	return nil
}

func (a *App) cmdPasswd(ctx context.Context, _ []string) error {
	current, err := a.askSecret("Current password")
	if err != nil {
		return err
	}
	next, err := a.askSecret("New password")
	if err != nil {
		return err
	}
	again, err := a.askSecret("Repeat the new password")
	if err != nil {
		return err
	}
	if next != again {
		a.println("Passwords do not match.")
		return nil
	}
	if len([]rune(next)) < session.MinPasswordLength {
		a.printf("Passwords need at least %d characters.\n", session.MinPasswordLength)
		return nil
	}

	ok, err := a.session.ChangePassword(ctx, current, next)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Current password is wrong.")
		return nil
	}
	a.println("Password changed.")
	return nil
}

func (a *App) cmdDeleteAccount(ctx context.Context, _ []string) error {
	userID, _ := a.owner()

	password, err := a.askSecret("Password")
	if err != nil {
		return err
	}
	sure, err := a.confirm("Delete your account and all of its entries?")
	if err != nil {
		return err
	}
	if !sure {
		a.println("Cancelled.")
		return nil
	}

	ok, err := a.session.DeleteAccount(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Password is wrong.")
		return nil
	}

	n, err := a.entries.ClearUserEntries(ctx, userID)
	if err != nil {
		return fmt.Errorf("account deleted, but its entries were not: %w", err)
	}
	a.printf("Account deleted together with %d entries.\n", n)
	return nil
}
