package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/client/store"
)

func (a *App) register(ctx context.Context, _ []string) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	user, err := a.api.Register(ctx, email, string(password), name)
	if err != nil {
		return err
	}
	a.printf("Registered %s. Run login to start a session.\n", user.Email)
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	user, token, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	sess := &store.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ServerURL: a.config.ServerURL,
		LoginAt:   time.Now().UTC(),
	}
	if err := a.store.SaveSession(ctx, *sess); err != nil {
		return err
	}
	a.setSession(sess)

	a.printf("Logged in as %s\n", user.Email)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.store.ClearSession(ctx); err != nil {
		return err
	}
	a.setSession(nil)
	a.printf("Logged out\n")
	return nil
}

func (a *App) me(ctx context.Context, _ []string) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	a.printf("%s <%s>\nid: %s\nsince: %s\n", user.Name, user.Email, user.ID, user.CreatedAt.Format(time.DateOnly))
	return nil
}
