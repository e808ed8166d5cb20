package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oksasatya/realio-auth/internal/application"
	"github.com/oksasatya/realio-auth/internal/domain/autherr"
	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

// errUsage reports a command called with the wrong arguments.
var errUsage = autherr.Validation("Wrong number of arguments, see authctl -h")

type app struct {
	uc      *application.UseCases
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

// track runs fn as an Operation so -v can show its transitions.
func track[T any](a *app, ctx context.Context, name string, fn func(context.Context) (T, error)) (T, error) {
	var op application.Operation[T]
	if a.verbose {
		op.OnChange(func(s application.Snapshot[T]) {
			fmt.Fprintf(a.errOut, "%s: %s\n", name, s.State)
		})
	}
	return op.Run(ctx, fn)
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	need := func(n int) error {
		if len(args) != n {
			return errUsage
		}
		return nil
	}

	switch cmd {
	case "strength":
		if err := need(1); err != nil {
			return err
		}
		s := validation.PasswordStrengthOf(args[0])
		fmt.Fprintln(a.out, s)
		if s != validation.Strong {
			fmt.Fprintln(a.out, validation.PasswordRequirements)
		}
		return nil

	case "register":
		if err := need(3); err != nil {
			return err
		}
		u, err := track(a, ctx, cmd, func(ctx context.Context) (entity.User, error) {
			return a.uc.Register.Execute(ctx, args[0], args[1], args[2])
		})
		if err != nil {
			return err
		}
		a.printUser(u)
		fmt.Fprintln(a.out, "check your email for the verification code")
		return nil

	case "verify":
		if err := need(2); err != nil {
			return err
		}
		o, err := track(a, ctx, cmd, func(ctx context.Context) (entity.OtpOutcome, error) {
			return a.uc.VerifyOtp.Execute(ctx, args[0], args[1])
		})
		if err != nil {
			return err
		}
		if o.User != nil {
			a.printUser(*o.User)
		}
		if o.LoggedIn() {
			fmt.Fprintln(a.out, "verified and logged in")
		} else {
			fmt.Fprintln(a.out, "verified")
		}
		return nil

	case "resend":
		if err := need(1); err != nil {
			return err
		}
		if _, err := track(a, ctx, cmd, func(ctx context.Context) (bool, error) {
			return a.uc.ResendOtp.Execute(ctx, args[0])
		}); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "code sent")
		return nil

	case "login":
		if err := need(2); err != nil {
			return err
		}
		return a.userCmd(ctx, cmd, func(ctx context.Context) (entity.User, error) {
			return a.uc.Login.Execute(ctx, args[0], args[1])
		})

	case "oauth-login":
		if err := need(2); err != nil {
			return err
		}
		return a.userCmd(ctx, cmd, func(ctx context.Context) (entity.User, error) {
			return a.uc.OAuthLogin.Execute(ctx, args[0], args[1])
		})

	case "oauth-register":
		if err := need(3); err != nil {
			return err
		}
		return a.userCmd(ctx, cmd, func(ctx context.Context) (entity.User, error) {
			return a.uc.OAuthRegister.Execute(ctx, args[0], args[1], args[2])
		})

	case "user":
		if err := need(1); err != nil {
			return err
		}
		return a.userCmd(ctx, cmd, func(ctx context.Context) (entity.User, error) {
			return a.uc.GetUserDetails.Execute(ctx, args[0])
		})

	case "me":
		if err := need(0); err != nil {
			return err
		}
		return a.userCmd(ctx, cmd, func(ctx context.Context) (entity.User, error) {
			s, err := a.uc.CurrentSession.Execute(ctx)
			if err != nil {
				return entity.User{}, err
			}
			if s.UserID == "" {
				return entity.User{}, autherr.ErrNoUserID
			}
			return a.uc.GetUserDetails.Execute(ctx, s.UserID)
		})

	case "upload":
		if err := need(1); err != nil {
			return err
		}
		r, err := track(a, ctx, cmd, func(ctx context.Context) (entity.UploadResult, error) {
			return a.uc.UploadProfileImage.Execute(ctx, args[0])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "url=%s content_type=%s size=%d\n", r.URL, r.ContentType, r.Size)
		return nil

	case "logout":
		if err := need(0); err != nil {
			return err
		}
		if _, err := track(a, ctx, cmd, a.uc.Logout.Execute); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "logged out")
		return nil

	case "status":
		if err := need(0); err != nil {
			return err
		}
		s, err := a.uc.CurrentSession.Execute(ctx)
		if errors.Is(err, autherr.ErrNoAuthToken) {
			fmt.Fprintln(a.out, "not logged in")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "logged in user_id=%s\n", s.UserID)
		return nil
	}
	return autherr.Validation(fmt.Sprintf("Unknown command %q", cmd))
}

func (a *app) userCmd(ctx context.Context, name string, fn func(context.Context) (entity.User, error)) error {
	u, err := track(a, ctx, name, fn)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

func (a *app) printUser(u entity.User) {
	fmt.Fprintf(a.out, "id=%s name=%q email=%s verified=%t", u.ID, u.Name, u.Email, u.IsVerified)
	if u.ProfilePicture != "" {
		fmt.Fprintf(a.out, " picture=%s", u.ProfilePicture)
	}
	fmt.Fprintln(a.out)
}
