package umctl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	cliFlag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/umctl/internal/umctl/options"
	"github.com/maxiaolu1981/cretem/umctl/pkg/app"
)

type loginOptions struct {
	*options.Options `mapstructure:",squash"`

	// Password 仅供非交互场景（脚本/CI）使用，交互式登录走终端提示。
	Password string
}

func (o *loginOptions) Flags() cliFlag.NamedFlagSets {
	fss := o.Options.Flags()
	fs := fss.FlagSet("login")
	fs.StringVar(&o.Password, "password", o.Password, "Password for non-interactive login, prompted when omitted")

	return fss
}

func newLoginCommand(opts *options.Options) *app.Command {
	loginOpts := &loginOptions{Options: opts}

	return app.NewCommand("login USERNAME", "登录 iam-apiserver 并保存会话凭证",
		app.WithCommandOptions(loginOpts),
		app.WithCommandRunFunc(func(args []string) error {
			if len(args) != 1 {
				return errors.New("用法: umctl login USERNAME")
			}
			return runLogin(loginOpts, args[0])
		}),
	)
}

func runLogin(opts *loginOptions, username string) error {
	if err := setup(opts.Options); err != nil {
		return err
	}

	password := opts.Password
	if password == "" {
		fmt.Printf("Password for %s: ", username)
		raw, err := term.ReadPassword(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return errors.Wrap(err, "读取密码失败")
		}
		password = strings.TrimSpace(string(raw))
	}
	if password == "" {
		return errors.New("密码不能为空")
	}

	c, err := buildClient(opts.Options)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Server.Timeout)
	defer cancel()

	session, err := c.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := saveCredentials(&storedCredentials{
		AccessToken:  session.AccessToken(),
		RefreshToken: session.RefreshToken(),
		UserID:       session.UserID(),
	}); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Login succeeded, credentials saved to %s\n", credentialsPath())
	return nil
}
