package umctl

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	cliFlag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	v1 "github.com/maxiaolu1981/cretem/umctl/pkg/api/v1"

	"github.com/maxiaolu1981/cretem/umctl/internal/umctl/options"
	"github.com/maxiaolu1981/cretem/umctl/pkg/app"
)

func newUserCommand(opts *options.Options) *app.Command {
	userCmd := app.NewCommand("user", "管理 iam-apiserver 中的用户资源")
	userCmd.AddCommand(
		newUserListCommand(opts),
		newUserGetCommand(opts),
		newUserCreateCommand(opts),
		newUserUpdateCommand(opts),
		newUserDeleteCommand(opts),
	)

	return userCmd
}

// parseUserID 解析子命令的位置参数中的用户id。
func parseUserID(args []string, usage string) (uint64, error) {
	if len(args) != 1 {
		return 0, errors.Errorf("用法: %s", usage)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Errorf("无效的用户id: %q", args[0])
	}
	return id, nil
}

func operationContext(opts *options.Options) (context.Context, context.CancelFunc) {
	// 留出比单次请求超时更长的窗口，覆盖限速等待
	return context.WithTimeout(context.Background(), opts.Server.Timeout+10*time.Second)
}

func printUsers(users ...*v1.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tNICKNAME\tEMAIL\tPHONE\tROLE\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			u.ID, u.Name, u.Nickname, u.Email, u.Phone, u.Role, u.Status)
	}
	_ = w.Flush()
}

type userListOptions struct {
	*options.Options `mapstructure:",squash"`

	Role string
}

func (o *userListOptions) Flags() cliFlag.NamedFlagSets {
	fss := o.Options.Flags()
	fs := fss.FlagSet("user list")
	fs.StringVar(&o.Role, "role", o.Role, "Filter users by role, one of: student, teacher, superadmin")

	return fss
}

func newUserListCommand(opts *options.Options) *app.Command {
	listOpts := &userListOptions{Options: opts}

	return app.NewCommand("list", "列出用户，支持按角色过滤",
		app.WithCommandOptions(listOpts),
		app.WithCommandRunFunc(func(args []string) error {
			if err := setup(opts); err != nil {
				return err
			}
			c, err := buildClient(opts)
			if err != nil {
				return err
			}

			ctx, cancel := operationContext(opts)
			defer cancel()

			list, err := c.ListUsers(ctx, listOpts.Role)
			if err != nil {
				return err
			}
			printUsers(list.Items...)
			fmt.Printf("\nTotal: %d\n", list.TotalCount)
			return nil
		}),
	)
}

func newUserGetCommand(opts *options.Options) *app.Command {
	return app.NewCommand("get USER_ID", "查看单个用户详情",
		app.WithCommandOptions(opts),
		app.WithCommandRunFunc(func(args []string) error {
			id, err := parseUserID(args, "umctl user get USER_ID")
			if err != nil {
				return err
			}
			if err := setup(opts); err != nil {
				return err
			}
			c, err := buildClient(opts)
			if err != nil {
				return err
			}

			ctx, cancel := operationContext(opts)
			defer cancel()

			user, err := c.GetUser(ctx, id)
			if err != nil {
				return err
			}
			printUsers(user)
			return nil
		}),
	)
}

type userCreateOptions struct {
	*options.Options `mapstructure:",squash"`

	Name     string
	Nickname string
	Password string
	Email    string
	Phone    string
	Role     string
}

func (o *userCreateOptions) Flags() cliFlag.NamedFlagSets {
	fss := o.Options.Flags()
	fs := fss.FlagSet("user create")
	fs.StringVar(&o.Name, "name", o.Name, "Login name of the new user")
	fs.StringVar(&o.Nickname, "nickname", o.Nickname, "Display name")
	fs.StringVar(&o.Password, "user-password", o.Password, "Initial password")
	fs.StringVar(&o.Email, "email", o.Email, "Email address")
	fs.StringVar(&o.Phone, "phone", o.Phone, "Phone number")
	fs.StringVar(&o.Role, "role", o.Role, "Role, one of: student, teacher, superadmin")

	return fss
}

func newUserCreateCommand(opts *options.Options) *app.Command {
	createOpts := &userCreateOptions{Options: opts}

	return app.NewCommand("create", "创建用户",
		app.WithCommandOptions(createOpts),
		app.WithCommandRunFunc(func(args []string) error {
			if err := setup(opts); err != nil {
				return err
			}
			c, err := buildClient(opts)
			if err != nil {
				return err
			}

			ctx, cancel := operationContext(opts)
			defer cancel()

			user, err := c.CreateUser(ctx, &v1.CreateUserRequest{
				Name:     createOpts.Name,
				Nickname: createOpts.Nickname,
				Password: createOpts.Password,
				Email:    createOpts.Email,
				Phone:    createOpts.Phone,
				Role:     createOpts.Role,
			})
			if err != nil {
				return err
			}
			printUsers(user)
			return nil
		}),
	)
}

type userUpdateOptions struct {
	*options.Options `mapstructure:",squash"`

	Nickname string
	Email    string
	Phone    string
	Role     string
	Status   int

	flagSet cliFlag.NamedFlagSets
}

func (o *userUpdateOptions) Flags() cliFlag.NamedFlagSets {
	fss := o.Options.Flags()
	fs := fss.FlagSet("user update")
	fs.StringVar(&o.Nickname, "nickname", o.Nickname, "New display name")
	fs.StringVar(&o.Email, "email", o.Email, "New email address")
	fs.StringVar(&o.Phone, "phone", o.Phone, "New phone number")
	fs.StringVar(&o.Role, "role", o.Role, "New role")
	fs.IntVar(&o.Status, "status", -1, "New status, 0 disabled 1 active")
	o.flagSet = fss

	return fss
}

// request 只携带显式传入的字段，未出现的标志不会进入请求体。
func (o *userUpdateOptions) request() *v1.UpdateUserRequest {
	req := &v1.UpdateUserRequest{}
	set := o.flagSet.FlagSet("user update")
	if set.Changed("nickname") {
		req.Nickname = &o.Nickname
	}
	if set.Changed("email") {
		req.Email = &o.Email
	}
	if set.Changed("phone") {
		req.Phone = &o.Phone
	}
	if set.Changed("role") {
		req.Role = &o.Role
	}
	if set.Changed("status") {
		req.Status = &o.Status
	}
	return req
}

func newUserUpdateCommand(opts *options.Options) *app.Command {
	updateOpts := &userUpdateOptions{Options: opts}

	return app.NewCommand("update USER_ID", "更新用户，仅提交显式指定的字段",
		app.WithCommandOptions(updateOpts),
		app.WithCommandRunFunc(func(args []string) error {
			id, err := parseUserID(args, "umctl user update USER_ID [flags]")
			if err != nil {
				return err
			}
			if err := setup(opts); err != nil {
				return err
			}
			c, err := buildClient(opts)
			if err != nil {
				return err
			}

			ctx, cancel := operationContext(opts)
			defer cancel()

			user, err := c.UpdateUser(ctx, id, updateOpts.request())
			if err != nil {
				return err
			}
			printUsers(user)
			return nil
		}),
	)
}

func newUserDeleteCommand(opts *options.Options) *app.Command {
	return app.NewCommand("delete USER_ID", "删除用户",
		app.WithCommandOptions(opts),
		app.WithCommandRunFunc(func(args []string) error {
			id, err := parseUserID(args, "umctl user delete USER_ID")
			if err != nil {
				return err
			}
			if err := setup(opts); err != nil {
				return err
			}
			c, err := buildClient(opts)
			if err != nil {
				return err
			}

			ctx, cancel := operationContext(opts)
			defer cancel()

			return c.DeleteUser(ctx, id)
		}),
	)
}
