package app

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command 是 cobra 子命令的轻量描述，组装根命令时转换成 cobra.Command。
type Command struct {
	usage    string
	desc     string
	options  CliOptions
	commands []*Command
	runFunc  RunCommandFunc
}

// RunCommandFunc 是子命令的执行函数。
type RunCommandFunc func(args []string) error

// CommandOption configures a Command.
type CommandOption func(*Command)

func WithCommandOptions(opt CliOptions) CommandOption {
	return func(c *Command) {
		c.options = opt
	}
}

func WithCommandRunFunc(run RunCommandFunc) CommandOption {
	return func(c *Command) {
		c.runFunc = run
	}
}

// NewCommand creates a sub command.
func NewCommand(usage string, desc string, opts ...CommandOption) *Command {
	c := &Command{
		usage: usage,
		desc:  desc,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AddCommand 挂接下级子命令。
func (c *Command) AddCommand(commands ...*Command) {
	c.commands = append(c.commands, commands...)
}

// FormatBaseName 规范化可执行文件名，windows 下去掉 .exe 后缀。
func FormatBaseName(name string) string {
	name = strings.ToLower(name)
	if runtime.GOOS == "windows" {
		name = strings.TrimSuffix(name, ".exe")
	}
	return name
}

func (c *Command) cobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.usage,
		Short: c.desc,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = false
	for _, command := range c.commands {
		cmd.AddCommand(command.cobraCommand())
	}

	if c.runFunc != nil {
		cmd.Run = c.runCommand
	}

	if c.options != nil {
		for _, f := range c.options.Flags().FlagSets {
			cmd.Flags().AddFlagSet(f)
		}
	}
	addHelpCommandFlag(c.usage, cmd.Flags())

	return cmd
}

func (c *Command) runCommand(cmd *cobra.Command, args []string) {
	if err := c.applyConfig(cmd); err != nil {
		fmt.Printf("%v %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
	if c.runFunc != nil {
		if err := c.runFunc(args); err != nil {
			fmt.Printf("%v %v\n", color.RedString("Error:"), err)
			os.Exit(1)
		}
	}
}

// applyConfig 把子命令的标志绑定到 viper 并回填配置，
// 优先级：显式标志 > 配置文件/环境变量 > 默认值。
func (c *Command) applyConfig(cmd *cobra.Command) error {
	if c.options == nil {
		return nil
	}
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return viper.Unmarshal(c.options)
}
