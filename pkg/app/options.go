package app

import (
	cliFlag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"
)

// CliOptions 抽象应用的命令行配置：按分组暴露标志集，并能自校验。
type CliOptions interface {
	Flags() cliFlag.NamedFlagSets
	Validate() []error
}

// CompleteableOptions 在校验前补全派生配置。
type CompleteableOptions interface {
	Complete() error
}

// PrintableOptions 支持打印生效配置。
type PrintableOptions interface {
	String() string
}
