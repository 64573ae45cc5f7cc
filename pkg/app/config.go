/*
配置加载：注册 --config/-c 标志，绑定环境变量（前缀取自程序名，如
umctl 对应 UMCTL_），并在 cobra 初始化阶段按命令行、当前目录、用户主
目录、/etc 的顺序查找配置文件。格式由 viper 自动识别。
*/

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlagName = "config"

var cfgFile string

// nolint: gochecknoinits
func init() {
	pflag.StringVarP(&cfgFile, "config", "c", cfgFile, "从指定的文件读取配置，支持 JSON、TOML、YAML、HCL 或 Java properties 格式。")
}

func addConfigFlag(basename string, fs *pflag.FlagSet) {
	fs.AddFlag(pflag.Lookup(configFlagName))

	viper.AutomaticEnv()
	viper.SetEnvPrefix(strings.Replace(strings.ToUpper(basename), "-", "_", -1))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath(".")
			if home, err := os.UserHomeDir(); err == nil {
				viper.AddConfigPath(filepath.Join(home, "."+basename))
			}
			viper.AddConfigPath(filepath.Join("/etc", basename))
			viper.SetConfigName(basename)
		}

		// 配置文件是可选的：umctl 的全部配置都有默认值和对应标志。
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				_, _ = fmt.Fprintf(os.Stderr, "错误：读取配置文件失败(%s)：%v\n", cfgFile, err)
				os.Exit(1)
			}
		}
	})
}
