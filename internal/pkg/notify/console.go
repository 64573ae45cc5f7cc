package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Console 把通知打印到终端。输出到真实终端时带颜色标记，
// 重定向到文件或管道时退化为纯文本。
type Console struct {
	mu  sync.Mutex
	out io.Writer

	successPrefix string
	errorPrefix   string
}

// NewConsole 创建一个写到 w 的终端通知器；w 为 nil 时使用 os.Stdout。
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}

	c := &Console{
		out:           w,
		successPrefix: "==>",
		errorPrefix:   "Error:",
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		c.successPrefix = color.GreenString("==>")
		c.errorPrefix = color.RedString("Error:")
	}
	return c
}

func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", c.successPrefix, msg)
	record("success")
}

func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", c.errorPrefix, msg)
	record("error")
}
