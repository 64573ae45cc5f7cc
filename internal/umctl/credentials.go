package umctl

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// storedCredentials 是落盘的登录凭证，login 成功后写入,
// 后续命令启动时读回建立会话。
type storedCredentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       uint64 `json:"user_id"`
}

func credentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".umctl", "credentials.json")
}

func loadCredentials() (*storedCredentials, error) {
	data, err := os.ReadFile(credentialsPath())
	if err != nil {
		return nil, errors.Wrap(err, "读取登录凭证失败")
	}
	var creds storedCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, errors.Wrap(err, "解析登录凭证失败")
	}
	if creds.AccessToken == "" {
		return nil, errors.New("登录凭证为空")
	}
	return &creds, nil
}

func saveCredentials(creds *storedCredentials) error {
	path := credentialsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "创建凭证目录失败")
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return errors.Wrap(err, "序列化登录凭证失败")
	}
	// 凭证文件仅本用户可读写
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "写入登录凭证失败")
	}
	return nil
}
