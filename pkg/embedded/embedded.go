// Package embedded 保存 data/ 目录的只读文件系统
//
// 桌面端与移动端传入 //go:embed 的 embed.FS，timersim 传入 os.DirFS(".")。
// 所有路径均以 "data/" 开头，未调用 Init 时读取会返回错误。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const dataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化数据文件系统
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 统一为正斜杠并去掉 "./"
func normalize(path string) (string, error) {
	if !initialized {
		return "", fmt.Errorf("data filesystem not initialized")
	}

	clean := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if !strings.HasPrefix(clean, dataPrefix) {
		return "", fmt.Errorf("data path %q must start with %q", path, dataPrefix)
	}
	return clean, nil
}

// ReadFile 读取嵌入文件内容，路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查文件是否存在于嵌入文件系统中
func Exists(path string) bool {
	path, err := normalize(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(dataFS, path)
	return err == nil
}

