package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	Path       string        // BMPファイルまたはディレクトリのパス
	ConfigFile string        // 設定ファイル（YAML）のパス
	Query      bool          // 寸法のみを表示して終了
	Headless   bool          // ヘッドレスモード
	Timeout    time.Duration // ヘッドレス選択のタイムアウト（0は無制限）
	LogLevel   string        // ログレベル（debug, info, warn, error）
	ShowHelp   bool          // ヘルプ表示フラグ
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("bmpview", flag.ContinueOnError)

	config := &Config{}

	var timeoutSec int
	fs.StringVar(&config.ConfigFile, "config", "", "設定ファイル（YAML）のパス")
	fs.StringVar(&config.ConfigFile, "c", "", "設定ファイルのパス（短縮形）")
	fs.BoolVar(&config.Query, "query", false, "寸法のみを表示して終了")
	fs.BoolVar(&config.Query, "q", false, "寸法のみを表示（短縮形）")
	fs.IntVar(&timeoutSec, "timeout", 0, "ヘッドレス選択のタイムアウト（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト（秒）（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.BoolVar(&config.Headless, "headless", false, "ヘッドレスモード")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !config.Headless {
		if headlessEnv := os.Getenv("HEADLESS"); headlessEnv != "" {
			config.Headless = headlessEnv == "1" || strings.ToLower(headlessEnv) == "true"
		}
	}

	if timeoutSec == 0 {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}

	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	// タイムアウトの検証
	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	// 位置引数（BMPファイルまたはディレクトリのパス）
	if fs.NArg() > 0 {
		config.Path = fs.Arg(0)
	}

	return config, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	// ブール型フラグ（次の引数を値として取らない）
	boolFlags := map[string]bool{
		"-q": true, "-query": true, "--query": true,
		"-headless": true, "--headless": true,
		"-h": true, "-help": true, "--help": true,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			// 次の引数が値である可能性をチェック（-t 5 のような場合）
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				if !boolFlags[arg] && !strings.Contains(arg, "=") {
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp() {
	fmt.Println(`bmpview - uncompressed 24-bit BMP viewer

Usage:
  bmpview [options] <file.bmp | directory>

Options:
  -config, -c <path>   configuration file (YAML)
  -query, -q           print image dimensions and exit
  -headless            select and decode without opening a window
  -timeout, -t <sec>   headless selection timeout in seconds
  -log-level, -l <lv>  log level (debug, info, warn, error)
  -help, -h            show this help

Environment:
  HEADLESS, TIMEOUT, LOG_LEVEL`)
}
