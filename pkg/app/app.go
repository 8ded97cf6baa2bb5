// Package app は bmpview アプリケーションのメインロジックを管理する
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zurustar/bmp-canvas/pkg/canvas"
	"github.com/zurustar/bmp-canvas/pkg/cli"
	"github.com/zurustar/bmp-canvas/pkg/config"
	"github.com/zurustar/bmp-canvas/pkg/gallery"
	"github.com/zurustar/bmp-canvas/pkg/imagereader"
	"github.com/zurustar/bmp-canvas/pkg/logger"
	"github.com/zurustar/bmp-canvas/pkg/window"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	cliConfig *cli.Config
	cfg       *config.Config
	log       *slog.Logger
	reader    *imagereader.Reader

	// 入出力（テストで差し替える）
	In  io.Reader
	Out io.Writer
}

// New Applicationを作成
func New() *Application {
	return &Application{
		In:  os.Stdin,
		Out: os.Stdout,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	cliConfig, err := cli.ParseArgs(args)
	if err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	app.cliConfig = cliConfig

	if cliConfig.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	// 2. ロガーの初期化
	if err := logger.InitLogger(cliConfig.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.log = logger.GetLogger()

	// 3. 設定ファイルの読み込み（省略時は既定値）
	cfg, err := config.Load(cliConfig.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.cfg = cfg
	app.log.Info("Configuration loaded",
		"canvasHeight", cfg.CanvasHeight,
		"maxCanvases", cfg.MaxCanvases,
		"maxImageHeight", cfg.CanvasHeight*cfg.MaxCanvases)

	// 4. ローダーの構築
	app.reader = imagereader.New(imagereader.DirOpener{},
		imagereader.WithSegmentHeight(cfg.CanvasHeight),
		imagereader.WithMaxSegments(cfg.MaxCanvases),
		imagereader.WithScratchPixels(cfg.ScratchPixels),
		imagereader.WithLogger(app.log),
	)

	if cliConfig.Path == "" {
		cli.PrintHelp()
		return fmt.Errorf("no BMP file or directory given")
	}

	// 5. 寸法のみのクエリモード
	if cliConfig.Query {
		return app.runQuery(cliConfig.Path)
	}

	// 6. 対象ファイルの列挙
	entries, err := gallery.Scan(cliConfig.Path, app.reader)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", cliConfig.Path, err)
	}
	app.log.Info("Gallery scanned", "count", len(entries))

	// 7. 実行（ヘッドレスまたはGUI）
	if cliConfig.Headless {
		return window.RunHeadless(entries, cliConfig.Timeout, app.In, app.Out, app.decodeEntry)
	}
	return app.runWindow(entries)
}

// runQuery 寸法のみを表示する
func (app *Application) runQuery(path string) error {
	entries, err := gallery.Scan(path, app.reader)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", path, err)
	}
	for _, entry := range entries {
		if entry.Valid() {
			fmt.Fprintf(app.Out, "%s: %dx%d\n", entry.Name, entry.Width, entry.Height)
		} else {
			fmt.Fprintf(app.Out, "%s: %s\n", entry.Name, entry.Result.Message())
		}
	}
	return nil
}

// decodeEntry ヘッドレスモードで1ファイルをデコードして結果を報告する
func (app *Application) decodeEntry(entry gallery.Entry) string {
	var img canvas.Image
	res := app.reader.LoadBMP(entry.Path, &img)
	defer img.Reset()

	if res != imagereader.Success {
		return fmt.Sprintf("%s: %s", entry.Name, res.Message())
	}
	return fmt.Sprintf("%s: %s %dx%d (%d segments)",
		entry.Name, res.Message(), img.Width(), img.Height(), len(img.Segments()))
}

// runWindow GUIモードでビューアを起動する
func (app *Application) runWindow(entries []gallery.Entry) error {
	background, err := app.cfg.BackgroundColor()
	if err != nil {
		return err
	}
	opts := window.Options{
		Title:      app.cfg.Window.Title,
		Width:      app.cfg.Window.Width,
		Height:     app.cfg.Window.Height,
		Background: background,
	}
	if err := window.Run(opts, app.reader, entries); err != nil {
		return fmt.Errorf("failed to run window: %w", err)
	}
	return nil
}
