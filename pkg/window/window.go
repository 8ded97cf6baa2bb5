// Package window は BMP ビューアのウィンドウ（選択画面と表示画面）を実装する
package window

import (
	"bufio"
	"context"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/zurustar/bmp-canvas/pkg/canvas"
	"github.com/zurustar/bmp-canvas/pkg/gallery"
	"github.com/zurustar/bmp-canvas/pkg/imagereader"
)

var (
	// テキスト色（白）
	textColor = color.White
	// 選択中のテキスト色（黄色）
	selectedTextColor = color.RGBA{0xFF, 0xFF, 0x00, 0xFF}
	// デフォルトフォント
	defaultFace = text.NewGoXFace(basicfont.Face7x13)
)

// Mode はウィンドウの表示モードを表す
type Mode int

const (
	ModeSelection Mode = iota // ファイル選択画面
	ModeView                  // 画像表示画面
)

// Options はウィンドウの設定を保持する
type Options struct {
	Title      string
	Width      int
	Height     int
	Background color.RGBA
}

// Game はEbitengineのゲームインターフェースを実装する
type Game struct {
	opts          Options
	reader        *imagereader.Reader
	entries       []gallery.Entry
	mode          Mode
	selectedIndex int

	// 表示中の画像（デコード済み、GPUにアップロード済み）
	viewImage  *ebiten.Image
	statusText string
}

// NewGame Gameを作成する。エントリが1件だけの場合は選択画面を飛ばす
func NewGame(opts Options, reader *imagereader.Reader, entries []gallery.Entry) *Game {
	g := &Game{
		opts:    opts,
		reader:  reader,
		entries: entries,
		mode:    ModeSelection,
	}
	if len(entries) == 1 {
		g.show(0)
	}
	return g
}

// show 指定されたエントリをデコードして表示画面に切り替える
func (g *Game) show(index int) {
	g.selectedIndex = index
	entry := g.entries[index]

	var img canvas.Image
	res := g.reader.LoadBMP(entry.Path, &img)
	defer img.Reset()

	if res != imagereader.Success {
		g.viewImage = nil
		g.statusText = fmt.Sprintf("%s - %s", entry.Name, res.Message())
		g.mode = ModeView
		return
	}

	// RGB565のセグメント列をRGBAに展開して1枚のテクスチャにする
	sink := canvas.NewRGBASink(img.Width(), img.Height())
	img.Draw(sink, 0, 0)
	g.viewImage = ebiten.NewImageFromImage(sink.RGBA())
	g.statusText = fmt.Sprintf("%s  %dx%d  %s", entry.Name, img.Width(), img.Height(), res.Message())
	g.mode = ModeView
}

// Update 入力処理
func (g *Game) Update() error {
	switch g.mode {
	case ModeSelection:
		return g.updateSelection()
	case ModeView:
		return g.updateView()
	}
	return nil
}

// updateSelection 選択画面の入力処理
func (g *Game) updateSelection() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && g.selectedIndex > 0 {
		g.selectedIndex--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && g.selectedIndex < len(g.entries)-1 {
		g.selectedIndex++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.show(g.selectedIndex)
	}
	return nil
}

// updateView 表示画面の入力処理
func (g *Game) updateView() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		// 単一ファイルの場合は選択画面が無いので終了する
		if len(g.entries) == 1 {
			return ebiten.Termination
		}
		g.viewImage = nil
		g.mode = ModeSelection
		return nil
	}
	// 左右キーで前後のファイルに移動
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) && g.selectedIndex > 0 {
		g.show(g.selectedIndex - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) && g.selectedIndex < len(g.entries)-1 {
		g.show(g.selectedIndex + 1)
	}
	return nil
}

// Draw 描画処理
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.opts.Background)
	switch g.mode {
	case ModeSelection:
		g.drawSelection(screen)
	case ModeView:
		g.drawView(screen)
	}
}

// drawSelection ファイル選択画面の描画
func (g *Game) drawSelection(screen *ebiten.Image) {
	titleOp := &text.DrawOptions{}
	titleOp.GeoM.Translate(50, 40)
	titleOp.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, "Select a BMP file", defaultFace, titleOp)

	for i, entry := range g.entries {
		y := float64(80 + i*20)
		op := &text.DrawOptions{}
		op.GeoM.Translate(70, y)
		if i == g.selectedIndex {
			op.ColorScale.ScaleWithColor(selectedTextColor)
		} else {
			op.ColorScale.ScaleWithColor(textColor)
		}
		text.Draw(screen, entry.Label(), defaultFace, op)
	}

	helpOp := &text.DrawOptions{}
	helpOp.GeoM.Translate(50, float64(g.opts.Height-40))
	helpOp.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, "Use UP/DOWN to select, ENTER to view, ESC to exit", defaultFace, helpOp)
}

// drawView 画像表示画面の描画
func (g *Game) drawView(screen *ebiten.Image) {
	if g.viewImage != nil {
		// 画面中央に表示する
		w, h := g.viewImage.Bounds().Dx(), g.viewImage.Bounds().Dy()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(g.opts.Width-w)/2, float64(g.opts.Height-h)/2)
		screen.DrawImage(g.viewImage, op)
	}

	statusOp := &text.DrawOptions{}
	statusOp.GeoM.Translate(10, float64(g.opts.Height-20))
	statusOp.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, g.statusText, defaultFace, statusOp)
}

// Layout 画面サイズを返す
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.opts.Width, g.opts.Height
}

// Run GUIモードでウィンドウを実行する
func Run(opts Options, reader *imagereader.Reader, entries []gallery.Entry) error {
	game := NewGame(opts, reader, entries)

	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	// アスペクト比を維持したままリサイズできるようにする
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

// DecodeFunc ヘッドレスモードで1エントリをデコードして状態文字列を返す
type DecodeFunc func(entry gallery.Entry) string

// RunHeadless ヘッドレスモードでファイル選択とデコードを実行する
func RunHeadless(entries []gallery.Entry, timeout time.Duration, reader io.Reader, writer io.Writer, decode DecodeFunc) error {
	// エントリが1つの場合は自動選択
	if len(entries) == 1 {
		fmt.Fprintf(writer, "Auto-selecting: %s\n", entries[0].Name)
		fmt.Fprintln(writer, decode(entries[0]))
		return nil
	}

	// タイムアウト処理用のコンテキスト
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// ファイル一覧を表示
	fmt.Fprintln(writer, "Available BMP files:")
	for i, entry := range entries {
		fmt.Fprintf(writer, "  %d: %s\n", i+1, entry.Label())
	}
	fmt.Fprintln(writer)

	// 選択を受け付ける
	scanner := bufio.NewScanner(reader)
	resultCh := make(chan gallery.Entry)
	errCh := make(chan error)

	go func() {
		for {
			fmt.Fprint(writer, "Select a file (1-", len(entries), ") or 'q' to quit: ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					errCh <- fmt.Errorf("failed to read input: %w", err)
				} else {
					errCh <- fmt.Errorf("input closed")
				}
				return
			}

			input := strings.TrimSpace(scanner.Text())

			// 終了コマンド
			if input == "q" || input == "Q" {
				errCh <- fmt.Errorf("user cancelled")
				return
			}

			num, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintln(writer, "Invalid input. Please enter a number.")
				continue
			}

			if num < 1 || num > len(entries) {
				fmt.Fprintf(writer, "Invalid selection. Please enter a number between 1 and %d.\n", len(entries))
				continue
			}

			resultCh <- entries[num-1]
			return
		}
	}()

	// タイムアウトまたは選択完了を待つ
	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout")
	case err := <-errCh:
		return err
	case entry := <-resultCh:
		fmt.Fprintf(writer, "Selected: %s\n", entry.Name)
		fmt.Fprintln(writer, decode(entry))
		return nil
	}
}
