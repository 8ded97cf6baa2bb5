// Package gallery はディレクトリ内のBMPファイルを列挙して管理する
package gallery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zurustar/bmp-canvas/pkg/imagereader"
)

// Entry は閲覧可能なBMPファイル1件を表す
type Entry struct {
	Name   string // ファイル名
	Path   string // フルパス
	Width  int    // 画像の幅（ピクセル）
	Height int    // 画像の高さ（ピクセル）
	Result imagereader.Result
}

// Valid 寸法の取得に成功したかどうかを返す
func (e Entry) Valid() bool { return e.Result == imagereader.Success }

// Label 選択画面に表示する文字列を返す
func (e Entry) Label() string {
	if !e.Valid() {
		return fmt.Sprintf("%s (%s)", e.Name, e.Result.Message())
	}
	return fmt.Sprintf("%s (%dx%d)", e.Name, e.Width, e.Height)
}

// Scan パス（BMPファイルまたはディレクトリ）からエントリ一覧を作る。
// ディレクトリの場合は拡張子 .bmp のファイルを大文字小文字を区別せずに
// 列挙し、各ファイルの寸法をヘッダから取得する。
func Scan(path string, reader *imagereader.Reader) ([]Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []Entry{describe(path, reader)}, nil
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(de.Name())) != ".bmp" {
			continue
		}
		entries = append(entries, describe(filepath.Join(path, de.Name()), reader))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no BMP files found in %s", path)
	}

	// 名前順で安定させる
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// describe 1ファイル分のエントリを作る
func describe(path string, reader *imagereader.Reader) Entry {
	entry := Entry{
		Name: filepath.Base(path),
		Path: path,
	}
	entry.Width, entry.Height, entry.Result = reader.Dimensions(path)
	return entry
}
