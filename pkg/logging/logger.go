// Package logging はzerologによる構造化ロガーを生成する。
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel はログレベル文字列をzerologのレベルに変換する。
// 未知の値はinfoとして扱う。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New は標準出力（filePathが指定されればファイルにも）へ書き出すロガーを生成する。
// 戻り値の関数でログファイルを閉じる。
func New(level, filePath string) (zerolog.Logger, func(), error) {
	writers := []io.Writer{os.Stdout}

	var f *os.File
	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("ログディレクトリの作成に失敗: %w", err)
		}
		var err error
		f, err = os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("ログファイルのオープンに失敗: %w", err)
		}
		writers = append(writers, f)
	}

	logger := NewWithWriter(io.MultiWriter(writers...), level)
	return logger, func() {
		if f != nil {
			_ = f.Close()
		}
	}, nil
}

// NewWithWriter は任意のWriterに書き出すロガーを生成する。
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}
