package employee

import (
	"path"
	"strconv"
	"strings"
	"time"
)

const fallbackUploadName = "upload"

// UploadKey は書き込み時刻 (ミリ秒) と元のファイル名から保存キーを生成します。
// 同じファイル名が同一ミリ秒内に保存されるとキーが衝突します。
func UploadKey(at time.Time, originalName string) string {
	return strconv.FormatInt(at.UnixMilli(), 10) + "_" + sanitizeFilename(originalName)
}

// sanitizeFilename はディレクトリ部分を取り除き、ベース名だけを残します。
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	base := path.Base(name)
	switch base {
	case ".", "/", "..", "":
		return fallbackUploadName
	}
	return base
}
