package plotting

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ClearPrevious 删除 dir 中上次运行留下的 png/html/log 文件，归档文件保留
func ClearPrevious(dir string) ([]string, error) {
	var removed []string
	for _, pattern := range []string{"*.png", "*.html", "*.log"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return removed, err
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return removed, err
			}
			removed = append(removed, m)
		}
	}
	return removed, nil
}
