package diagfmt

import (
	"io"
	"c0/internal/diag"
	"c0/internal/source"
)

// Sarif принимает параметры SARIF-вывода (v2.1.0), но ничего не пишет в w:
// SARIF-форматирование здесь не реализовано.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) {
	// TODO: реализовать SARIF форматирование
	_ = w
	_ = bag
	_ = fs
	_ = meta
}
