package library

import (
	"context"
	_ "embed"

	"github.com/alfredjeanlab/archscore/internal/model"
)

//go:embed builtin/catalog.toml
var builtinCatalog []byte

// BuiltinName selects the embedded catalog in ParseSource.
const BuiltinName = "builtin"

// BuiltinSource serves the catalog compiled into the binary.
type BuiltinSource struct{}

func (BuiltinSource) String() string { return BuiltinName }

// Fetch decodes the embedded catalog. Each call returns a fresh copy.
func (BuiltinSource) Fetch(context.Context) (*model.Catalog, error) {
	return Decode(builtinCatalog, FormatTOML)
}
