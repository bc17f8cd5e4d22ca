// Package refdata serves the static reference data bundled with the
// tracker: the ASX symbol list used for autocomplete and a fund's quarterly
// 13F holdings.
package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/anystockai/tracker/internal/core"
)

// Asset file names, also their public paths.
const (
	SymbolsFile  = "asx_symbols.json"
	HoldingsFile = "berkshire_13f.json"
)

//go:embed assets/*.json
var assetFS embed.FS

// Assets returns the embedded asset filesystem rooted at the asset directory.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		return assetFS
	}
	return sub
}

// Data is the parsed reference data.
type Data struct {
	Symbols  []string
	Holdings []core.HoldingEntry
}

// Load parses both assets from fsys. A missing or malformed asset yields an
// empty list, never an error, so the page still renders.
func Load(fsys fs.FS) *Data {
	return &Data{
		Symbols:  loadSymbols(fsys),
		Holdings: loadHoldings(fsys),
	}
}

// LoadEmbedded parses the bundled assets.
func LoadEmbedded() *Data {
	return Load(Assets())
}

func loadSymbols(fsys fs.FS) []string {
	var symbols []string
	if err := readJSON(fsys, SymbolsFile, &symbols); err != nil || symbols == nil {
		return []string{}
	}
	return symbols
}

func loadHoldings(fsys fs.FS) []core.HoldingEntry {
	var holdings []core.HoldingEntry
	if err := readJSON(fsys, HoldingsFile, &holdings); err != nil || holdings == nil {
		return []core.HoldingEntry{}
	}
	return holdings
}

func readJSON(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return core.WrapError(core.ErrDecodeFailed, fmt.Errorf("%s: %w", name, err))
	}
	return nil
}
