package catalog

import "errors"

// ErrCatalogMiss is returned by Lookup when no table is registered under
// the requested name.
var ErrCatalogMiss = errors.New("catalog: table not found")
