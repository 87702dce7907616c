package service

import (
	"database/sql"
	"net/http"

	"youtools-catalog/internal/localstore"
)

// Backends carries the configured strategies. Hosted is nil when no
// connection configuration is present; Mock is nil when the mocked backend
// is force-disabled. Local is always present: the storefront must render
// something even with every backend down.
type Backends struct {
	Hosted  *sql.DB
	Mock    *http.Client
	MockURL string
	Local   *localstore.Store
}
