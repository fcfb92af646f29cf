package sqlstore

import (
	"embed"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/modlearn/modlearn/app/store"
	"github.com/modlearn/modlearn/pkg/register"
	"github.com/modlearn/modlearn/pkg/sqlstore"
	"github.com/modlearn/modlearn/pkg/types"
)

func init() {
	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

//go:embed *.sql
var createTableFiles embed.FS

var provider = &Provider{
	stores: &Stores{},
}

func GetProvider() *Provider {
	return provider
}

type Provider struct {
	*sqlstore.SqlProvider
	stores *Stores
}

type Stores struct {
	store.UserStore
	store.AccessTokenStore
	store.FileStore
	store.StorageStore
	store.CategoryStore
	store.GenreStore
	store.ContentStore
	store.ContentCategoryStore
	store.ContentGenreStore
	store.PlaylistStore
	store.PlaylistEpisodeStore
	store.CartStore
	store.CartItemStore
	store.OrderStore
	store.OrderItemStore
	store.PaymentStore
	store.PurchaseStore
}

type RegisterKey struct{}

func MustSetup(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) func() *Provider {
	provider.SqlProvider = sqlstore.MustSetupProvider(m, s...)

	for _, f := range register.ResolveFuncHandlers[*Provider](RegisterKey{}) {
		f(provider)
	}

	return func() *Provider {
		return provider
	}
}

// Install 执行内嵌建表SQL，已执行过的文件跳过
func (p *Provider) Install() error {
	if err := p.ensureMigrationTable(); err != nil {
		return err
	}

	files, err := createTableFiles.ReadDir(".")
	if err != nil {
		return err
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		if executed, err := p.isFileExecuted(file.Name()); err != nil {
			return err
		} else if executed {
			continue
		}

		raw, err := createTableFiles.ReadFile(file.Name())
		if err != nil {
			return err
		}

		if _, err = p.SqlProvider.GetMaster().Exec(string(raw)); err != nil {
			return err
		}

		if err = p.markFileExecuted(file.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) ensureMigrationTable() error {
	createTableSQL := `
CREATE TABLE IF NOT EXISTS ` + types.TABLE_PREFIX + `schema_migrations (
    filename VARCHAR(255) PRIMARY KEY,
    executed_at BIGINT NOT NULL
);`
	_, err := p.SqlProvider.GetMaster().Exec(createTableSQL)
	return err
}

func (p *Provider) isFileExecuted(filename string) (bool, error) {
	var count int
	err := p.SqlProvider.GetReplica().Get(&count,
		"SELECT COUNT(*) FROM "+types.TABLE_PREFIX+"schema_migrations WHERE filename = $1", filename)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *Provider) markFileExecuted(filename string) error {
	_, err := p.SqlProvider.GetMaster().Exec(
		"INSERT INTO "+types.TABLE_PREFIX+"schema_migrations (filename, executed_at) VALUES ($1, $2) ON CONFLICT (filename) DO NOTHING",
		filename, time.Now().Unix())
	return err
}

func (p *Provider) UserStore() store.UserStore {
	return p.stores.UserStore
}

func (p *Provider) AccessTokenStore() store.AccessTokenStore {
	return p.stores.AccessTokenStore
}

func (p *Provider) FileStore() store.FileStore {
	return p.stores.FileStore
}

func (p *Provider) StorageStore() store.StorageStore {
	return p.stores.StorageStore
}

func (p *Provider) CategoryStore() store.CategoryStore {
	return p.stores.CategoryStore
}

func (p *Provider) GenreStore() store.GenreStore {
	return p.stores.GenreStore
}

func (p *Provider) ContentStore() store.ContentStore {
	return p.stores.ContentStore
}

func (p *Provider) ContentCategoryStore() store.ContentCategoryStore {
	return p.stores.ContentCategoryStore
}

func (p *Provider) ContentGenreStore() store.ContentGenreStore {
	return p.stores.ContentGenreStore
}

func (p *Provider) PlaylistStore() store.PlaylistStore {
	return p.stores.PlaylistStore
}

func (p *Provider) PlaylistEpisodeStore() store.PlaylistEpisodeStore {
	return p.stores.PlaylistEpisodeStore
}

func (p *Provider) CartStore() store.CartStore {
	return p.stores.CartStore
}

func (p *Provider) CartItemStore() store.CartItemStore {
	return p.stores.CartItemStore
}

func (p *Provider) OrderStore() store.OrderStore {
	return p.stores.OrderStore
}

func (p *Provider) OrderItemStore() store.OrderItemStore {
	return p.stores.OrderItemStore
}

func (p *Provider) PaymentStore() store.PaymentStore {
	return p.stores.PaymentStore
}

func (p *Provider) PurchaseStore() store.PurchaseStore {
	return p.stores.PurchaseStore
}
