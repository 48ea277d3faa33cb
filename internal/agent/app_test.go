package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/internal/mock"
	"github.com/MKhiriev/data-publish-agent/models"
)

func testConfig(t *testing.T) *config.AgentConfig {
	t.Helper()
	return &config.AgentConfig{
		Account: config.AgentAccount{UserID: "agent", Password: "secret"},
		Adapter: config.AgentAdapter{
			LoginURL:       "http://127.0.0.1/mobile-methods/login",
			DataURL:        "http://127.0.0.1/DataPublish",
			RequestTimeout: time.Second,
			PageSize:       10,
		},
		Storage: config.AgentStorage{DB: config.AgentDB{
			Driver: "sqlite3",
			DSN:    filepath.Join(t.TempDir(), "agent.db"),
		}},
		Sync: config.AgentSync{Concurrency: 2, RenewBefore: time.Minute},
	}
}

// newTestApp returns an App talking to mocked adapters.
func newTestApp(t *testing.T, cfg *config.AgentConfig) (*App, *mock.MockAuthAdapter, *mock.MockDataPublishAdapter, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthAdapter(ctrl)
	data := mock.NewMockDataPublishAdapter(ctrl)

	out := &bytes.Buffer{}
	app := NewApp(cfg, models.NewAppBuildInfo("1.0.0", "", ""), out, logger.Nop())
	app.newAdapter = func() (adapterPair, error) {
		return adapterPair{auth: auth, data: data}, nil
	}
	return app, auth, data, out
}

func validSession() models.Session {
	return models.Session{UserID: "agent", IDToken: "id-token", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)}
}

// serveOneClient answers the clients collection with c1 and every other
// collection with an empty page.
func serveOneClient(_ context.Context, c models.Collection, _ models.Scope, _ models.SyncCursor, _ string) (models.Page, error) {
	if c.Name == models.Clients.Name {
		return models.Page{
			Items:        []models.Entity{{Key: "c1", Version: 1, Raw: json.RawMessage(`{"id":"c1"}`)}},
			FinalVersion: 1,
		}, nil
	}
	return models.Page{FinalVersion: 1}, nil
}

func TestApp_Update(t *testing.T) {
	cfg := testConfig(t)
	app, auth, data, out := newTestApp(t, cfg)
	ctx := context.Background()

	require.NoError(t, app.SchemaUpdate(ctx))

	auth.EXPECT().Login(gomock.Any(), models.Credentials{UserID: "agent", Password: "secret"}).Return(validSession(), nil)
	data.EXPECT().FetchPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "id-token").DoAndReturn(serveOneClient).AnyTimes()

	require.NoError(t, app.Update(ctx))

	assert.Contains(t, out.String(), "clients")
	assert.Contains(t, out.String(), "c1")
	assert.Contains(t, out.String(), "1 clients")

	out.Reset()
	require.NoError(t, app.SyncReset(ctx))
	assert.Contains(t, out.String(), "Deleted")
	assert.NotContains(t, out.String(), "Deleted 0 cursors")
}

func TestApp_Update_RequiresAccount(t *testing.T) {
	cfg := testConfig(t)
	cfg.Account.Password = ""
	app, _, _, _ := newTestApp(t, cfg)

	assert.ErrorIs(t, app.Update(context.Background()), config.ErrInvalidAccountConfigs)
}

func TestApp_Update_SchemaBehind(t *testing.T) {
	app, _, _, _ := newTestApp(t, testConfig(t))

	assert.ErrorIs(t, app.Update(context.Background()), ErrSchemaBehind)
}

func TestApp_Update_LoginFails(t *testing.T) {
	app, auth, _, _ := newTestApp(t, testConfig(t))
	ctx := context.Background()
	require.NoError(t, app.SchemaUpdate(ctx))

	errRejected := errors.New("rejected")
	auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.Session{}, errRejected)

	assert.ErrorIs(t, app.Update(ctx), errRejected)
}

func TestApp_Update_RepeatStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers.RepeatInterval = 15 * time.Minute
	app, auth, data, _ := newTestApp(t, cfg)
	require.NoError(t, app.SchemaUpdate(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(validSession(), nil)
	data.EXPECT().FetchPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.Collection, _ models.Scope, _ models.SyncCursor, _ string) (models.Page, error) {
			cancel()
			return models.Page{}, ctx.Err()
		})

	assert.NoError(t, app.Update(ctx))
}

func TestApp_SchemaCheck(t *testing.T) {
	app, _, _, out := newTestApp(t, testConfig(t))
	ctx := context.Background()

	assert.ErrorIs(t, app.SchemaCheck(ctx), ErrSchemaBehind)

	require.NoError(t, app.SchemaUpdate(ctx))
	require.NoError(t, app.SchemaCheck(ctx))
	assert.Contains(t, out.String(), "Schema is up to date")
}

type fakeVersioner struct {
	current, latest int64
	err             error
}

func (f fakeVersioner) SchemaVersion() (int64, int64, error) {
	return f.current, f.latest, f.err
}

func TestCheckSchema(t *testing.T) {
	errRead := errors.New("read")

	assert.NoError(t, checkSchema(fakeVersioner{current: 2, latest: 2}))
	assert.ErrorIs(t, checkSchema(fakeVersioner{current: 1, latest: 2}), ErrSchemaBehind)
	assert.ErrorIs(t, checkSchema(fakeVersioner{current: 3, latest: 2}), ErrSchemaAhead)
	assert.ErrorIs(t, checkSchema(fakeVersioner{err: errRead}), errRead)
}

func TestPrintReport(t *testing.T) {
	app, _, _, out := newTestApp(t, testConfig(t))
	started := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	app.printReport(models.SyncReport{
		RunID:      "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		ClientIDs:  []string{"c1"},
		Reports: []models.CollectionReport{
			{Collection: "clients", End: models.SyncCursor{Version: 4}, Pages: 1, Items: 3, Done: true},
			{Collection: "tasks", Scope: models.Scope{ClientID: "c1"}, Error: "boom"},
		},
	})

	got := out.String()
	assert.Contains(t, got, "version=4 offset=0")
	assert.Contains(t, got, "failed: boom")
	assert.Contains(t, got, "Run run-1: 1 clients, 3 items, 1 failed in 1.5s")
}
