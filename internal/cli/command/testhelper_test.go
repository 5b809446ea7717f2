package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/core/service"
	"github.com/yndnr/userdir-go/internal/server/httpserver"
	"github.com/yndnr/userdir-go/internal/storage/memory"
)

type memPersister struct {
	mu    sync.Mutex
	saved []domain.User
}

func (p *memPersister) Save(_ context.Context, users []domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = users
	return nil
}

// backend is a real router over in-memory services.
type backend struct {
	*httptest.Server
	directory *service.DirectoryService
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := service.NewDirectoryService(&memPersister{}, nil, service.WithDirectoryLogger(log))
	sess := service.NewSessionService(memory.New(), service.WithSessionLogger(log))

	srv := httptest.NewServer(httpserver.NewRouter(&httpserver.RouterConfig{
		Directory: dir,
		Sessions:  sess,
		Logger:    log,
	}))
	t.Cleanup(srv.Close)
	return &backend{Server: srv, directory: dir}
}

// cliUser is one CLI installation: its own config file against a server.
type cliUser struct {
	t       *testing.T
	server  string
	cfgPath string
}

func newCLIUser(t *testing.T, b *backend) *cliUser {
	t.Helper()
	for _, env := range []string{"USERDIR_SERVER", "USERDIR_TOKEN", "USERDIR_OUTPUT", "USERDIR_CLI_CONFIG"} {
		t.Setenv(env, "")
	}
	return &cliUser{
		t:       t,
		server:  b.URL,
		cfgPath: filepath.Join(t.TempDir(), "cli.yaml"),
	}
}

// run executes one CLI invocation and returns its stdout.
func (u *cliUser) run(args ...string) (string, error) {
	return u.runWithInput("", args...)
}

func (u *cliUser) runWithInput(input string, args ...string) (string, error) {
	u.t.Helper()
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(input)

	full := append([]string{"userdir-cli", "--config", u.cfgPath, "--server", u.server}, args...)
	err := app.Run(full)
	return out.String(), err
}

func (u *cliUser) mustRun(args ...string) string {
	u.t.Helper()
	out, err := u.run(args...)
	if err != nil {
		u.t.Fatalf("%v: %v\noutput: %s", args, err, out)
	}
	return out
}
