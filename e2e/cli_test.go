package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velatum/bellum/internal/api"
	"github.com/velatum/bellum/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "vbellum-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/vbellum")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app, err := factory.New(factory.Config{
		Logger:    logger,
		StoreType: factory.StoreTypeMemory,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		IdentityService: app.IdentityService,
		SessionService:  app.SessionService,
		RosterService:   app.RosterService,
		HubManager:      app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			app.HubManager.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type accountResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	Account      accountResponse `json:"account"`
	SessionToken string          `json:"session_token"`
}

type sessionResponse struct {
	GameName            string `json:"game_name"`
	MaxPlayers          int    `json:"max_players"`
	GameType            string `json:"game_type"`
	GameRounds          string `json:"game_rounds"`
	InitialMissionCards int    `json:"initial_mission_cards"`
	TurnTimeLimit       int    `json:"turn_time_limit"`
	SessionStatus       string `json:"session_status"`
	AccessKey           string `json:"access_key"`
	Players             []struct {
		PlayerName string `json:"player_name"`
		Assassin   string `json:"assassin"`
	} `json:"players"`
}

type assassinResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Faction string `json:"faction"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_AccountCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create account
	output, err := cli.run("account", "create", "--email", "alice@example.com", "--password", "hunter22")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "alice@example.com", authResp.Account.Email)
	assert.Equal(t, "Alice", authResp.Account.DisplayName)
	assert.NotEmpty(t, authResp.SessionToken)

	// Token was saved to the token file, so me works without --token
	output, err = cli.run("account", "me")
	require.NoError(t, err, "output: %s", output)

	var account accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &account))
	assert.Equal(t, authResp.Account.ID, account.ID)
	assert.Equal(t, "Alice", account.DisplayName)

	// Login again
	output, err = cli.run("account", "login", "--email", "alice@example.com", "--password", "hunter22")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.NotEmpty(t, authResp.SessionToken)
}

func TestCLI_PasswordReset(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("account", "create", "--email", "alice@example.com", "--password", "hunter22")
	require.NoError(t, err, "output: %s", output)

	// Request a reset token
	output, err = cli.run("account", "reset", "request", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)

	var resetResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resetResp))
	require.NotEmpty(t, resetResp.Token)

	// Redeem it
	_, err = cli.run("account", "reset", "confirm", "--reset-token", resetResp.Token, "--new-password", "new-password")
	require.NoError(t, err)

	// Old password no longer works, new one does
	_, err = cli.run("account", "login", "--email", "alice@example.com", "--password", "hunter22")
	assert.Error(t, err)

	_, err = cli.run("account", "login", "--email", "alice@example.com", "--password", "new-password")
	require.NoError(t, err)
}

func TestCLI_AssassinCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("assassins")
	require.NoError(t, err, "output: %s", output)

	var roster []assassinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &roster))
	require.Len(t, roster, 8)

	output, err = cli.run("assassins", "get", roster[0].ID)
	require.NoError(t, err, "output: %s", output)

	var one assassinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &one))
	assert.Equal(t, roster[0].ID, one.ID)
	assert.NotEmpty(t, one.Name)
}

func TestCLI_SessionFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := &cliRunner{
		binaryPath: cli1.binaryPath,
		serverURL:  cli1.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}

	// Two accounts
	output, err := cli1.run("account", "create", "--email", "alice@example.com", "--password", "hunter22")
	require.NoError(t, err, "output: %s", output)
	var auth1 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth1))

	output, err = cli2.run("account", "create", "--email", "bob@example.com", "--password", "hunter22")
	require.NoError(t, err, "output: %s", output)
	var auth2 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth2))

	// Alice creates a session
	output, err = cli1.run("session", "create", "Friday Night", "--max-players", "3")
	require.NoError(t, err, "output: %s", output)

	var created sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "Friday Night", created.GameName)
	assert.Equal(t, "Beginner", created.GameType)
	assert.Equal(t, "active", created.SessionStatus)
	assert.Equal(t, 20, created.InitialMissionCards)
	require.Len(t, created.AccessKey, 5)
	accessKey := created.AccessKey

	// Bob joins with the access key
	output, err = cli2.run("session", "join", "Friday Night", "--key", accessKey)
	require.NoError(t, err, "output: %s", output)

	var joined sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &joined))
	require.Len(t, joined.Players, 2)
	assert.Equal(t, "Alice", joined.Players[0].PlayerName)
	assert.Equal(t, "Bob", joined.Players[1].PlayerName)

	// Wrong key is rejected
	output, err = cli2.run("session", "join", "Friday Night", "--key", "WRONG")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "access key")

	// Bob picks an assassin
	output, err = cli2.run("session", "select", "Friday Night", "veyra-thorn", "--key", accessKey)
	require.NoError(t, err, "output: %s", output)

	var picked sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &picked))
	require.Len(t, picked.Players, 2)
	assert.Equal(t, "veyra-thorn", picked.Players[1].Assassin)

	// The get view never includes the access key
	output, err = cli1.run("session", "get", "Friday Night")
	require.NoError(t, err, "output: %s", output)

	var fetched sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fetched))
	assert.Empty(t, fetched.AccessKey)
	assert.Len(t, fetched.Players, 2)
}

func TestCLI_EventStream(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := &cliRunner{
		binaryPath: cli1.binaryPath,
		serverURL:  cli1.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}

	output, err := cli1.run("account", "create", "--email", "alice@example.com", "--password", "hunter22")
	require.NoError(t, err, "output: %s", output)
	var auth1 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth1))

	output, err = cli2.run("account", "create", "--email", "bob@example.com", "--password", "hunter22")
	require.NoError(t, err, "output: %s", output)

	output, err = cli1.run("session", "create", "Watch Party", "--max-players", "2")
	require.NoError(t, err, "output: %s", output)
	var created sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	// Alice starts streaming events
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	streamCmd := exec.CommandContext(ctx, cli1.binaryPath,
		"--server", cli1.serverURL,
		"--token", auth1.SessionToken,
		"events", "Watch Party")
	stdout, err := streamCmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, streamCmd.Start())
	defer func() {
		cancel()
		_ = streamCmd.Wait()
	}()

	// Bob joins; the roster change should arrive on the stream
	_, err = cli2.run("session", "join", "Watch Party", "--key", created.AccessKey)
	require.NoError(t, err)

	sawJoin := make(chan struct{})
	go func() {
		buf := make([]byte, 4096)
		var collected string
		for {
			n, readErr := stdout.Read(buf)
			if n > 0 {
				collected += string(buf[:n])
				if strings.Contains(collected, `"player_name":"Bob"`) {
					close(sawJoin)
					return
				}
			}
			if readErr != nil {
				return
			}
		}
	}()

	select {
	case <-sawJoin:
	case <-time.After(5 * time.Second):
		t.Fatal("did not observe roster change on event stream")
	}
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Me without auth
	output, err := cli.run("account", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Non-existent session
	output, err = cli.run("account", "create", "--email", "alice@example.com", "--password", "hunter22")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("session", "get", "No Such Game")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Session routes require auth
	noAuth := &cliRunner{
		binaryPath: cli.binaryPath,
		serverURL:  cli.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "empty-token"),
	}
	output, err = noAuth.run("session", "get", "No Such Game")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")
}
