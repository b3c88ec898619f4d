package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"log/slog"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nickyhof/RecordDB/core"
	"github.com/nickyhof/RecordDB/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testDatabase(t *testing.T) *db.AnyDatabase {
	t.Helper()
	database, err := db.NewAnyDatabase(core.KeyInt, db.WithLogger(testLogger(t)))
	require.NoError(t, err)
	return database
}

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	server := NewServer(testDatabase(t), testLogger(t))
	require.NoError(t, server.Start("127.0.0.1:0")) // :0 picks a free port
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func setupAuthTestServer(t *testing.T, authConfig *AuthConfig) *Server {
	t.Helper()
	server := NewServerWithAuth(testDatabase(t), authConfig, testLogger(t))
	require.NoError(t, server.Start("127.0.0.1:0"))
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

// client is one persistent connection.
type client struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func dial(t *testing.T, addr string) *client {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &client{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (c *client) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(c.t, err)
}

func (c *client) receive() db.Response {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	line, err := c.reader.ReadString('\n')
	require.NoError(c.t, err)

	var resp db.Response
	require.NoError(c.t, json.Unmarshal([]byte(line), &resp))
	return resp
}

func (c *client) query(line string) db.Response {
	c.t.Helper()
	c.send(line)
	return c.receive()
}

func TestServerStartStop(t *testing.T) {
	server := setupTestServer(t)

	assert.NotEmpty(t, server.Addr())
	assert.False(t, server.TLSEnabled())
	assert.NoError(t, server.Stop())
	assert.NoError(t, server.Stop())
}

func TestServerCreateInsertSelect(t *testing.T) {
	server := setupTestServer(t)
	c := dial(t, server.Addr())

	// the first line of a CREATE gets no response of its own
	c.send("CREATE users KEY id")
	resp := c.query("FIELDS id: Int, name: String")
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "message", resp.Type)
	assert.JSONEq(t, `{"message":"Table 'users' created successfully"}`, string(resp.Result))

	resp = c.query(`INSERT id = 1, name = "Alice" INTO users`)
	require.True(t, resp.Success, resp.Error)

	resp = c.query("SELECT id, name FROM users")
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "select", resp.Type)

	var result struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, []string{"id", "name"}, result.Columns)
	assert.Equal(t, [][]any{{float64(1), "Alice"}}, result.Rows)
}

func TestServerErrors(t *testing.T) {
	server := setupTestServer(t)
	c := dial(t, server.Addr())

	tests := []struct {
		query string
		kind  string
	}{
		{"SELECT id FROM missing", "NotExistError"},
		{"DROP TABLE users", "ParseError"},
		{"CREATE t KEY id FIELDS id: Uuid", "UnknownTokenError"},
	}
	for _, tt := range tests {
		resp := c.query(tt.query)
		assert.False(t, resp.Success, tt.query)
		assert.Equal(t, tt.kind, resp.ErrorKind, tt.query)
		assert.NotEmpty(t, resp.Error, tt.query)
	}

	// the connection survives errors
	resp := c.query("CREATE t KEY id FIELDS id: Int")
	assert.True(t, resp.Success, resp.Error)
}

func TestServerSharedDatabase(t *testing.T) {
	server := setupTestServer(t)

	first := dial(t, server.Addr())
	require.True(t, first.query("CREATE t KEY id FIELDS id: Int").Success)
	require.True(t, first.query("INSERT id = 1 INTO t").Success)

	second := dial(t, server.Addr())
	resp := second.query("INSERT id = 1 INTO t")
	assert.False(t, resp.Success)
	assert.Equal(t, "AlreadyExistsError", resp.ErrorKind)
}

func TestServerQuit(t *testing.T) {
	server := setupTestServer(t)
	c := dial(t, server.Addr())

	c.send("quit")
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err := c.reader.ReadString('\n')
	assert.Error(t, err)
}

func TestServerServeStopsOnCancel(t *testing.T) {
	server := NewServer(testDatabase(t), testLogger(t))
	require.NoError(t, server.Start("127.0.0.1:0"))
	c := dial(t, server.Addr())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	// open connections are closed on shutdown
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err := c.reader.ReadString('\n')
	assert.Error(t, err)
}

// createTestJWT creates an HS256 token carrying the given claims.
func createTestJWT(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func userClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"name":  "Test User",
		"email": "test@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthRequired(t *testing.T) {
	server := setupAuthTestServer(t, &AuthConfig{JWTSecret: "test-secret"})
	c := dial(t, server.Addr())

	resp := c.query("CREATE t KEY id FIELDS id: Int")
	assert.False(t, resp.Success)
	assert.Equal(t, "auth", resp.Type)
	assert.Contains(t, resp.Error, "authentication required")
}

func TestAuthWithValidJWT(t *testing.T) {
	secret := "test-secret"
	server := setupAuthTestServer(t, &AuthConfig{JWTSecret: secret})
	c := dial(t, server.Addr())

	resp := c.query("AUTH JWT " + createTestJWT(t, secret, userClaims()))
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "auth", resp.Type)

	var authResp AuthResponse
	require.NoError(t, json.Unmarshal(resp.Result, &authResp))
	assert.True(t, authResp.Authenticated)
	assert.Equal(t, "Test User <test@example.com>", authResp.Identity)
	assert.InDelta(t, 3600, authResp.ExpiresIn, 5)

	resp = c.query("CREATE t KEY id FIELDS id: Int")
	assert.True(t, resp.Success, resp.Error)
}

func TestAuthRejected(t *testing.T) {
	secret := "test-secret"

	claims := func(extra jwt.MapClaims) jwt.MapClaims {
		c := userClaims()
		for k, v := range extra {
			c[k] = v
		}
		return c
	}

	tests := []struct {
		name   string
		config AuthConfig
		line   string
		error  string
	}{
		{
			name:   "wrong secret",
			config: AuthConfig{JWTSecret: secret},
			line:   "AUTH JWT " + createTestJWT(t, "wrong-secret", userClaims()),
			error:  "invalid token",
		},
		{
			name:   "expired",
			config: AuthConfig{JWTSecret: secret},
			line:   "AUTH JWT " + createTestJWT(t, secret, claims(jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})),
			error:  "invalid token",
		},
		{
			name:   "wrong issuer",
			config: AuthConfig{JWTSecret: secret, Issuer: "recorddb"},
			line:   "AUTH JWT " + createTestJWT(t, secret, claims(jwt.MapClaims{"iss": "someone-else"})),
			error:  "invalid token",
		},
		{
			name:   "wrong audience",
			config: AuthConfig{JWTSecret: secret, Audience: "recorddb"},
			line:   "AUTH JWT " + createTestJWT(t, secret, claims(jwt.MapClaims{"aud": "other"})),
			error:  "invalid token",
		},
		{
			name:   "missing identity",
			config: AuthConfig{JWTSecret: secret},
			line:   "AUTH JWT " + createTestJWT(t, secret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
			error:  "missing identity claims",
		},
		{
			name:   "unsupported type",
			config: AuthConfig{JWTSecret: secret},
			line:   "AUTH BASIC dXNlcjpwYXNz",
			error:  "unsupported auth type",
		},
		{
			name:   "malformed",
			config: AuthConfig{JWTSecret: secret},
			line:   "AUTH JWT",
			error:  "expected AUTH <type> <credentials>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupAuthTestServer(t, &tt.config)
			c := dial(t, server.Addr())

			resp := c.query(tt.line)
			assert.False(t, resp.Success)
			assert.Equal(t, "auth", resp.Type)
			assert.Contains(t, resp.Error, tt.error)

			resp = c.query("CREATE t KEY id FIELDS id: Int")
			assert.False(t, resp.Success)
		})
	}
}

func TestAuthIssuerAndAudience(t *testing.T) {
	secret := "test-secret"
	server := setupAuthTestServer(t, &AuthConfig{JWTSecret: secret, Issuer: "recorddb", Audience: "clients"})
	c := dial(t, server.Addr())

	claims := userClaims()
	claims["iss"] = "recorddb"
	claims["aud"] = []string{"admins", "clients"}

	resp := c.query("AUTH JWT " + createTestJWT(t, secret, claims))
	assert.True(t, resp.Success, resp.Error)
}

func TestConnectionStateExpiry(t *testing.T) {
	server := NewServerWithAuth(nil, &AuthConfig{JWTSecret: "s"}, nil)

	state := &ConnectionState{}
	assert.ErrorIs(t, server.checkAuth(state), errAuthRequired)

	state.authenticated = true
	state.tokenExpiry = time.Now().Add(time.Minute)
	assert.NoError(t, server.checkAuth(state))

	state.tokenExpiry = time.Now().Add(-time.Minute)
	assert.ErrorIs(t, server.checkAuth(state), errTokenExpired)

	open := NewServer(nil, nil)
	assert.NoError(t, open.checkAuth(&ConnectionState{}))
}

func TestParseAuthCommand(t *testing.T) {
	authType, token, err := parseAuthCommand("auth jwt abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "JWT", authType)
	assert.Equal(t, "abc.def.ghi", token)

	_, _, err = parseAuthCommand("SELECT id FROM t")
	assert.Error(t, err)

	assert.True(t, isAuthCommand("AUTH JWT x"))
	assert.False(t, isAuthCommand("AUTHOR"))
}

// === TLS Tests ===

// setupTLSTestServer creates a server with TLS enabled using test certificates
func setupTLSTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	tmpDir := t.TempDir()
	certFile := filepath.Join(tmpDir, "cert.pem")
	keyFile := filepath.Join(tmpDir, "key.pem")
	generateTestCertificate(t, certFile, keyFile)

	server := NewServer(testDatabase(t), testLogger(t))
	require.NoError(t, server.StartTLS("127.0.0.1:0", certFile, keyFile))
	t.Cleanup(func() { _ = server.Stop() })

	return server, certFile
}

// generateTestCertificate creates a self-signed certificate for testing
func generateTestCertificate(t *testing.T, certFile, keyFile string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName: "localhost",
		},
		NotBefore: time.Now(),
		NotAfter:  time.Now().Add(time.Hour),
		KeyUsage:  x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageServerAuth,
		},
		IPAddresses: []net.IP{net.ParseIP("127.0.0.1"), net.IPv6loopback},
		DNSNames:    []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))
}

func TestTLSServerConnection(t *testing.T) {
	server, certFile := setupTLSTestServer(t)
	assert.True(t, server.TLSEnabled())

	certPool := x509.NewCertPool()
	certData, err := os.ReadFile(certFile)
	require.NoError(t, err)
	certPool.AppendCertsFromPEM(certData)

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: 2 * time.Second}, "tcp", server.Addr(), &tls.Config{
		RootCAs:    certPool,
		ServerName: "localhost",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	c := &client{t: t, conn: conn, reader: bufio.NewReader(conn)}
	resp := c.query("CREATE t KEY id FIELDS id: Int")
	assert.True(t, resp.Success, resp.Error)
	assert.Equal(t, "message", resp.Type)
}

func TestTLSServerInvalidCert(t *testing.T) {
	server, _ := setupTLSTestServer(t)

	// system roots do not include the self-signed certificate
	_, err := tls.DialWithDialer(&net.Dialer{Timeout: 2 * time.Second}, "tcp", server.Addr(), &tls.Config{
		ServerName: "localhost",
	})
	assert.Error(t, err)
}

func TestStartTLSMissingCertificate(t *testing.T) {
	server := NewServer(testDatabase(t), testLogger(t))
	err := server.StartTLS("127.0.0.1:0", "missing-cert.pem", "missing-key.pem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load TLS certificate")
}
