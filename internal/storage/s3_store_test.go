//go:build integration

package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/config"
)

const garageConfig = `metadata_dir = "/tmp/garage/meta"
data_dir = "/tmp/garage/data"
db_engine = "sqlite"

replication_factor = 1

rpc_bind_addr = "[::]:3901"
rpc_public_addr = "127.0.0.1:3901"

[s3_api]
s3_region = "garage"
api_bind_addr = "[::]:3900"
root_domain = ".s3.garage.localhost"
`

func setupTest(ctx context.Context) (testcontainers.Container, *S3Store, func(), error) {
	workDir, err := os.MkdirTemp("", "garage-*")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create work dir: %w", err)
	}

	configPath := filepath.Join(workDir, "garage.toml")
	if err := os.WriteFile(configPath, []byte(garageConfig), 0o644); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to write garage.toml: %w", err)
	}

	metaDir := filepath.Join(workDir, "meta")
	dataDir := filepath.Join(workDir, "data")
	for _, dir := range []string{metaDir, dataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, nil, err
		}
	}

	req := testcontainers.ContainerRequest{
		Image:        "dxflrs/garage:v1.0.0",
		ExposedPorts: []string{"3900/tcp"},
		Files: []testcontainers.ContainerFile{
			{
				HostFilePath:      configPath,
				ContainerFilePath: "/etc/garage.toml",
				FileMode:          0644,
			},
		},
		HostConfigModifier: func(hc *container.HostConfig) {
			hc.Binds = []string{
				metaDir + ":/tmp/garage/meta",
				dataDir + ":/tmp/garage/data",
			}
		},
		Env: map[string]string{
			"GARAGE_RPC_SECRET": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		},
		WaitingFor: wait.ForListeningPort("3900/tcp"),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to start container: %w", err)
	}

	cleanup := func() {
		if c != nil {
			c.Terminate(ctx)
		}
		os.RemoveAll(workDir)
	}

	success := false
	defer func() {
		if !success {
			cleanup()
		}
	}()

	// garage needs a little time to fully initialise
	time.Sleep(2 * time.Second)

	nodeID, err := getNodeID(ctx, c)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := execGarage(ctx, c, "layout assign", []string{"/garage", "layout", "assign", "-z", "dc1", "-c", "1G", nodeID}); err != nil {
		return nil, nil, nil, err
	}
	if err := execGarage(ctx, c, "layout apply", []string{"/garage", "layout", "apply", "--version", "1"}); err != nil {
		return nil, nil, nil, err
	}

	accessKey, secretKey, err := createKey(ctx, c)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := execGarage(ctx, c, "bucket create", []string{"/garage", "bucket", "create", "media-bucket"}); err != nil {
		return nil, nil, nil, err
	}
	if err := execGarage(ctx, c, "bucket allow", []string{"/garage", "bucket", "allow", "--read", "--write", "--owner", "--key", "media-key", "media-bucket"}); err != nil {
		return nil, nil, nil, err
	}

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "3900")

	cfg := config.S3Config{
		Endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
		Region:    "garage",
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    "media-bucket",
	}

	store, err := NewS3Store(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create store: %w", err)
	}

	success = true
	return c, store, cleanup, nil
}

func execGarage(ctx context.Context, c testcontainers.Container, name string, cmd []string) error {
	_, reader, err := c.Exec(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%s exec error: %w", name, err)
	}
	output, _ := io.ReadAll(reader)
	fmt.Printf("=== %s ===\n%s\n", name, string(output))
	return nil
}

func getNodeID(ctx context.Context, c testcontainers.Container) (string, error) {
	_, reader, err := c.Exec(ctx, []string{"/garage", "status"})
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	output, _ := io.ReadAll(reader)

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 1 && len(fields[0]) == 16 {
			if _, err := hex.DecodeString(fields[0]); err == nil {
				return fields[0], nil
			}
		}
	}
	return "", fmt.Errorf("could not parse node ID from status output")
}

func createKey(ctx context.Context, c testcontainers.Container) (accessKey, secretKey string, err error) {
	_, reader, err := c.Exec(ctx, []string{"/garage", "key", "create", "media-key"})
	if err != nil {
		return "", "", fmt.Errorf("failed to create key: %w", err)
	}
	output, _ := io.ReadAll(reader)

	for _, line := range strings.Split(string(output), "\n") {
		if strings.Contains(line, "Key ID:") {
			accessKey = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
		}
		if strings.Contains(line, "Secret key:") {
			secretKey = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
		}
	}

	if accessKey == "" || secretKey == "" {
		return "", "", fmt.Errorf("failed to parse key output:\n%s", string(output))
	}

	return accessKey, secretKey, nil
}

var testStore *S3Store

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, store, cleanup, err := setupTest(ctx)
	if err != nil {
		panic(err)
	}
	defer func() {
		container.Terminate(ctx)
		cleanup()
	}()

	testStore = store
	os.Exit(m.Run())
}

func TestObjectStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	key := "assets/labels/stout.png"
	content := "label bytes"

	if err := testStore.Save(ctx, key, strings.NewReader(content)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !testStore.Exists(ctx, key) {
		t.Error("saved object not reported by Exists")
	}

	rc, err := testStore.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("could not read object: %v", err)
	}
	if string(got) != content {
		t.Errorf("expected %q, got %q", content, string(got))
	}

	if err := testStore.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if testStore.Exists(ctx, key) {
		t.Error("deleted object still reported by Exists")
	}
}
