package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-plant-doctor/internal/config"
	"github.com/sbilibin2017/gw-plant-doctor/internal/facades"
	"github.com/sbilibin2017/gw-plant-doctor/internal/storage"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	assert.Equal(t, "config.env", parseFlags())
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	assert.Equal(t, "myconfig.env", parseFlags())
}

func TestPrintBuildInfo_Output(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	assert.Equal(t, "Starting service version v1.0.0, commit abcd1234, build 2025-09-26\n", buf.String())
}

func TestRun_InvalidLogLevel(t *testing.T) {
	cfg := &config.Config{LogLevel: "loud", LogFormat: "json"}
	assert.Error(t, run(context.Background(), cfg))
}

func TestNewUploadStore_Local(t *testing.T) {
	dir := t.TempDir() + "/uploads"
	cfg := &config.Config{StorageBackend: config.StorageLocal, UploadDir: dir}

	store, err := newUploadStore(context.Background(), cfg)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "leaf.png", bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/leaf.png", path)

	_, err = os.Stat(dir + "/leaf.png")
	assert.NoError(t, err)
}

func TestMedicineImagesResolveAfterSeeding(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StorageBackend: config.StorageLocal, UploadDir: t.TempDir()}

	store, err := newUploadStore(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, storage.SeedSamples(ctx, store))

	for _, path := range []string{facades.LeafBlight.MedicineImage, facades.NutrientDeficiency.MedicineImage} {
		require.True(t, strings.HasPrefix(path, storage.PublicPrefix), path)
		rc, err := store.Open(ctx, strings.TrimPrefix(path, storage.PublicPrefix))
		require.NoError(t, err, path)
		rc.Close()
	}
}
