package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/TomTonic/hashbench"
	"github.com/TomTonic/hashbench/internal/loader"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig(dir string, seed uint64) Config {
	cfg := DefaultConfig(dir)
	cfg.Seed = seed
	cfg.NumberSizes = []int{10, 50}
	cfg.TextSizes = []int{20}
	return cfg
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

func TestGenerateFileSet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test_data")
	files, err := Generate(smallConfig(dir, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"numbers_10.txt", "sequential_10.txt", "duplicates_10.txt",
		"numbers_50.txt", "sequential_50.txt", "duplicates_50.txt",
		"random_strings_20.txt", "words_20.txt", "uuids_20.txt",
		"json_data_20.json", "csv_data_20.csv",
		"empty.txt", "long_strings.txt", "big_numbers.txt",
	}, files)
	for _, f := range files {
		assert.FileExists(t, filepath.Join(dir, f))
	}
}

func TestGenerateContents(t *testing.T) {
	dir := t.TempDir()
	_, err := Generate(smallConfig(dir, 9))
	require.NoError(t, err)

	nums := readLines(t, filepath.Join(dir, "numbers_50.txt"))
	require.Len(t, nums, 50)
	for _, s := range nums {
		v, err := strconv.Atoi(s)
		require.NoError(t, err)
		assert.True(t, v >= -1_000_000 && v <= 1_000_000, v)
	}

	seq := readLines(t, filepath.Join(dir, "sequential_10.txt"))
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, seq)

	for _, s := range readLines(t, filepath.Join(dir, "duplicates_50.txt")) {
		v, err := strconv.Atoi(s)
		require.NoError(t, err)
		assert.True(t, v >= 1 && v <= 100, v)
	}

	for _, s := range readLines(t, filepath.Join(dir, "random_strings_20.txt")) {
		assert.True(t, len(s) >= 3 && len(s) <= 50, s)
	}

	for _, s := range readLines(t, filepath.Join(dir, "words_20.txt")) {
		assert.Contains(t, DefaultWords, s)
	}

	ids := readLines(t, filepath.Join(dir, "uuids_20.txt"))
	require.Len(t, ids, 20)
	for _, s := range ids {
		id, err := uuid.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
	}

	csvLines := readLines(t, filepath.Join(dir, "csv_data_20.csv"))
	require.Len(t, csvLines, 21)
	assert.Equal(t, "id,name,value,active", csvLines[0])

	empty, err := os.ReadFile(filepath.Join(dir, "empty.txt"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.Equal(t, []string{
		"18446744073709551616",
		"-9223372036854775808",
		"3.141592653589793",
		"1.7976931348623157e+308",
	}, readLines(t, filepath.Join(dir, "big_numbers.txt")))
}

func TestGenerateIsReproducible(t *testing.T) {
	a, b, c := t.TempDir(), t.TempDir(), t.TempDir()
	files, err := Generate(smallConfig(a, 5))
	require.NoError(t, err)
	_, err = Generate(smallConfig(b, 5))
	require.NoError(t, err)
	_, err = Generate(smallConfig(c, 6))
	require.NoError(t, err)

	for _, f := range files {
		ba, _ := os.ReadFile(filepath.Join(a, f))
		bb, _ := os.ReadFile(filepath.Join(b, f))
		assert.True(t, bytes.Equal(ba, bb), f)
	}
	ua, _ := os.ReadFile(filepath.Join(a, "uuids_20.txt"))
	uc, _ := os.ReadFile(filepath.Join(c, "uuids_20.txt"))
	assert.NotEqual(t, ua, uc)
}

func TestGeneratedFilesLoad(t *testing.T) {
	dir := t.TempDir()
	files, err := Generate(smallConfig(dir, 2))
	require.NoError(t, err)

	got, err := loader.New(nil).LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, got, len(files))

	byName := make(map[string]*hashbench.Dataset)
	for _, ds := range got {
		byName[ds.Name()] = ds
	}
	assert.Equal(t, 20, byName["csv_data_20.csv"].Len())
	assert.Equal(t, 4, byName["csv_data_20.csv"].Arity())
	assert.Equal(t, 20, byName["json_data_20.json"].Len())
	assert.Equal(t, hashbench.KindRow, byName["json_data_20.json"].Kind())
	assert.Equal(t, 0, byName["empty.txt"].Len())
	assert.Equal(t, 3, byName["long_strings.txt"].Len())
}

func TestGenerateRejectsEmptyDir(t *testing.T) {
	_, err := Generate(Config{})
	assert.Error(t, err)
}
