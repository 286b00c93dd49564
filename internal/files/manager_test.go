package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"cargolens/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths(tmpDir string) *config.Paths {
	return &config.Paths{
		ExecutableDir: tmpDir,
		DataDir:       filepath.Join(tmpDir, "data"),
		UploadsDir:    filepath.Join(tmpDir, "data", "uploads"),
		ReportsDir:    filepath.Join(tmpDir, "data", "reports"),
		LogsDir:       filepath.Join(tmpDir, "logs"),
	}
}

func TestNewManager(t *testing.T) {
	paths := &config.Paths{
		ExecutableDir: "/test/executable",
		DataDir:       "/test/data",
	}

	manager := NewManager(paths)
	assert.NotNil(t, manager)
	assert.Equal(t, paths, manager.paths)
}

func TestFileExists(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      bool
		relativePath   string
		expectedExists bool
	}{
		{
			name:           "existing file",
			setupFile:      true,
			relativePath:   "test_file.txt",
			expectedExists: true,
		},
		{
			name:           "non-existing file",
			setupFile:      false,
			relativePath:   "non_existing.txt",
			expectedExists: false,
		},
		{
			name:           "absolute path existing",
			setupFile:      true,
			relativePath:   "", // Will be set to absolute path
			expectedExists: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			paths := testPaths(tmpDir)
			require.NoError(t, paths.EnsureDirectories())
			manager := NewManager(paths)

			testPath := tt.relativePath
			if testPath == "" {
				testPath = filepath.Join(tmpDir, "absolute_test.txt")
			}

			if tt.setupFile {
				fullPath := testPath
				if !filepath.IsAbs(testPath) {
					fullPath = filepath.Join(paths.DataDir, testPath)
				}
				err := os.WriteFile(fullPath, []byte("test content"), 0644)
				require.NoError(t, err)
			}

			exists := manager.FileExists(testPath)
			assert.Equal(t, tt.expectedExists, exists)
		})
	}
}

func TestGetFileSize(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		expectedSize int64
	}{
		{
			name:         "small file",
			content:      "Hello",
			expectedSize: 5,
		},
		{
			name:         "empty file",
			content:      "",
			expectedSize: 0,
		},
		{
			name:         "larger file",
			content:      strings.Repeat("A", 1024),
			expectedSize: 1024,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			paths := testPaths(tmpDir)
			require.NoError(t, paths.EnsureDirectories())
			manager := NewManager(paths)

			testPath := "size_test.txt"
			fullPath := filepath.Join(paths.DataDir, testPath)
			err := os.WriteFile(fullPath, []byte(tt.content), 0644)
			require.NoError(t, err)

			size, err := manager.GetFileSize(testPath)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSize, size)
		})
	}
}

func TestReadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "read text file",
			content: "Test content for reading",
		},
		{
			name:    "read binary file",
			content: "\x00\x01\x02\x03\xFF",
		},
		{
			name:    "read empty file",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			paths := testPaths(tmpDir)
			require.NoError(t, paths.EnsureDirectories())
			manager := NewManager(paths)

			testPath := "read_test.txt"
			fullPath := filepath.Join(paths.DataDir, testPath)
			err := os.WriteFile(fullPath, []byte(tt.content), 0644)
			require.NoError(t, err)

			data, err := manager.ReadFile(testPath)
			assert.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestWriteFile(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content []byte
	}{
		{
			name:    "write text content",
			path:    "write_test.txt",
			content: []byte("Hello, World!"),
		},
		{
			name:    "write binary content",
			path:    "write_test.bin",
			content: []byte{0x00, 0x01, 0x02, 0xFF},
		},
		{
			name:    "write empty content",
			path:    "write_empty.txt",
			content: []byte{},
		},
		{
			name:    "write creates parent directories",
			path:    "reports/Container_Analysis_Report.xlsx",
			content: []byte(strings.Repeat("Report content. ", 100)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			paths := testPaths(tmpDir)
			manager := NewManager(paths)

			err := manager.WriteFile(tt.path, tt.content)
			assert.NoError(t, err)

			writtenContent, err := os.ReadFile(manager.resolvePath(tt.path))
			assert.NoError(t, err)
			assert.Equal(t, tt.content, writtenContent)
		})
	}
}

func TestEnsureDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	paths := testPaths(tmpDir)
	manager := NewManager(paths)

	err := manager.EnsureDirectory("nested/output")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(paths.DataDir, "nested", "output"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPathResolution(t *testing.T) {
	tests := []struct {
		name         string
		inputPath    string
		expectedFunc func(*config.Paths) string
		description  string
	}{
		{
			name:      "uploads prefix",
			inputPath: "uploads/containers.xlsx",
			expectedFunc: func(p *config.Paths) string {
				return p.GetUploadPath("containers.xlsx")
			},
			description: "Should resolve uploads/ prefix correctly",
		},
		{
			name:      "reports prefix",
			inputPath: "reports/output.csv",
			expectedFunc: func(p *config.Paths) string {
				return p.GetReportPath("output.csv")
			},
			description: "Should resolve reports/ prefix correctly",
		},
		{
			name:      "logs prefix",
			inputPath: "logs/app.log",
			expectedFunc: func(p *config.Paths) string {
				return p.GetLogPath("app.log")
			},
			description: "Should resolve logs/ prefix correctly",
		},
		{
			name:      "absolute path",
			inputPath: "/absolute/path/file.txt",
			expectedFunc: func(p *config.Paths) string {
				return "/absolute/path/file.txt"
			},
			description: "Should return absolute path unchanged",
		},
		{
			name:      "default data directory",
			inputPath: "somefile.txt",
			expectedFunc: func(p *config.Paths) string {
				return filepath.Join(p.DataDir, "somefile.txt")
			},
			description: "Should resolve to data directory for unknown prefixes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := testPaths(t.TempDir())
			manager := NewManager(paths)

			resolved := manager.resolvePath(tt.inputPath)
			expected := tt.expectedFunc(paths)

			assert.Equal(t, expected, resolved, tt.description)
		})
	}
}

func TestConcurrentFileOperations(t *testing.T) {
	tmpDir := t.TempDir()
	paths := testPaths(tmpDir)
	require.NoError(t, paths.EnsureDirectories())
	manager := NewManager(paths)

	const numGoroutines = 10
	var wg sync.WaitGroup

	t.Run("concurrent file creation", func(t *testing.T) {
		wg.Add(numGoroutines)

		for i := 0; i < numGoroutines; i++ {
			go func(id int) {
				defer wg.Done()

				filename := fmt.Sprintf("concurrent_%d.txt", id)
				content := fmt.Sprintf("Content for file %d", id)

				err := manager.WriteFile(filename, []byte(content))
				assert.NoError(t, err)
			}(i)
		}

		wg.Wait()

		// Verify all files exist
		for i := 0; i < numGoroutines; i++ {
			filename := fmt.Sprintf("concurrent_%d.txt", i)
			assert.True(t, manager.FileExists(filename))
		}
	})

	t.Run("concurrent file reading", func(t *testing.T) {
		sharedFile := "shared_file.txt"
		sharedContent := "Shared content for concurrent reading"
		err := manager.WriteFile(sharedFile, []byte(sharedContent))
		require.NoError(t, err)

		wg.Add(numGoroutines)

		for i := 0; i < numGoroutines; i++ {
			go func(id int) {
				defer wg.Done()

				data, err := manager.ReadFile(sharedFile)
				assert.NoError(t, err)
				assert.Equal(t, sharedContent, string(data))
			}(i)
		}

		wg.Wait()
	})
}

func TestManagerErrorHandling(t *testing.T) {
	tmpDir := t.TempDir()
	paths := testPaths(tmpDir)
	require.NoError(t, paths.EnsureDirectories())
	manager := NewManager(paths)

	t.Run("read non-existent file", func(t *testing.T) {
		_, err := manager.ReadFile("non_existent.txt")
		assert.Error(t, err)
	})

	t.Run("get size of non-existent file", func(t *testing.T) {
		_, err := manager.GetFileSize("non_existent.txt")
		assert.Error(t, err)
	})
}

// Disable slog output during tests to reduce noise
func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
}
