// --- START OF FINAL REVISED FILE internal/testutil/mocks.go ---
// Package testutil provides mock implementations for interfaces defined in the
// keymap-converter core library (pkg/converter and subpackages), plus builders
// for Oryx-style keymap sources. These mocks facilitate unit testing by
// isolating components.
package testutil

import (
	"context"
	"io"
	"text/template"
	"time"

	"github.com/stackvity/keymap-converter/pkg/converter"
	"github.com/stackvity/keymap-converter/pkg/converter/cache"
	tpl "github.com/stackvity/keymap-converter/pkg/converter/template" // Alias to avoid collision
	"github.com/stackvity/keymap-converter/pkg/converter/toolchain"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager provides a mock implementation of the cache.CacheManager interface.
// Configure expectations using testify/mock methods (e.g., .On("Check", ...).Return(...)).
type MockCacheManager struct {
	mock.Mock
}

// Load mocks the Load method.
func (m *MockCacheManager) Load(cachePath string) error {
	args := m.Called(cachePath)
	return args.Error(0)
}

// Check mocks the Check method.
func (m *MockCacheManager) Check(archiveName string, archiveHash string, settings cache.RunSettings) (isHit bool, entry cache.CacheEntry) {
	args := m.Called(archiveName, archiveHash, settings)
	isHit, _ = args.Get(0).(bool) // Use zero value if assertion fails (implies test setup issue)
	entry, _ = args.Get(1).(cache.CacheEntry)
	return
}

// Update mocks the Update method.
func (m *MockCacheManager) Update(archiveName string, entry cache.CacheEntry) error {
	args := m.Called(archiveName, entry)
	return args.Error(0)
}

// Persist mocks the Persist method.
func (m *MockCacheManager) Persist(cachePath string) error {
	args := m.Called(cachePath)
	return args.Error(0)
}

// MockLanguageDetector provides a mock implementation of the language.LanguageDetector interface.
type MockLanguageDetector struct {
	mock.Mock
}

// Detect mocks the Detect method.
func (m *MockLanguageDetector) Detect(content []byte, filePath string) (lang string, confidence float64, err error) {
	args := m.Called(content, filePath)
	lang, _ = args.Get(0).(string)
	confidence, _ = args.Get(1).(float64)
	err = args.Error(2)
	return
}

// MockEncodingHandler provides a mock implementation of the encoding.EncodingHandler interface.
type MockEncodingHandler struct {
	mock.Mock
}

// DetectAndDecode mocks the DetectAndDecode method.
func (m *MockEncodingHandler) DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error) {
	args := m.Called(content)
	utf8Content, _ = args.Get(0).([]byte)
	detectedEncoding, _ = args.Get(1).(string)
	certainty, _ = args.Get(2).(bool)
	err = args.Error(3)
	return
}

// IsBinary mocks the IsBinary method.
func (m *MockEncodingHandler) IsBinary(content []byte) bool {
	args := m.Called(content)
	isBinary, _ := args.Get(0).(bool)
	return isBinary
}

// MockGitClient provides a mock implementation of the git.GitClient interface.
type MockGitClient struct {
	mock.Mock
}

// ChangedFiles mocks the ChangedFiles method.
func (m *MockGitClient) ChangedFiles(ctx context.Context, repoPath, pathspec string) (files []string, err error) {
	args := m.Called(ctx, repoPath, pathspec)
	files, _ = args.Get(0).([]string)
	err = args.Error(1)
	return
}

// Commit mocks the Commit method.
func (m *MockGitClient) Commit(ctx context.Context, repoPath, pathspec, message string) (hash string, err error) {
	args := m.Called(ctx, repoPath, pathspec, message)
	hash, _ = args.Get(0).(string)
	err = args.Error(1)
	return
}

// MockCommandRunner provides a mock implementation of the toolchain.CommandRunner interface.
type MockCommandRunner struct {
	mock.Mock
}

// Run mocks the Run method.
func (m *MockCommandRunner) Run(ctx context.Context, cfg toolchain.CommandConfig) (result toolchain.Result, err error) {
	args := m.Called(ctx, cfg)
	result, _ = args.Get(0).(toolchain.Result)
	err = args.Error(1)
	return
}

// MockTemplateExecutor provides a mock implementation of the template.TemplateExecutor interface.
type MockTemplateExecutor struct {
	mock.Mock
}

// Execute mocks the Execute method.
func (m *MockTemplateExecutor) Execute(writer io.Writer, template *template.Template, data *tpl.CatalogData) error {
	args := m.Called(writer, template, data)
	return args.Error(0)
}

// MockHooks provides a mock implementation of the converter.Hooks interface.
// Configure expectations using testify/mock methods (e.g., .On("OnStepStatusUpdate", ...).Return(...)).
type MockHooks struct {
	mock.Mock
}

// OnStepDiscovered mocks the OnStepDiscovered method.
func (m *MockHooks) OnStepDiscovered(step converter.Step) error {
	args := m.Called(step)
	return args.Error(0)
}

// OnStepStatusUpdate mocks the OnStepStatusUpdate method.
func (m *MockHooks) OnStepStatusUpdate(step converter.Step, status converter.Status, message string, duration time.Duration) error {
	args := m.Called(step, status, message, duration)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report converter.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// --- END OF FINAL REVISED FILE internal/testutil/mocks.go ---
