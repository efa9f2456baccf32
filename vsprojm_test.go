package vsprojm

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/n2code/vsprojm/internal/filters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleProject = strings.TrimPrefix(dedent.Dedent(`
	<?xml version="1.0" encoding="utf-8"?>
	<Project DefaultTargets="Build" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
	  <ItemDefinitionGroup Condition="'$(Configuration)|$(Platform)'=='Debug|x64'">
	    <ClCompile>
	      <WarningLevel>Level3</WarningLevel>
	    </ClCompile>
	  </ItemDefinitionGroup>
	  <ItemGroup>
	    <ClCompile Include="main.c" />
	  </ItemGroup>
	</Project>
	`), "\n")

type testbed struct {
	dir      string
	project  string
	terminal *bytes.Buffer
}

func newTestbed(t *testing.T, sources ...string) testbed {
	t.Helper()
	bed := testbed{dir: t.TempDir(), terminal: &bytes.Buffer{}}
	bed.project = filepath.Join(bed.dir, "demo.vcxproj")
	require.NoError(t, os.WriteFile(bed.project, []byte(sampleProject), 0644))
	for _, source := range append([]string{"main.c"}, sources...) {
		absolute := filepath.Join(bed.dir, filepath.FromSlash(source))
		require.NoError(t, os.MkdirAll(filepath.Dir(absolute), 0755))
		require.NoError(t, os.WriteFile(absolute, nil, 0644))
	}
	return bed
}

func (bed testbed) open(t *testing.T, config CreateConfig) Vsprojm {
	t.Helper()
	config.Output = bed.terminal
	config.identifiers = filters.SequentialIdentifiers()
	api, err := Open(bed.project, config)
	require.NoError(t, err)
	t.Cleanup(func() { api.Close() })
	return api
}

func (bed testbed) read(t *testing.T, suffix string) string {
	t.Helper()
	data, err := os.ReadFile(bed.project + suffix)
	require.NoError(t, err)
	return string(data)
}

// scripted answers the questions in order and records them.
func scripted(questions *[]string, answers ...string) RequestChoice {
	return func(request string, options []string, cleanup bool) string {
		*questions = append(*questions, request)
		if len(answers) == 0 {
			return ChoiceAborted
		}
		answer := answers[0]
		answers = answers[1:]
		return answer
	}
}

func TestAddFilesAndPersist(t *testing.T) {
	bed := newTestbed(t, "src/net/http.c", "src/net/tcp.C", "src/ui.cpp", "x64/Debug/gen.c", "tests/unit.c")
	api := bed.open(t, CreateConfig{})

	report, err := api.AddFiles(ScanRequest{Extension: "c", Recursive: true, Pattern: regexp.MustCompile(`^tests/`), Negate: true})
	require.NoError(t, err)
	assert.Equal(t, []string{`src\net\http.c`, `src\net\tcp.C`}, report.Added)
	assert.Equal(t, 1, report.AlreadyTracked)
	assert.Equal(t, []string{`src`, `src\net`}, report.CreatedFilters)
	assert.Contains(t, bed.terminal.String(), "2 files added, 1 file already in project, 2 filters created.")

	require.NoError(t, api.PersistChanges())
	assert.Contains(t, bed.read(t, ""), `<ClCompile Include="src\net\tcp.C" />`)
	filterFile := bed.read(t, ".filters")
	assert.Contains(t, filterFile, `<Filter Include="src\net">`)
	assert.Contains(t, filterFile, "<Filter>src\\net</Filter>")
	assert.NotContains(t, filterFile, DefaultFilterName, "main.c was already in the project")
}

func TestAddFilesSortsRootFilesIntoDefaultFilter(t *testing.T) {
	bed := newTestbed(t, "extra.c")
	api := bed.open(t, CreateConfig{DefaultFilter: "Sources"})
	_, err := api.AddFiles(ScanRequest{Extension: "c"})
	require.NoError(t, err)
	require.NoError(t, api.PersistChanges())
	assert.Contains(t, bed.read(t, ".filters"), "<Filter>Sources</Filter>")
}

func TestDryRunWritesNothing(t *testing.T) {
	bed := newTestbed(t, "lib/a.c")
	api := bed.open(t, CreateConfig{DryRun: true})
	_, err := api.AddFiles(ScanRequest{Extension: "c", Recursive: true})
	require.NoError(t, err)
	require.NoError(t, api.PersistChanges())
	assert.Equal(t, sampleProject, bed.read(t, ""))
	assert.NoFileExists(t, bed.project+".filters")
	assert.Contains(t, bed.terminal.String(), "Dry run, not writing")
}

func addedFixture(t *testing.T) (testbed, Vsprojm) {
	bed := newTestbed(t, "core/a.c", "core/io/b.c", "gfx/c.c")
	api := bed.open(t, CreateConfig{})
	_, err := api.AddFiles(ScanRequest{Extension: "c", Recursive: true})
	require.NoError(t, err)
	require.NoError(t, api.PersistChanges())
	return bed, api
}

func TestDeleteAfterConfirmation(t *testing.T) {
	bed, api := addedFixture(t)
	var questions []string
	report, err := api.Delete(DeleteRequest{Target: "core"}, scripted(&questions, "List", "Yes"))
	require.NoError(t, err)
	assert.Equal(t, []string{`core\a.c`, `core\io\b.c`}, report.RemovedFiles)
	assert.Equal(t, []string{`core`, `core\io`}, report.RemovedFilters)
	require.Len(t, questions, 2)
	assert.Contains(t, questions[0], "2 files, 2 filters")
	assert.Contains(t, bed.terminal.String(), "    core\\a.c\n    core\\io\\b.c\n    core\\\n    core\\io\\\n")

	require.NoError(t, api.PersistChanges())
	assert.NotContains(t, bed.read(t, ""), "core")
	assert.NotContains(t, bed.read(t, ".filters"), "core")
}

func TestDeleteDeclinedChangesNothing(t *testing.T) {
	for _, answer := range []string{"No", ChoiceAborted} {
		bed, api := addedFixture(t)
		before := bed.read(t, ".filters")
		var questions []string
		_, err := api.Delete(DeleteRequest{Extension: "C"}, scripted(&questions, answer))
		assert.ErrorIs(t, err, ErrCancelled)
		require.NoError(t, api.PersistChanges())
		assert.Equal(t, before, bed.read(t, ".filters"))
	}
}

func TestDeleteWithPattern(t *testing.T) {
	_, api := addedFixture(t)
	var questions []string
	report, err := api.Delete(DeleteRequest{Extension: "c", Pattern: regexp.MustCompile(`/`), Negate: true}, scripted(&questions, "Yes"))
	require.NoError(t, err)
	assert.Equal(t, []string{"main.c"}, report.RemovedFiles)
}

func TestDeleteNothingFoundAsksNothing(t *testing.T) {
	_, api := addedFixture(t)
	var questions []string
	_, err := api.Delete(DeleteRequest{Target: "nowhere"}, scripted(&questions, "Yes"))
	assert.ErrorIs(t, err, ErrNotFound)
	var commandErr *CommandError
	assert.ErrorAs(t, err, &commandErr)
	assert.Empty(t, questions)
}

func TestRename(t *testing.T) {
	bed, api := addedFixture(t)
	var questions []string

	merged, err := api.Rename("gfx", "graphics", scripted(&questions))
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Empty(t, questions, "plain renames need no confirmation")

	_, err = api.Rename("core", "graphics", scripted(&questions, "Keep apart"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = api.Rename("core", "graphics", scripted(&questions))
	assert.ErrorIs(t, err, ErrCancelled)

	merged, err = api.Rename("core", "graphics", scripted(&questions, "Merge"))
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Len(t, questions, 3)

	require.NoError(t, api.PersistChanges())
	filterFile := bed.read(t, ".filters")
	assert.Contains(t, filterFile, "<Filter>graphics\\io</Filter>")
	assert.NotContains(t, filterFile, "<Filter>core")

	_, err = api.Rename("missing", "x", scripted(&questions))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrintTree(t *testing.T) {
	bed, api := addedFixture(t)
	bed.terminal.Reset()
	require.NoError(t, api.PrintTree(false, AllLevels))
	assert.Equal(t, strings.Join([]string{
		"demo.vcxproj",
		"├── core/",
		"│   ├── io/",
		"│   │   └── b.c",
		"│   └── a.c",
		"├── gfx/",
		"│   └── c.c",
		"└── main.c",
		"",
		"4 files in 3 filters",
		"",
	}, "\n"), bed.terminal.String())

	assert.ErrorIs(t, api.PrintTree(false, -2), ErrInvalidPath)
}

func TestSettings(t *testing.T) {
	bed := newTestbed(t)
	api := bed.open(t, CreateConfig{Verbosity: QuietMode})

	changed, err := api.AddIncludeDirectory(`third_party\include`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Debug|x64"}, changed)
	changed, err = api.AddIncludeDirectory(`third_party\include`)
	require.NoError(t, err)
	assert.Empty(t, changed)

	_, err = api.AddLibraryDirectory("lib")
	require.NoError(t, err)
	_, err = api.AddLibrary("ws2_32.lib")
	require.NoError(t, err)
	_, err = api.AddLibrary("")
	assert.ErrorIs(t, err, ErrInvalidPath)

	require.NoError(t, api.PersistChanges())
	project := bed.read(t, "")
	assert.Contains(t, project, "<AdditionalIncludeDirectories>third_party\\include;%(AdditionalIncludeDirectories)</AdditionalIncludeDirectories>")
	assert.Contains(t, project, "<AdditionalLibraryDirectories>lib;%(AdditionalLibraryDirectories)</AdditionalLibraryDirectories>")
	assert.Contains(t, project, "<AdditionalDependencies>ws2_32.lib;%(AdditionalDependencies)</AdditionalDependencies>")
	assert.NoFileExists(t, bed.project+".filters")
	assert.Empty(t, bed.terminal.String())
}

func TestOpen(t *testing.T) {
	bed := newTestbed(t, "src/deep/x.c")

	api, err := Open(filepath.Join(bed.dir, "src", "deep"), CreateConfig{Output: &bytes.Buffer{}})
	require.NoError(t, err, "project found in parent directory")

	_, err = Open(bed.project, CreateConfig{Output: &bytes.Buffer{}})
	assert.ErrorIs(t, err, ErrProjectLocked)
	require.NoError(t, api.Close())

	_, err = Open(filepath.Join(bed.dir, "main.c"), CreateConfig{})
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = Open(t.TempDir(), CreateConfig{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(bed.dir, "other.vcxproj"), []byte(sampleProject), 0644))
	_, err = Open(bed.dir, CreateConfig{})
	assert.ErrorIs(t, err, ErrInvalidPath)
}
