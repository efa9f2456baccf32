package manifest

import (
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/n2code/vsprojm/internal/fault"
	"github.com/n2code/vsprojm/internal/pathkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(text string) string {
	return strings.TrimPrefix(dedent.Dedent(text), "\n")
}

var sampleProject = fixture(`
		<?xml version="1.0" encoding="utf-8"?>
		<Project DefaultTargets="Build" ToolsVersion="15.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
		  <ItemGroup Label="ProjectConfigurations">
		    <ProjectConfiguration Include="Debug|Win32">
		      <Configuration>Debug</Configuration>
		      <Platform>Win32</Platform>
		    </ProjectConfiguration>
		  </ItemGroup>
		  <ItemDefinitionGroup Condition="'$(Configuration)|$(Platform)'=='Debug|Win32'">
		    <ClCompile>
		      <WarningLevel>Level3</WarningLevel>
		      <AdditionalIncludeDirectories>include;%(AdditionalIncludeDirectories)</AdditionalIncludeDirectories>
		    </ClCompile>
		  </ItemDefinitionGroup>
		  <ItemDefinitionGroup Condition="'$(Configuration)|$(Platform)'=='Release|Win32'">
		    <ClCompile>
		      <WarningLevel>Level3</WarningLevel>
		    </ClCompile>
		  </ItemDefinitionGroup>
		  <ItemGroup>
		    <ClCompile Include="main.c" />
		    <ClCompile Include="src\Util.C">
		      <PrecompiledHeader>Create</PrecompiledHeader>
		    </ClCompile>
		  </ItemGroup>
		  <ItemGroup>
		    <ClInclude Include="src\util.h" />
		  </ItemGroup>
		  <Import Project="$(VCTargetsPath)\Microsoft.Cpp.targets" />
		</Project>
		`)

var bareProject = fixture(`
		<?xml version="1.0" encoding="utf-8"?>
		<Project DefaultTargets="Build" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
		  <PropertyGroup Label="Globals">
		    <ProjectGuid>{8C1A1F3E-1A7B-4C55-9E0D-5A0B4D1C2E3F}</ProjectGuid>
		  </PropertyGroup>
		</Project>
		`)

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse([]byte(text))
	require.NoError(t, err)
	return doc
}

func mustEntry(t *testing.T, relative string) Entry {
	t.Helper()
	e, err := NewEntry(relative)
	require.NoError(t, err)
	return e
}

func TestParseKeepsEverything(t *testing.T) {
	for _, text := range []string{sampleProject, strings.ReplaceAll(sampleProject, "\n", "\r\n"), "\xEF\xBB\xBF" + bareProject} {
		doc := mustParse(t, text)
		assert.Equal(t, text, string(doc.Serialize()))
	}
}

func TestEntries(t *testing.T) {
	doc := mustParse(t, sampleProject)
	entries := doc.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Key: "main.c", Include: "main.c"}, entries[0])
	assert.Equal(t, Entry{Key: "src/Util.c", Include: `src\Util.C`}, entries[1])
	assert.True(t, doc.Contains(pathkey.MustNormalize(`src/Util.c`)))
	assert.False(t, doc.Contains(pathkey.MustNormalize(`src/util.h`)), "headers are not compile entries")
	assert.Equal(t, 2, doc.Len())
}

func TestAddAfterLastEntry(t *testing.T) {
	doc := mustParse(t, sampleProject)
	added := doc.Add([]Entry{mustEntry(t, "src/new.c"), mustEntry(t, "main.c"), mustEntry(t, `src\new.c`)})
	require.Len(t, added, 1)
	assert.Equal(t, `src\new.c`, added[0].Include)
	assert.Contains(t, string(doc.Serialize()), "    </ClCompile>\n    <ClCompile Include=\"src\\new.c\" />\n  </ItemGroup>\n")
	assert.Equal(t, 3, doc.Len())
}

func TestAddIsIdempotent(t *testing.T) {
	doc := mustParse(t, sampleProject)
	assert.Empty(t, doc.Add([]Entry{mustEntry(t, "main.C")}))
	assert.Equal(t, sampleProject, string(doc.Serialize()))
}

func TestAddCreatesGroupAndRemoveRestores(t *testing.T) {
	doc := mustParse(t, bareProject)
	doc.Add([]Entry{mustEntry(t, "a.c"), mustEntry(t, "lib/b.c")})
	assert.Equal(t, fixture(`
		<?xml version="1.0" encoding="utf-8"?>
		<Project DefaultTargets="Build" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
		  <PropertyGroup Label="Globals">
		    <ProjectGuid>{8C1A1F3E-1A7B-4C55-9E0D-5A0B4D1C2E3F}</ProjectGuid>
		  </PropertyGroup>
		  <ItemGroup>
		    <ClCompile Include="a.c" />
		    <ClCompile Include="lib\b.c" />
		  </ItemGroup>
		</Project>
		`), string(doc.Serialize()))

	removed := doc.Remove(ByExtension("C"))
	assert.Len(t, removed, 2)
	assert.Equal(t, bareProject, string(doc.Serialize()))
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		match   func(Entry) bool
		removed []pathkey.Key
	}{
		{"by key", ByKey("main.c"), []pathkey.Key{"main.c"}},
		{"by folder", ByFolder(`src\`), []pathkey.Key{"src/Util.c"}},
		{"by extension", ByExtension(".c"), []pathkey.Key{"main.c", "src/Util.c"}},
		{"nothing", ByExtension("cpp"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, sampleProject)
			var keys []pathkey.Key
			for _, e := range doc.Remove(tt.match) {
				keys = append(keys, e.Key)
			}
			assert.Equal(t, tt.removed, keys)
			for _, key := range keys {
				assert.False(t, doc.Contains(key))
			}
		})
	}
}

func TestRemoveKeepsSharedGroup(t *testing.T) {
	doc := mustParse(t, sampleProject)
	doc.Remove(ByKey("main.c"))
	serialized := string(doc.Serialize())
	assert.NotContains(t, serialized, `Include="main.c"`)
	assert.Contains(t, serialized, `<ClCompile Include="src\Util.C">`)
	assert.Contains(t, serialized, `<ClInclude Include="src\util.h" />`)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"unterminated project": "<Project>\n  <ItemGroup>\n  </ItemGroup>\n",
		"missing include":      "<Project>\n  <ItemGroup>\n    <ClCompile />\n  </ItemGroup>\n</Project>\n",
		"unclosed entry":       "<Project>\n  <ItemGroup>\n    <ClCompile Include=\"a.c\">\n</Project>\n",
		"escaping include":     "<Project>\n  <ItemGroup>\n    <ClCompile Include=\"..\\a.c\" />\n  </ItemGroup>\n</Project>\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(text))
			assert.ErrorIs(t, err, fault.ErrParse)
		})
	}
}
