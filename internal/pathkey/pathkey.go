// Package pathkey turns file paths into the canonical identity used to compare project entries.
package pathkey

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/n2code/vsprojm/internal/fault"
)

// Key is a slash-separated path relative to the project directory whose extension is lower-cased.
// Two entries describe the same file iff their keys are equal.
type Key string

// Normalize converts a relative path with either separator style into its key.
func Normalize(raw string) (Key, error) {
	cleaned, err := Clean(raw)
	if err != nil {
		return "", err
	}
	return fold(cleaned), nil
}

// MustNormalize is Normalize for literals known to be valid.
func MustNormalize(raw string) Key {
	key, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return key
}

// Clean yields the slash-separated relative form of raw with its letter case untouched.
func Clean(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty path", fault.ErrInvalidPath)
	}
	slashed := strings.ReplaceAll(raw, `\`, "/")
	if strings.HasPrefix(slashed, "/") || hasDriveLetter(slashed) {
		return "", fmt.Errorf("%w: %s is not relative to the project", fault.ErrInvalidPath, raw)
	}
	cleaned := path.Clean(slashed)
	switch {
	case cleaned == ".":
		return "", fmt.Errorf("%w: %s names the project directory itself", fault.ErrInvalidPath, raw)
	case cleaned == ".." || strings.HasPrefix(cleaned, "../"):
		return "", fmt.Errorf("%w: %s escapes the project directory", fault.ErrInvalidPath, raw)
	}
	return cleaned, nil
}

// Relative expresses target (absolute, or relative to the working directory) relative to root.
// The result is cleaned but not folded so it can be stored as include text.
func Relative(root string, target string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s", fault.ErrInvalidPath, err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("%w: %s", fault.ErrInvalidPath, err)
	}
	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not below %s", fault.ErrInvalidPath, target, root)
	}
	return Clean(filepath.ToSlash(rel))
}

// Include converts a cleaned slash path into the backslash form MSBuild files store.
func Include(cleaned string) string {
	return strings.ReplaceAll(cleaned, "/", `\`)
}

// NormalizeExtension accepts "c", ".C" or "*.c" and yields "c".
func NormalizeExtension(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), "*")
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MatchExtension compares the key's extension case-insensitively.
func MatchExtension(key Key, ext string) bool {
	normalized := NormalizeExtension(ext)
	return normalized != "" && key.Ext() == normalized
}

func (k Key) String() string {
	return string(k)
}

// Ext is lower-case and without the leading dot, empty if there is none.
func (k Key) Ext() string {
	return strings.TrimPrefix(path.Ext(string(k)), ".")
}

// Dir is the slash-separated containing directory, empty for files in the project directory.
func (k Key) Dir() string {
	dir := path.Dir(string(k))
	if dir == "." {
		return ""
	}
	return dir
}

func (k Key) Base() string {
	return path.Base(string(k))
}

// DirSegments lists the folder names leading to the file.
func (k Key) DirSegments() []string {
	dir := k.Dir()
	if dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

// Within reports whether the file lies anywhere below the given directory.
// The directory is compared with the same folding rules as keys except for the extension.
func (k Key) Within(dir string) bool {
	cleaned, err := Clean(dir)
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(k), cleaned+"/")
}

func fold(cleaned string) Key {
	ext := path.Ext(cleaned)
	if ext == "" || ext == cleaned || strings.HasSuffix(cleaned, "/"+ext) {
		return Key(cleaned) //dot files have no extension to fold
	}
	return Key(cleaned[:len(cleaned)-len(ext)] + strings.ToLower(ext))
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	letter := p[0] | 0x20
	return letter >= 'a' && letter <= 'z'
}
