package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Environment overrides read by Load, in template order.
const (
	EnvSite      = "ZSEARCH_SITE"
	EnvIndexPath = "ZSEARCH_INDEX_PATH"
)

// EnvPrefix marks keys owned by zsearch.
const EnvPrefix = "ZSEARCH_"

var envKeys = []struct {
	key  string
	help string
}{
	{EnvSite, "site root: http(s) URL or local build directory"},
	{EnvIndexPath, "search index path relative to the site"},
}

// DotEnvPath returns the absolute path to ~/.zsearch/.env.
func DotEnvPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadDotEnv reads ~/.zsearch/.env. A missing file yields an empty map.
//
// Lines are KEY=VALUE; blank lines and # comments are skipped, an
// optional "export " prefix is dropped and one pair of matching quotes
// around VALUE is removed. Unknown ZSEARCH_ keys are kept but logged, since
// they are almost always typos.
func LoadDotEnv() (map[string]string, error) {
	p, err := DotEnvPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot open dotenv file %s: %w", p, err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		k, v, ok := parseDotEnvLine(scanner.Text())
		if ok {
			out[k] = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read dotenv file %s: %w", p, err)
	}
	if unknown := UnknownEnvKeys(out); len(unknown) > 0 {
		slog.Warn("unknown keys in dotenv file", "path", p, "keys", unknown)
	}
	return out, nil
}

func parseDotEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	k, v, found := strings.Cut(line, "=")
	k = strings.TrimSpace(k)
	if !found || k == "" {
		return "", "", false
	}
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return k, v, true
}

// UnknownEnvKeys returns, sorted, the ZSEARCH_ keys of m that Load does
// not read. Keys without the prefix are ignored.
func UnknownEnvKeys(m map[string]string) []string {
	var out []string
	for k := range m {
		if !strings.HasPrefix(k, EnvPrefix) || knownEnvKey(k) {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func knownEnvKey(k string) bool {
	for _, e := range envKeys {
		if e.key == k {
			return true
		}
	}
	return false
}

// GetConfigValue returns the value for key from the process environment,
// falling back to ~/.zsearch/.env.
func GetConfigValue(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	dotenv, err := LoadDotEnv()
	if err != nil {
		return "", err
	}
	return dotenv[key], nil
}

// EnsureDotEnvTemplate creates ~/.zsearch/.env listing every override key
// with an empty value. An existing file is left alone.
func EnsureDotEnvTemplate() error {
	p, err := DotEnvPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat dotenv file %s: %w", p, err)
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# zsearch overrides; process environment wins over this file.\n")
	for _, e := range envKeys {
		fmt.Fprintf(&b, "\n# %s\n%s=\n", e.help, e.key)
	}

	if err := os.WriteFile(p, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("cannot write dotenv template %s: %w", p, err)
	}
	return nil
}
