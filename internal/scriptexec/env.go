// SPDX-License-Identifier: MPL-2.0

package scriptexec

import (
	"log/slog"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/runlifecycle/runlifecycle/internal/config"
	"github.com/runlifecycle/runlifecycle/internal/lifecycle"
	"github.com/runlifecycle/runlifecycle/pkg/manifest"

	"github.com/spf13/cast"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	configEnvPrefix  = "npm_config_"
	packageEnvPrefix = "npm_package_"
	binDirName       = ".bin"
	modulesDirName   = "node_modules"
)

type envInput struct {
	pkg      *manifest.Package
	stage    string
	script   string
	dir      string
	opts     lifecycle.ExecOptions
	nodePath string
}

// buildEnv layers the lifecycle variables over base and returns the result as
// sorted KEY=VALUE pairs.
func buildEnv(base []string, in envInput) []string {
	env := make(map[string]string, len(base)+len(in.opts.Config)+8)
	for _, kv := range base {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}

	for key, val := range in.opts.Config {
		if config.IsAlias(key) || strings.HasPrefix(key, "_") {
			continue
		}
		s, ok := envValue(val)
		if !ok {
			continue
		}
		env[configEnvPrefix+envName(key)] = s
	}

	env["npm_lifecycle_event"] = in.stage
	env["npm_lifecycle_script"] = in.script
	env[packageEnvPrefix+"name"] = in.pkg.Name
	env[packageEnvPrefix+"version"] = in.pkg.Version
	for stage, script := range in.pkg.Scripts {
		env[packageEnvPrefix+"scripts_"+envName(stage)] = script
	}
	if in.opts.NodeOptions != "" {
		env["NODE_OPTIONS"] = in.opts.NodeOptions
	}

	pathKey := pathKeyOf(env)
	dirs := binDirs(in.dir)
	if nodeDir, ok := nodeBinDir(in.opts.ScriptsPrependNodePath, in.nodePath, env[pathKey]); ok {
		dirs = append(dirs, nodeDir)
	}
	if current := env[pathKey]; current != "" {
		dirs = append(dirs, current)
	}
	env[pathKey] = strings.Join(dirs, string(os.PathListSeparator))

	keys := maps.Keys(env)
	slices.Sort(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// envValue renders scalars and lists; maps and other composite values are not
// exported.
func envValue(val any) (string, bool) {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, "\n\n"), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, err := cast.ToStringE(item)
			if err != nil {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "\n\n"), true
	case map[string]any:
		return "", false
	}
	s, err := cast.ToStringE(val)
	if err != nil {
		return "", false
	}
	return s, true
}

// envName replaces every character that is not valid in a variable name.
func envName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}

// binDirs returns node_modules/.bin for dir and every ancestor, nearest first.
func binDirs(dir string) []string {
	var dirs []string
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		if filepath.Base(d) != modulesDirName {
			dirs = append(dirs, filepath.Join(d, modulesDirName, binDirName))
		}
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	return dirs
}

// pathKeyOf returns the name PATH is stored under; Windows spells it "Path".
func pathKeyOf(env map[string]string) string {
	if goruntime.GOOS == "windows" {
		for k := range env {
			if strings.EqualFold(k, "PATH") {
				return k
			}
		}
	}
	return "PATH"
}

// nodeBinDir decides whether the directory of nodePath goes on PATH.
func nodeBinDir(mode lifecycle.NodePathMode, nodePath, pathValue string) (string, bool) {
	if nodePath == "" {
		return "", false
	}
	nodeDir := filepath.Dir(nodePath)

	switch mode {
	case lifecycle.NodePathAlways:
		return nodeDir, true
	case lifecycle.NodePathAuto, lifecycle.NodePathWarnOnly:
		found := findInPath(filepath.Base(nodePath), pathValue)
		if found != "" && sameFile(found, nodePath) {
			return "", false
		}
		if mode == lifecycle.NodePathAuto {
			return nodeDir, true
		}
		slog.Warn("the node binary on PATH differs from the one in use",
			"path", found, "using", nodePath,
			"hint", "set scripts-prepend-node-path to auto or true")
		return "", false
	default:
		return "", false
	}
}

func findInPath(name, pathValue string) string {
	for _, dir := range filepath.SplitList(pathValue) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if goruntime.GOOS != "windows" && info.Mode()&0o111 == 0 {
			continue
		}
		return candidate
	}
	return ""
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
