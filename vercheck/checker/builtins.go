package checker

import (
	"regexp"
	"strings"

	"github.com/anchore/vercheck/vercheck/extract"
)

// docker reports "<client>|<server>"; the server half is empty when the daemon is unreachable.
var dockerVersions = extract.Func(func(output string) extract.Extraction {
	client, server, _ := strings.Cut(firstLine(strings.TrimSpace(output)), "|")
	client = strings.TrimSpace(client)
	server = strings.TrimSpace(server)

	e := extract.Extraction{Version: client}
	for name, v := range map[string]string{"client": client, "server": server} {
		if v == "" {
			continue
		}
		if e.Components == nil {
			e.Components = make(map[string]string)
		}
		e.Components[name] = v
	}
	return e
})

var goRelease = regexp.MustCompile(`go(\d+)\.(\d+)(?:\.(\d+))?(?:(rc|beta)(\d+))?`)

// go names prereleases "go1.22rc1"; they are reported as "1.22.0-rc.1" so they order before the release.
var goVersions = extract.Func(func(output string) extract.Extraction {
	m := goRelease.FindStringSubmatch(output)
	if m == nil {
		return extract.Extraction{}
	}

	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v := m[1] + "." + m[2] + "." + patch
	if m[4] != "" {
		v += "-" + m[4] + "." + m[5]
	}
	return extract.Extraction{Version: v}
})

func builtins() []Checker {
	return []Checker{
		// javascript
		{Name: "node"},
		{Name: "npm"},
		{Name: "npx"},
		{Name: "yarn"},
		{Name: "pnpm"},
		{Name: "bun"},
		{Name: "deno", Rule: extract.MustCompile(`deno (?P<version>\d+\.\d+\.\d+\S*)`)},

		// go
		{Name: "go", Args: []string{"version"}, Rule: goVersions},

		// python
		{Name: "python"},
		{Name: "python3"},
		{Name: "pip", Rule: extract.MustCompile(`pip (?P<version>\d+(?:\.\d+){1,2})`)},

		// ruby
		{Name: "ruby", Rule: extract.MustCompile(`ruby (?P<version>\d+\.\d+\.\d+)`)},
		{Name: "gem"},
		{Name: "bundle", Rule: extract.MustCompile(`(?P<version>\d+\.\d+\.\d+)`)},

		// jvm: older releases print the version on stderr only
		{Name: "java", Args: []string{"-version"}, Rule: extract.MustCompile(`version "(?P<version>\d+(?:\.\d+){0,2})`)},

		// rust
		{Name: "rustc"},
		{Name: "cargo"},

		// containers and infrastructure
		{Name: "docker", Args: []string{"version", "--format", "{{.Client.Version}}|{{.Server.Version}}"}, Rule: dockerVersions},
		{Name: "docker-compose"},
		{Name: "kubectl", Args: []string{"version", "--client"}, Rule: extract.MustCompile(`Client Version: v?(?P<version>\S+)`)},
		{Name: "helm", Args: []string{"version", "--short"}, Rule: extract.MustCompile(`v(?P<version>\d+\.\d+\.\d+)`)},
		{Name: "terraform", Args: []string{"version"}, Rule: extract.MustCompile(`Terraform v(?P<version>\d+\.\d+\.\d+\S*)`)},

		// native toolchains
		{Name: "make"},
		{Name: "cmake"},
		{Name: "gcc", Args: []string{"-dumpfullversion", "-dumpversion"}},
		{Name: "clang"},
		{Name: "git"},

		// other runtimes
		{Name: "dotnet"},
		{Name: "php", Rule: extract.MustCompile(`PHP (?P<version>\d+\.\d+\.\d+)`)},
		{Name: "composer", Rule: extract.MustCompile(`Composer (?:version )?(?P<version>\d+\.\d+\.\d+)`)},
	}
}

func firstLine(s string) string {
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}
