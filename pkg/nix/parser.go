// pkg/nix/parser.go
package nix

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// parseNARInfo parses the key:value lines of a .narinfo file
func parseNARInfo(content string) (*NARInfo, error) {
	info := &NARInfo{}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "StorePath":
			info.StorePath = value
		case "URL":
			info.URL = value
		case "Compression":
			info.Compression = value
		case "FileHash":
			info.FileHash = strings.TrimPrefix(value, "sha256:")
		case "FileSize":
			info.FileSize, _ = strconv.ParseInt(value, 10, 64)
		case "NarHash":
			info.NarHash = strings.TrimPrefix(value, "sha256:")
		case "NarSize":
			info.NarSize, _ = strconv.ParseInt(value, 10, 64)
		case "References":
			if value != "" {
				info.References = strings.Fields(value)
			}
		case "Deriver":
			info.Deriver = value
		case "Sig":
			info.Signature = value
		}
	}

	if info.StorePath == "" {
		return nil, fmt.Errorf("missing StorePath in narinfo")
	}
	if info.URL == "" {
		return nil, fmt.Errorf("missing URL in narinfo")
	}
	if info.Compression == "" {
		info.Compression = CompressionNone
	}

	return info, nil
}

// parseStorePath splits "/nix/store/<hash>-<name>-<version>[-<output>]" into
// hash and name-version, stripping the output suffix when present.
func parseStorePath(path, output string) (hash, nameVersion string, err error) {
	base := strings.TrimPrefix(path, "/nix/store/")
	hash, rest, ok := strings.Cut(base, "-")
	if !ok || hash == "" || rest == "" {
		return "", "", fmt.Errorf("malformed store path: %s", path)
	}

	// "out" is usually not appended to the path
	if output != "" && output != "out" {
		rest = strings.TrimSuffix(rest, "-"+output)
	}

	return hash, rest, nil
}
