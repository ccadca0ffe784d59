package share

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const FileTypeENV = ".env"   // e.g. toolenv.env
const FileTypeSH = ".sh"     // e.g. toolenv.sh
const FileTypeJSON = ".json" // e.g. toolenv.json
const FileTypeYAML = ".yaml" // e.g. toolenv.yaml
const FileTypeYML = ".yml"

// ConfigBaseName is the file name, less the extension, of config files
const ConfigBaseName = "toolenv"

func LoadPrecedence() []string {
	return []string{
		FileTypeENV,
		FileTypeSH,
		FileTypeJSON,
		FileTypeYAML,
	}
}

// GetConfigFilePaths returns paths config files might be loaded from,
// in order of precedence
func GetConfigFilePaths(dir string) (paths []string) {
	paths = make([]string, 0, len(LoadPrecedence()))
	for _, fileType := range LoadPrecedence() {
		paths = append(paths, filepath.Join(
			dir, fmt.Sprintf("%s%s", ConfigBaseName, fileType)))
	}
	return paths
}

// FindConfigFile returns the first config file in dir that exists.
// Found is false if there is no config file in dir
func FindConfigFile(dir string) (configPath string, found bool, err error) {
	for _, p := range GetConfigFilePaths(dir) {
		_, err := os.Stat(p)
		if err == nil {
			return p, true, nil
		}
		if !os.IsNotExist(err) {
			return p, false, errors.WithStack(err)
		}
	}
	return "", false, nil
}

// UnmarshalENV .env file bytes to key value map.
// Lines not matching KEY=VALUE are ignored
func UnmarshalENV(b []byte) (m map[string]string, err error) {
	m = make(map[string]string)

	// Using multi-line mode regex
	// https://stackoverflow.com/a/62996933/639133
	// Blanks are [ \t] so a match never spans more than one line
	expr := "(?m)^[ \\t]*(?:export[ \\t]+)?([_a-zA-Z0-9]+)[ \\t]*=[ \\t]*(.*?)[ \\t]*\\r?$"
	r, _ := regexp.Compile(expr)
	matches := r.FindAllStringSubmatch(string(b), -1)

	for _, match := range matches {
		if len(match) != 3 {
			return m, errors.Errorf("regexp error %s", match[0])
		}
		key := match[1]
		value := match[2]

		// Remove surrounding quotes, quotes inside the value are kept
		if len(value) >= 2 {
			if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
				(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
				value = value[1 : len(value)-1]
			}
		}

		m[key] = value
	}

	return m, nil
}

// MarshalENV key value map to .env file bytes, keys are sorted
func MarshalENV(m map[string]string) (b []byte, err error) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buf := bytes.NewBufferString("")
	for _, key := range keys {
		_, err = buf.WriteString(fmt.Sprintf("%s=%s\n", key, m[key]))
		if err != nil {
			return b, errors.WithStack(err)
		}
	}
	return buf.Bytes(), nil
}

func UnmarshalConfig(configPath string, b []byte) (
	configMap map[string]string, err error) {

	// The config file must have a flat key value structure
	fileType := filepath.Ext(configPath)
	switch fileType {
	case FileTypeENV, FileTypeSH:
		configMap, err = UnmarshalENV(b)
	case FileTypeJSON:
		err = json.Unmarshal(b, &configMap)
	case FileTypeYAML, FileTypeYML:
		err = yaml.Unmarshal(b, &configMap)
	default:
		return configMap, errors.Wrapf(ErrFileType, "%s", configPath)
	}
	if err != nil {
		return configMap, errors.WithStack(err)
	}
	if configMap == nil {
		configMap = make(map[string]string)
	}

	return configMap, nil
}

// LoadConfigFile reads and unmarshals a flat key value config file
func LoadConfigFile(configPath string) (configMap map[string]string, err error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return configMap, errors.WithStack(err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return configMap, errors.Errorf("empty file %s", filepath.Base(configPath))
	}
	return UnmarshalConfig(configPath, b)
}
