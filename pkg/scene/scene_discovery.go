package scene

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-reflective-raytracer/pkg/loaders"
)

const (
	builtInGroup   = "Built-in Scenes"
	sceneFileGroup = "Scene Files"
)

// ErrSceneNotFound is returned when no scene file matches a name
var ErrSceneNotFound = errors.New("scene not found")

// DefaultScenesDirs are searched, in order, by ResolveScenesDir
var DefaultScenesDirs = []string{"scenes", "../scenes"}

// Scene files are looked up with these extensions, in order of preference
var sceneFileExtensions = []string{".yaml", ".yml"}

// SceneInfo describes a scene as listed by /api/scenes
type SceneInfo struct {
	ID          string `json:"id"` // Preset name or "yaml:<file name without extension>"
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
	Type        string `json:"type"`     // "builtin" or "yaml"
	FilePath    string `json:"filePath"` // yaml only
	Objects     int    `json:"objects"`
	Lights      int    `json:"lights"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// ResolveScenesDir returns the first existing directory among candidates,
// or among DefaultScenesDirs when none are given. It returns "" if there is
// no such directory.
func ResolveScenesDir(candidates ...string) string {
	if len(candidates) == 0 {
		candidates = DefaultScenesDirs
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// SceneFilePath returns the file in dir holding the scene called name.
// Names may not contain path separators.
func SceneFilePath(dir, name string) (string, error) {
	if dir == "" || name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}
	for _, ext := range sceneFileExtensions {
		path := filepath.Join(dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSceneNotFound, name)
}

// DescribeSceneFile loads a scene file and summarises it. Files that do not
// parse or do not build into a valid scene are rejected.
func DescribeSceneFile(path string) (SceneInfo, error) {
	file, err := loaders.LoadSceneFile(path)
	if err != nil {
		return SceneInfo{}, err
	}
	s, err := FromSceneFile(file)
	if err != nil {
		return SceneInfo{}, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	info := describe("yaml:"+base, s)
	info.Type = "yaml"
	info.FilePath = path
	info.Name = file.Name
	if info.Name == "" {
		info.Name = titleCase(base)
	}
	info.Description = file.Description
	info.Group = file.Group
	if info.Group == "" {
		info.Group = sceneFileGroup
	}
	return info, nil
}

// ListSceneFiles describes every loadable scene file in dir, sorted by name.
// When a name exists with several extensions only the preferred file is
// listed, matching SceneFilePath. An empty dir yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	scenes := []SceneInfo{}
	if dir == "" {
		return scenes, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	seen := make(map[string]bool)
	for _, ext := range sceneFileExtensions {
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
				continue
			}
			base := strings.TrimSuffix(entry.Name(), ext)
			if seen[base] {
				continue
			}
			seen[base] = true

			info, err := DescribeSceneFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				log.Printf("Warning: skipping scene file %s: %v", entry.Name(), err)
				continue
			}
			scenes = append(scenes, info)
		}
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ListAllScenes returns the built-in scenes followed by the scene files in
// scenesDir, grouped by category
func ListAllScenes(scenesDir string) (ScenesResponse, error) {
	var scenes []SceneInfo
	for _, name := range PresetNames() {
		s, err := NewPreset(name)
		if err != nil {
			return ScenesResponse{}, fmt.Errorf("built-in scene %s: %w", name, err)
		}
		info := describe(name, s)
		info.Type = "builtin"
		info.Name = presets[name].displayName
		info.Description = presets[name].description
		info.Group = builtInGroup
		scenes = append(scenes, info)
	}

	files, err := ListSceneFiles(scenesDir)
	if err != nil {
		return ScenesResponse{}, err
	}
	scenes = append(scenes, files...)

	return ScenesResponse{Groups: groupScenes(scenes)}, nil
}

func describe(id string, s *Scene) SceneInfo {
	config := s.Camera.Config()
	return SceneInfo{
		ID:      id,
		Objects: len(s.Objects),
		Lights:  len(s.Lights),
		Width:   config.Width,
		Height:  config.Height,
	}
}

// groupScenes keeps scene order within a group; built-in scenes come first,
// other groups follow by name
func groupScenes(scenes []SceneInfo) []SceneGroup {
	var groups []SceneGroup
	index := make(map[string]int)
	for _, info := range scenes {
		i, ok := index[info.Group]
		if !ok {
			i = len(groups)
			index[info.Group] = i
			groups = append(groups, SceneGroup{Name: info.Group})
		}
		groups[i].Scenes = append(groups[i].Scenes, info)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		aBuiltIn, bBuiltIn := groups[a].Name == builtInGroup, groups[b].Name == builtInGroup
		if aBuiltIn != bBuiltIn {
			return aBuiltIn
		}
		return groups[a].Name < groups[b].Name
	})
	return groups
}

// titleCase turns a file name like "hall-of-mirrors" into "Hall Of Mirrors"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
