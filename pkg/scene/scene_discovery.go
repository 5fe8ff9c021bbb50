package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by -scene
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // Human-readable name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

const (
	builtinGroup     = "Built-in Scenes"
	defaultJSONGroup = "JSON Scenes"
)

// sceneMetadata is the part of a scene file read during discovery
type sceneMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

// ListBuiltinScenes returns metadata for every built-in scene
func ListBuiltinScenes() ([]SceneInfo, error) {
	var scenes []SceneInfo
	for _, name := range BuiltinNames() {
		s, err := NewBuiltin(name)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        name,
			DisplayName: titleCase(name),
			Description: s.Description,
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}
	return scenes, nil
}

// ListJSONScenes scans dir for .json scene files. A missing directory is
// not an error.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseJSONMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseJSONMetadata reads the name, description and group of a scene file
// without building it. Missing fields fall back to values derived from the
// file name.
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          filePath,
		Name:        nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Group:       defaultJSONGroup,
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to read scene file: %w", err)
	}
	var meta sceneMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return info, fmt.Errorf("%s: %w: %w", filePath, ErrInvalidScene, err)
	}

	if meta.Name != "" {
		info.Name = meta.Name
		info.DisplayName = meta.Name
	}
	info.Description = meta.Description
	if meta.Group != "" {
		info.Group = meta.Group
	}
	return info, nil
}

// ListAllScenes returns the built-in scenes and the JSON scenes in dir,
// grouped by category with the built-in group first
func ListAllScenes(dir string) ([]SceneGroup, error) {
	builtins, err := ListBuiltinScenes()
	if err != nil {
		return nil, fmt.Errorf("failed to list built-in scenes: %w", err)
	}
	jsonScenes, err := ListJSONScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list JSON scenes: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, s := range append(builtins, jsonScenes...) {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	var groupNames []string
	for name := range groupMap {
		if name != builtinGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: builtinGroup, Scenes: groupMap[builtinGroup]}}
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups, nil
}

// Open resolves a scene ID as listed by ListAllScenes: a built-in name, a
// path to a .json file, or the name of a JSON scene in dir
func Open(id, dir string) (*Scene, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: no scene given", ErrUnknownScene)
	}
	if strings.HasSuffix(id, ".json") {
		return LoadJSON(id)
	}
	if _, ok := builtins[id]; ok {
		return NewBuiltin(id)
	}
	if path := filepath.Join(dir, id+".json"); fileExists(path) {
		return LoadJSON(path)
	}
	return nil, fmt.Errorf("%w: %q (built-in scenes: %s)", ErrUnknownScene, id, strings.Join(BuiltinNames(), ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// titleCase converts a filename-style string to title case
// e.g., "hello-circle" -> "Hello Circle"
func titleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	// A Caser keeps state, so each call gets its own
	return cases.Title(language.Und).String(strings.Join(strings.Fields(s), " "))
}
