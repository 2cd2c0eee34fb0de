// Package material writes the skybox material reference that binds the exported
// face images to the texture slots of a six sided skybox shader.
package material

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"skyboxer/cubemap"
)

const (
	FileName = "Skybox.toml"
	Shader   = "Skybox/6 Sided"
)

// Slots maps each face to the shader slot it is bound to.
var Slots = map[cubemap.Face]string{
	cubemap.NegativeX: "_RightTex",
	cubemap.NegativeY: "_DownTex",
	cubemap.NegativeZ: "_BackTex",
	cubemap.PositiveX: "_LeftTex",
	cubemap.PositiveY: "_UpTex",
	cubemap.PositiveZ: "_FrontTex",
}

// namespace for material GUIDs, so the same skybox name always gets the same id
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("skyboxer/material"))

type ImportSettings struct {
	Mipmaps     bool   `toml:"mipmaps"`
	WrapMode    string `toml:"wrap_mode"`
	Compression string `toml:"compression"`
}

type Texture struct {
	Slot string `toml:"slot"`
	Face string `toml:"face"`
	File string `toml:"file"`
}

type Material struct {
	Name     string         `toml:"name"`
	GUID     string         `toml:"guid"`
	Shader   string         `toml:"shader"`
	Import   ImportSettings `toml:"import"`
	Textures []Texture      `toml:"textures"`
}

// New binds the face files of an export. Paths are stored relative to the material.
func New(name string, result *cubemap.ExportResult) (*Material, error) {
	if !result.Complete() {
		return nil, fmt.Errorf("material %q needs all six faces, got %d", name, len(result.Files))
	}
	m := &Material{
		Name:   name,
		GUID:   uuid.NewSHA1(guidNamespace, []byte(name)).String(),
		Shader: Shader,
		Import: ImportSettings{
			Mipmaps:     false,
			WrapMode:    "clamp",
			Compression: "none",
		},
	}
	for _, face := range cubemap.ExportOrder {
		m.Textures = append(m.Textures, Texture{
			Slot: Slots[face],
			Face: face.String(),
			File: filepath.Base(result.Files[face]),
		})
	}
	return m, nil
}

// Texture returns the file bound to a slot.
func (m *Material) Texture(slot string) (string, bool) {
	for _, t := range m.Textures {
		if t.Slot == slot {
			return t.File, true
		}
	}
	return "", false
}

// Write stores the material as dir/Skybox.toml and returns the path.
func (m *Material) Write(dir string) (string, error) {
	buf := bytes.NewBuffer(nil)
	enc := toml.NewEncoder(buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("could not encode material %q: %w", m.Name, err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func Load(path string) (*Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Material{}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("could not parse material %q: %w", path, err)
	}
	return m, nil
}
