package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/geometry"
)

// ErrUnknownScene is returned by Lookup for names that are not registered
var ErrUnknownScene = errors.New("scene: unknown scene")

// Options are the knobs shared by the preset constructors. Zero values
// select each preset's defaults.
type Options struct {
	Camera   geometry.CameraConfig // Overrides merged into the preset camera
	Mesh     MeshAssets            // Files for the mesh scene
	GridSize int                   // Spheres per side for the sphere grid
}

// Preset describes a built-in scene
type Preset struct {
	Name        string
	DisplayName string
	Description string
	build       func(Options) (*Scene, error)
}

// Build constructs and finalizes the scene
func (p Preset) Build(opts Options) (*Scene, error) {
	return p.build(opts)
}

var presets = map[string]Preset{
	"default": {
		Name:        "default",
		Description: "Spheres of every material on a checkered ground, including a hollow glass sphere",
		build: func(o Options) (*Scene, error) {
			return NewDefaultScene(o.Camera)
		},
	},
	"cornell": {
		Name:        "cornell",
		Description: "Cornell box with an area light, spheres, a triangle pyramid and fog",
		build: func(o Options) (*Scene, error) {
			return NewCornellScene(o.Camera)
		},
	},
	"spheregrid": {
		Name:        "spheregrid",
		Description: "Grid of metal spheres coloured with an OKLCH palette",
		build: func(o Options) (*Scene, error) {
			size := o.GridSize
			if size == 0 {
				size = 10
			}
			return NewSphereGridScene(size, o.Camera)
		},
	},
	"mesh": {
		Name:        "mesh",
		Description: "glTF/GLB model on a ground plane (built-in icosphere without a model)",
		build: func(o Options) (*Scene, error) {
			return NewMeshScene(o.Mesh, o.Camera)
		},
	},
}

func init() {
	for name, p := range presets {
		p.DisplayName = titleCase(name)
		presets[name] = p
	}
}

// Names returns the registered scene names in alphabetical order
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the preset registered under name
func Lookup(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// titleCase converts a name to title case, e.g. "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
