package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jakecoffman/cp"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a tile map stored as JSON. Row 0 of every layer is the top row;
// world coordinates are Y up with one unit per tile.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`

	// player spawn in tile coordinates
	SpawnX int `json:"spawn_x,omitempty"`
	SpawnY int `json:"spawn_y,omitempty"`
}

type LayerMeta struct {
	Physics  bool `json:"physics"`
	Category uint `json:"category,omitempty"`
}

// Solid is a merged run of physics tiles in world units.
type Solid struct {
	BB       cp.BB
	Category uint
}

// Load reads a level by name, preferring a copy on disk under levels/ over
// the embedded one. The .json extension is optional.
func Load(name string) (*Level, error) {
	clean := cleanLevelPath(name)
	if clean == "" {
		return nil, fmt.Errorf("levels: empty level name")
	}
	data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean)))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
	}
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", clean, err)
	}
	return Parse(data)
}

// Parse decodes and validates level JSON.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal level: %w", err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("levels: invalid level dimensions: %dx%d", lvl.Width, lvl.Height)
	}
	for i, layer := range lvl.Layers {
		if len(layer) != lvl.Width*lvl.Height {
			return nil, fmt.Errorf("levels: layer %d has %d tiles, want %d", i, len(layer), lvl.Width*lvl.Height)
		}
	}
	return &lvl, nil
}

func cleanLevelPath(name string) string {
	s := filepath.ToSlash(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}

// Spawn returns the world position of the bottom centre of the spawn tile.
func (l *Level) Spawn() cp.Vector {
	if l == nil {
		return cp.Vector{}
	}
	return cp.Vector{
		X: float64(l.SpawnX) + 0.5,
		Y: float64(l.Height - l.SpawnY - 1),
	}
}

func (l *Level) meta(idx int) LayerMeta {
	if idx < len(l.LayerMeta) {
		return l.LayerMeta[idx]
	}
	// layers without metadata are solid, like the first layer of an old map
	return LayerMeta{Physics: true}
}

// SolidRects merges contiguous non-zero tiles of every physics layer into as
// few rectangles as possible.
func (l *Level) SolidRects() []Solid {
	if l == nil {
		return nil
	}
	var out []Solid
	for layerIdx, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			continue
		}
		meta := l.meta(layerIdx)
		if !meta.Physics {
			continue
		}
		category := meta.Category
		if category == 0 {
			category = 1
		}

		processed := make([]bool, l.Width*l.Height)
		for y := 0; y < l.Height; y++ {
			for x := 0; x < l.Width; x++ {
				idx := y*l.Width + x
				if processed[idx] {
					continue
				}
				if layer[idx] == 0 {
					processed[idx] = true
					continue
				}

				// Greedily expand a rectangle to the right, then downward.
				w := 1
				for x+w < l.Width {
					idx2 := y*l.Width + (x + w)
					if processed[idx2] || layer[idx2] == 0 {
						break
					}
					w++
				}

				h := 1
			heightLoop:
				for y+h < l.Height {
					for xi := x; xi < x+w; xi++ {
						idx2 := (y+h)*l.Width + xi
						if processed[idx2] || layer[idx2] == 0 {
							break heightLoop
						}
					}
					h++
				}

				for yy := y; yy < y+h; yy++ {
					for xx := x; xx < x+w; xx++ {
						processed[yy*l.Width+xx] = true
					}
				}

				out = append(out, Solid{
					BB: cp.BB{
						L: float64(x),
						B: float64(l.Height - (y + h)),
						R: float64(x + w),
						T: float64(l.Height - y),
					},
					Category: category,
				})
			}
		}
	}
	return out
}
