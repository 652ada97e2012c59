// Package icons maps the stable icon keys stored with catalog tools to
// renderable handles.
//
// Keys are lower-case and hyphenated ("after-effects"). Unknown keys resolve to
// the fallback entry rather than failing.
package icons

import (
	"sort"
	"strings"
	"sync"
)

const FallbackKey = "tool"

// Icon is a renderable handle: a short label for accessibility and the glyph
// class name the front end draws.
type Icon struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Glyph string `json:"glyph"`
}

type Registry struct {
	mutex    sync.RWMutex
	icons    map[string]Icon
	fallback Icon
}

func NewRegistry(fallback Icon) *Registry {
	return &Registry{icons: make(map[string]Icon), fallback: fallback}
}

func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	return key
}

func (r *Registry) Register(icon Icon) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	icon.Key = NormalizeKey(icon.Key)
	r.icons[icon.Key] = icon
}

// Lookup returns the icon registered under key and whether it was found. A miss
// returns the fallback icon.
func (r *Registry) Lookup(key string) (Icon, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if icon, ok := r.icons[NormalizeKey(key)]; ok {
		return icon, true
	}
	return r.fallback, false
}

func (r *Registry) Get(key string) Icon {
	icon, _ := r.Lookup(key)
	return icon
}

func (r *Registry) Keys() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	keys := make([]string, 0, len(r.icons))
	for key := range r.icons {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var defaultIcons = []Icon{
	{Key: "blender", Label: "Blender", Glyph: "si-blender"},
	{Key: "maya", Label: "Autodesk Maya", Glyph: "si-autodeskmaya"},
	{Key: "3ds-max", Label: "3ds Max", Glyph: "si-autodesk"},
	{Key: "houdini", Label: "Houdini", Glyph: "si-houdini"},
	{Key: "cinema-4d", Label: "Cinema 4D", Glyph: "si-cinema4d"},
	{Key: "zbrush", Label: "ZBrush", Glyph: "si-zbrush"},
	{Key: "substance-painter", Label: "Substance Painter", Glyph: "si-adobesubstance3dpainter"},
	{Key: "unreal-engine", Label: "Unreal Engine", Glyph: "si-unrealengine"},
	{Key: "unity", Label: "Unity", Glyph: "si-unity"},
	{Key: "nuke", Label: "Nuke", Glyph: "si-foundry"},
	{Key: "after-effects", Label: "After Effects", Glyph: "si-adobeaftereffects"},
	{Key: "premiere-pro", Label: "Premiere Pro", Glyph: "si-adobepremierepro"},
	{Key: "photoshop", Label: "Photoshop", Glyph: "si-adobephotoshop"},
	{Key: "illustrator", Label: "Illustrator", Glyph: "si-adobeillustrator"},
	{Key: "davinci-resolve", Label: "DaVinci Resolve", Glyph: "si-davinciresolve"},
	{Key: "marvelous-designer", Label: "Marvelous Designer", Glyph: "fa-shirt"},
}

// Default returns a registry preloaded with the tools the portfolio lists.
func Default() *Registry {
	r := NewRegistry(Icon{Key: FallbackKey, Label: "Tool", Glyph: "fa-screwdriver-wrench"})
	for _, icon := range defaultIcons {
		r.Register(icon)
	}
	return r
}
