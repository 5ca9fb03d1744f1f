package extract

import (
	"fmt"

	"smcextract/internal/config"
	"smcextract/internal/smc"
)

// Selection is the run's resolved answer to "what should be extracted":
// the modality set plus the camera selector, including per-performance
// overrides. Camera requests are intersected with what each container
// truly holds at extraction time.
type Selection struct {
	modalities []smc.Modality
	cameras    []string
	all        bool
	overrides  map[string]cameraChoice
}

type cameraChoice struct {
	ids []string
	all bool
}

// NewSelection resolves the configured selection once for a run.
func NewSelection(cfg *config.Config) (*Selection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	sel := &Selection{overrides: make(map[string]cameraChoice)}
	for _, name := range cfg.Selection.Modalities {
		m, ok := smc.ParseModality(name)
		if !ok {
			return nil, fmt.Errorf("unknown modality %q", name)
		}
		sel.modalities = append(sel.modalities, m)
	}
	if len(sel.modalities) == 0 {
		return nil, fmt.Errorf("no modalities selected")
	}

	sel.cameras, sel.all = resolveCameras(cfg.Selection.Cameras)
	for performance, cameras := range cfg.Selection.CameraOverrides {
		ids, all := resolveCameras(cameras)
		sel.overrides[performance] = cameraChoice{ids: ids, all: all}
	}
	return sel, nil
}

func resolveCameras(cameras []string) ([]string, bool) {
	if len(cameras) == 0 {
		return nil, true
	}
	for _, camera := range cameras {
		if camera == config.CameraAll {
			return nil, true
		}
	}
	return append([]string(nil), cameras...), false
}

// Modalities returns the selected modality set in configuration order.
func (s *Selection) Modalities() []smc.Modality {
	return s.modalities
}

// Includes reports whether the modality was selected.
func (s *Selection) Includes(m smc.Modality) bool {
	for _, selected := range s.modalities {
		if selected == m {
			return true
		}
	}
	return false
}

// CamerasFor returns the camera request applying to a performance: the
// override when one exists, the run-wide selector otherwise. A true second
// return means "every camera the container holds".
func (s *Selection) CamerasFor(performance string) ([]string, bool) {
	if choice, ok := s.overrides[performance]; ok {
		return choice.ids, choice.all
	}
	return s.cameras, s.all
}

// EffectiveCameras intersects a camera request with the cameras actually
// present. It returns the cameras to extract in available order, plus the
// requested ids the container does not hold.
func EffectiveCameras(requested []string, all bool, available []string) (effective, missing []string) {
	if all {
		return append([]string(nil), available...), nil
	}
	wanted := make(map[string]struct{}, len(requested))
	for _, id := range requested {
		wanted[id] = struct{}{}
	}
	for _, id := range available {
		if _, ok := wanted[id]; ok {
			effective = append(effective, id)
			delete(wanted, id)
		}
	}
	for _, id := range requested {
		if _, ok := wanted[id]; ok {
			missing = append(missing, id)
		}
	}
	return effective, missing
}
