// Package engine wires the generation pipeline: load, validate, assemble,
// render. One Run is a single pass with no feedback loop.
package engine

import (
	"github.com/fireverse/worldengine/internal/assemble"
	"github.com/fireverse/worldengine/internal/config"
	"github.com/fireverse/worldengine/internal/logger"
	"github.com/fireverse/worldengine/internal/render"
	"github.com/fireverse/worldengine/internal/styleguard"
	"github.com/fireverse/worldengine/internal/validate"
	"github.com/fireverse/worldengine/internal/world"
)

// Paths names the data and template sources the engine reads.
type Paths struct {
	Arcs            string
	Tracker         string
	Silhouettes     string
	EpisodeTemplate string
	SceneTemplate   string
	PromptTemplate  string

	// FinaleTemplate is the optional episode variant used by the reveal
	// episode. Empty disables the variant.
	FinaleTemplate string
}

// All returns every path, used by callers that watch the sources.
func (p Paths) All() []string {
	paths := []string{
		p.Arcs, p.Tracker, p.Silhouettes,
		p.EpisodeTemplate, p.SceneTemplate, p.PromptTemplate,
	}
	if p.FinaleTemplate != "" {
		paths = append(paths, p.FinaleTemplate)
	}
	return paths
}

// Result is the outcome of one successful generation run.
type Result struct {
	World  *world.WorldData
	Record *assemble.EpisodeRecord
	Output *render.RenderedOutput
}

// Engine runs the generation pipeline against fixed sources.
type Engine struct {
	paths Paths
	cfg   *config.EngineConfig
}

// New creates an engine over the given sources and configuration.
func New(paths Paths, cfg *config.EngineConfig) *Engine {
	return &Engine{paths: paths, cfg: cfg}
}

// Paths returns the engine's configured sources.
func (e *Engine) Paths() Paths {
	return e.paths
}

// Run executes one full pipeline pass for the requested episode. The first
// failing stage aborts the run; no partial output is produced.
func (e *Engine) Run(arcID string, episodeID int) (*Result, error) {
	w, err := world.Load(e.paths.Arcs, e.paths.Tracker, e.paths.Silhouettes)
	if err != nil {
		return nil, err
	}

	templates, err := render.LoadTemplates(e.paths.EpisodeTemplate, e.paths.SceneTemplate, e.paths.PromptTemplate, e.paths.FinaleTemplate)
	if err != nil {
		return nil, err
	}

	if err := validate.Validate(w, e.cfg.Validation.PoolPolicy); err != nil {
		return nil, err
	}

	// An empty arc id selects the sample episode: the first episode of
	// the first declared arc.
	if arcID == "" {
		if len(w.Arcs) == 0 {
			return nil, &assemble.Error{Kind: assemble.ArcNotFound, ArcID: arcID}
		}
		arcID = w.Arcs[0].ID
	}
	if episodeID == 0 {
		arc, ok := w.Arc(arcID)
		if !ok {
			return nil, &assemble.Error{Kind: assemble.ArcNotFound, ArcID: arcID}
		}
		if len(arc.Episodes) == 0 {
			return nil, &assemble.Error{Kind: assemble.EpisodeNotFound, ArcID: arcID}
		}
		episodeID = arc.Episodes[0].ID
	}

	record, err := assemble.Assemble(w, arcID, episodeID, assemble.Options{
		SilhouetteVisibility: e.cfg.Director.SilhouetteVisibility,
		RecentMainWindow:     e.cfg.Rotation.RecentMainWindow,
	})
	if err != nil {
		return nil, err
	}

	output, err := render.Render(templates, record)
	if err != nil {
		return nil, err
	}

	// The rendered prompt leaves the engine for downstream generation
	// tools; screen it against the descriptor denylist.
	guard := styleguard.New(&e.cfg.Prompt)
	if result := guard.Check(output.Prompt); !result.Allowed {
		logger.Warning("Prompt rejected by style guard", "descriptor", result.Descriptor)
		return nil, &render.Error{
			Kind:        render.PromptStyleViolation,
			Template:    "prompt",
			Placeholder: result.Descriptor,
		}
	}

	logger.Info("Episode package generated", "arc", arcID, "episode", episodeID)

	return &Result{World: w, Record: record, Output: output}, nil
}
