// Command fireverse runs one generation pass and prints the rendered
// episode package to standard output.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fireverse/worldengine/internal/config"
	"github.com/fireverse/worldengine/internal/engine"
	"github.com/fireverse/worldengine/internal/logger"
	"github.com/fireverse/worldengine/internal/tracker"
)

func main() {
	arcsFile := flag.String("arcs", "data/arcs.yaml", "Path to arcs YAML file")
	trackerFile := flag.String("tracker", "data/creature_tracker.yaml", "Path to creature tracker YAML file")
	silhouettesFile := flag.String("silhouettes", "data/enemy_silhouettes.yaml", "Path to enemy silhouettes YAML file")
	episodeTemplate := flag.String("episode-template", "data/templates/episode.tmpl", "Path to episode template")
	sceneTemplate := flag.String("scene-template", "data/templates/scene.tmpl", "Path to scene template")
	promptTemplate := flag.String("prompt-template", "data/templates/prompt.tmpl", "Path to prompt template")
	finaleTemplate := flag.String("finale-template", "data/templates/finale.tmpl", "Path to finale episode template (empty disables the variant)")
	engineConfig := flag.String("config", "data/engine.yaml", "Path to engine config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	arcID := flag.String("arc", "", "Arc id to generate (default: first declared arc)")
	episodeID := flag.Int("episode", 0, "Episode id to generate (default: first episode of the arc)")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*engineConfig)
	if err != nil {
		fatal(err)
	}

	eng := engine.New(engine.Paths{
		Arcs:            *arcsFile,
		Tracker:         *trackerFile,
		Silhouettes:     *silhouettesFile,
		EpisodeTemplate: *episodeTemplate,
		SceneTemplate:   *sceneTemplate,
		PromptTemplate:  *promptTemplate,
		FinaleTemplate:  *finaleTemplate,
	}, cfg)

	result, err := eng.Run(*arcID, *episodeID)
	if err != nil {
		fatal(err)
	}

	fmt.Print(result.Output.Package())

	if cfg.Database.Driver != "" {
		if err := recordContinuity(cfg, result); err != nil {
			fatal(err)
		}
	}
}

// recordContinuity persists the generated episode's creature appearances
// and silhouette hint statistics. This is the only write path; the
// generation pipeline itself never mutates anything.
func recordContinuity(cfg *config.EngineConfig, result *engine.Result) error {
	store, err := tracker.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	arcID := result.Record.ArcID
	episodeID := result.Record.EpisodeID

	arc, ok := result.World.Arc(arcID)
	if !ok {
		return fmt.Errorf("arc %q vanished between assembly and recording", arcID)
	}
	episode, ok := arc.Episode(episodeID)
	if !ok {
		return fmt.Errorf("episode %d vanished between assembly and recording", episodeID)
	}

	for _, creature := range episode.MainCreatures {
		if err := store.RecordAppearance(arcID, creature.ID, episodeID); err != nil {
			return err
		}
	}

	if _, teased := result.Record.Field("hint"); teased {
		silhouettes := result.World.SilhouettesFor(arcID)
		if len(silhouettes) > 0 {
			name := silhouettes[0].Identity
			if name == "" {
				name = "unrevealed"
			}
			if err := store.RecordSilhouetteHint(arcID, name, episodeID); err != nil {
				return err
			}
		}
	}

	logger.Info("Continuity recorded", "arc", arcID, "episode", episodeID)
	return nil
}

// fatal reports the error, naming its kind and context, and exits
// non-zero. No partial output reaches stdout once any stage fails.
func fatal(err error) {
	logger.Errorf("generation failed: %v", err)
	fmt.Fprintf(os.Stderr, "fireverse: %v\n", err)
	os.Exit(1)
}
