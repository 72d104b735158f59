// Command previewd serves a live-rendering preview of one episode package.
// Browsers connected to /ws receive a fresh render whenever a data or
// template file changes.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/fireverse/worldengine/internal/config"
	"github.com/fireverse/worldengine/internal/engine"
	"github.com/fireverse/worldengine/internal/logger"
	"github.com/fireverse/worldengine/internal/preview"
)

func main() {
	addr := flag.String("addr", "localhost:8374", "Listen address for the preview server")
	arcsFile := flag.String("arcs", "data/arcs.yaml", "Path to arcs YAML file")
	trackerFile := flag.String("tracker", "data/creature_tracker.yaml", "Path to creature tracker YAML file")
	silhouettesFile := flag.String("silhouettes", "data/enemy_silhouettes.yaml", "Path to enemy silhouettes YAML file")
	episodeTemplate := flag.String("episode-template", "data/templates/episode.tmpl", "Path to episode template")
	sceneTemplate := flag.String("scene-template", "data/templates/scene.tmpl", "Path to scene template")
	promptTemplate := flag.String("prompt-template", "data/templates/prompt.tmpl", "Path to prompt template")
	finaleTemplate := flag.String("finale-template", "data/templates/finale.tmpl", "Path to finale episode template (empty disables the variant)")
	engineConfig := flag.String("config", "data/engine.yaml", "Path to engine config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	arcID := flag.String("arc", "", "Arc id to preview (default: first declared arc)")
	episodeID := flag.Int("episode", 0, "Episode id to preview (default: first episode of the arc)")
	pollInterval := flag.Duration("poll", time.Second, "How often to check source files for changes")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*engineConfig)
	if err != nil {
		log.Fatalf("Failed to load engine config: %v", err)
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

	server := preview.NewServer(eng, *arcID, *episodeID, *pollInterval)
	if err := server.ListenAndServe(*addr); err != nil {
		log.Fatalf("Preview server failed: %v", err)
	}
}
