package main

import (
	"log"

	"github.com/jonboulle/clockwork"

	"github.com/m3rciful/pdfbot/core/bootstrap"
	corecmd "github.com/m3rciful/pdfbot/core/cmd"
	coreconfig "github.com/m3rciful/pdfbot/core/config"
	"github.com/m3rciful/pdfbot/internal/bot"
	"github.com/m3rciful/pdfbot/internal/pdfgen"
	"github.com/m3rciful/pdfbot/internal/render"
	"github.com/m3rciful/pdfbot/internal/session"
	"github.com/m3rciful/pdfbot/internal/storage"
)

type appConfig struct {
	core *coreconfig.Config
}

func (c *appConfig) CoreConfig() *coreconfig.Config { return c.core }

func qualityMap(levels map[string]int) map[pdfgen.Quality]int {
	if len(levels) == 0 {
		return nil
	}
	out := make(map[pdfgen.Quality]int, len(levels))
	for level, v := range levels {
		out[pdfgen.Quality(level)] = v
	}
	return out
}

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return &appConfig{core: cfg}, nil
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := carrier.CoreConfig()
			res, err := bootstrap.Run(bootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			ws, err := storage.New(res.WorkDir)
			if err != nil {
				return nil, err
			}
			clock := clockwork.NewRealClock()
			store := session.NewMemoryStore(clock)
			gen := pdfgen.NewGeneratorWithOptions(pdfgen.Options{
				JPEGQuality:  qualityMap(cfg.Render.JPEGQuality),
				MaxDimension: qualityMap(cfg.Render.MaxDimension),
			})
			orch := render.New(gen)
			return bot.New(cfg, store, ws, orch, clock)
		},
	})
	if err != nil {
		log.Fatalf("pdfbot: %v", err)
	}
}
