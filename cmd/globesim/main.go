// globesim drives the visualization pipeline against synthetic threat data:
// it sweeps the camera from the far bound to the near bound at a fixed frame
// rate, logs mode transitions, and writes the heat-field raster plus
// per-frame diagnostic plots. Useful for eyeballing the cross-fade tuning
// without a globe renderer attached.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/argus-vis/threatglobe/internal/config"
	"github.com/argus-vis/threatglobe/internal/monitor"
	"github.com/argus-vis/threatglobe/internal/threat"
	"github.com/argus-vis/threatglobe/internal/viz"
)

func main() {
	var (
		recordCount  = flag.Int("records", 5000, "number of synthetic threat records")
		seed         = flag.Int64("seed", 42, "synthetic generator seed")
		frames       = flag.Int("frames", 600, "number of simulated frames")
		fps          = flag.Float64("fps", 60, "simulated frame rate")
		fromDistance = flag.Float64("from", 25, "starting camera distance")
		toDistance   = flag.Float64("to", 5, "ending camera distance")
		outputDir    = flag.String("out", "globesim-out", "output directory for raster and plots")
		listenAddr   = flag.String("listen", "", "optional debug HTTP address (e.g. 127.0.0.1:8099)")
		realtime     = flag.Bool("realtime", false, "run at wall-clock frame rate instead of as fast as possible")
		tuningPath   = flag.String("tuning", "", "optional tuning JSON file")
	)
	flag.Parse()

	cfg := viz.DefaultConfig()
	if *tuningPath != "" {
		tuning, err := config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		cfg = config.ManagerConfigFromTuning(tuning)
	}

	gen := threat.NewSyntheticGenerator(*seed)
	records := gen.Generate(*recordCount)

	mgr := viz.NewManager(cfg, nil)
	mgr.SetRecords(records)

	if *listenAddr != "" {
		ws := monitor.NewWebServer(mgr)
		go func() {
			if err := ws.ListenAndServe(*listenAddr); err != nil {
				log.Printf("[GlobeSim] debug server stopped: %v", err)
			}
		}()
	}

	plotter := monitor.NewFramePlotter()
	if err := plotter.Start(*outputDir); err != nil {
		log.Fatalf("failed to start frame plotter: %v", err)
	}

	// Settle one frame at the start distance so the far-view texture exists
	// before the sweep begins.
	start := time.Now()
	snap := mgr.Update(*fromDistance, start)
	if snap.Texture != nil && !snap.Texture.Released() {
		if err := writePNG(filepath.Join(*outputDir, "heatmap.png"), snap); err != nil {
			log.Fatalf("failed to write heatmap: %v", err)
		}
	}

	frameDur := time.Duration(float64(time.Second) / *fps)
	transitions := 0

	for i := 0; i < *frames; i++ {
		t := float64(i) / float64(*frames-1)
		distance := *fromDistance + (*toDistance-*fromDistance)*t

		var now time.Time
		if *realtime {
			time.Sleep(frameDur)
			now = time.Now()
		} else {
			now = start.Add(time.Duration(i+1) * frameDur)
		}

		prevMode := snap.Zoom.Mode
		snap = mgr.Update(distance, now)
		if snap.Zoom.Mode != prevMode {
			transitions++
			log.Printf("[GlobeSim] frame %d: mode %s -> %s at distance %.2f",
				i, prevMode, snap.Zoom.Mode, distance)
		}

		plotter.Sample(snap)
	}

	plotter.Stop()
	n, err := plotter.GeneratePlots()
	if err != nil {
		log.Fatalf("failed to generate plots: %v", err)
	}

	log.Printf("[GlobeSim] done: %d frames, %d mode transition(s), %d cluster(s) at end, %d plot(s) in %s",
		*frames, transitions, len(snap.Clusters), n, *outputDir)

	fmt.Fprintf(os.Stdout, "mode=%s progress=%.2f clusters=%d\n",
		snap.Zoom.Mode, snap.Zoom.Progress, len(snap.Clusters))
}

func writePNG(path string, snap viz.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, snap.Texture.Image)
}
