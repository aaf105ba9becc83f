package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/annel0/mine-game/internal/game/catalog"
	"github.com/annel0/mine-game/internal/game/rock"
	"github.com/annel0/mine-game/internal/util"
	"github.com/annel0/mine-game/internal/world/cave"
)

func main() {
	var (
		command    = flag.String("cmd", "generate", "Command: generate, verify")
		seed       = flag.Int64("seed", 0, "Seed (0 - from current time)")
		fill       = flag.Float64("fill", 0, "Wall fill probability (0 - default)")
		iterations = flag.Int("iterations", 0, "Smoothing iterations (0 - default)")
		mode       = flag.String("mode", "", "Fill mode: random, noise, ellipse")
		count      = flag.Int("count", 100, "Number of caves for verify")
		asJSON     = flag.Bool("json", false, "Print snapshot as JSON")
	)
	flag.Parse()

	cfg := cave.DefaultConfig()
	if *fill > 0 {
		cfg.WallFillProbability = *fill
	}
	if *iterations > 0 {
		cfg.SmoothingIterations = *iterations
	}
	if *mode != "" {
		cfg.FillMode = cave.FillMode(*mode)
	}

	gen, err := cave.NewGenerator(cfg)
	if err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	switch *command {
	case "generate":
		if err := generate(gen, *seed, *asJSON); err != nil {
			log.Fatalf("❌ Generate failed: %v", err)
		}
	case "verify":
		if err := verify(gen, *seed, *count); err != nil {
			log.Fatalf("❌ Verify failed: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(2)
	}
}

func generate(gen *cave.Generator, seed int64, asJSON bool) error {
	layout, rejected, err := gen.GenerateWithReport(util.NewSource(seed))
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(layout.Snapshot())
	}

	rocks := catalog.MustNew(catalog.Options{}).Rocks
	fmt.Println(layout.RenderWith(func(id rock.ID) rune {
		if spec, ok := rocks.Get(id); ok && spec.Glyph != 0 {
			return spec.Glyph
		}
		return '*'
	}))
	fmt.Printf("🌱 seed=%d floor=%d rocks=%d/%d rejected=%d\n",
		layout.Seed(), layout.FloorCount(), layout.RockCount(), layout.MaxRocks(), len(rejected))
	fmt.Printf("🧍 player=%v 🚪 exit=%v\n", layout.Player(), layout.Exit())
	return nil
}

// verify генерирует count пещер подряд и проверяет свойства каждой
func verify(gen *cave.Generator, seed int64, count int) error {
	cfg := gen.Config()
	src := util.NewSource(seed)
	reasons := make(map[string]int)
	failures := 0

	for i := 0; i < count; i++ {
		layout, rejected, err := gen.GenerateWithReport(src)
		for _, a := range rejected {
			reasons[a.Reason]++
		}
		if err != nil {
			failures++
			continue
		}

		if !layout.Connected() {
			return fmt.Errorf("cave %d (seed %d): floor is not connected", i, layout.Seed())
		}
		if layout.FloorCount() < cfg.MinFloorCells {
			return fmt.Errorf("cave %d (seed %d): %d floor cells < %d", i, layout.Seed(), layout.FloorCount(), cfg.MinFloorCells)
		}
		if layout.RockCount() > layout.MaxRocks() {
			return fmt.Errorf("cave %d (seed %d): %d rocks > cap %d", i, layout.Seed(), layout.RockCount(), layout.MaxRocks())
		}
		if !layout.Reachable(layout.Player(), layout.Exit()) {
			return fmt.Errorf("cave %d (seed %d): exit is unreachable", i, layout.Seed())
		}
	}

	fmt.Printf("✅ %d/%d caves generated, %d exhausted\n", count-failures, count, failures)
	if len(reasons) > 0 {
		keys := make([]string, 0, len(reasons))
		for k := range reasons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("Rejected attempts:")
		for _, k := range keys {
			fmt.Printf("  %-40s %d\n", k, reasons[k])
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d caves exhausted all attempts", failures)
	}
	return nil
}
