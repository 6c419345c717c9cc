package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"

	faceredactor "github.com/pixelshield/face-redactor"
	"github.com/pixelshield/face-redactor/internal/config"
	"github.com/pixelshield/face-redactor/internal/utils"
	"github.com/pixelshield/face-redactor/pkg/detection"
	"github.com/pixelshield/face-redactor/pkg/llamacpp"
	"github.com/pixelshield/face-redactor/pkg/ollama"
	"github.com/pixelshield/face-redactor/pkg/processing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := loadConfig()

	var in string
	var workers int
	var debug, checkVision bool

	flag.StringVar(&in, "in", "", "input image path, URL, or directory (jpg/png/webp)")
	flag.StringVar(&cfg.Output.Dir, "out", cfg.Output.Dir, "output directory")
	flag.StringVar(&cfg.Detector.Backend, "backend", cfg.Detector.Backend, "detection backend: pigo, ollama, or llamacpp")
	flag.StringVar(&cfg.Detector.CascadeFile, "cascade", cfg.Detector.CascadeFile, "pigo cascade file path")
	flag.StringVar(&cfg.Detector.Model, "model", cfg.Detector.Model, "vision model name (ollama/llamacpp backends)")
	flag.StringVar(&cfg.Detector.ServerURL, "url", cfg.Detector.ServerURL, "vision model server URL")
	flag.Float64Var(&cfg.Detector.MinConfidence, "minconf", cfg.Detector.MinConfidence, "minimum detection confidence (0-1)")

	flag.IntVar(&cfg.Redact.BlurRadius, "blur", cfg.Redact.BlurRadius, "blur radius in pixels")
	flag.IntVar(&cfg.Redact.FeatherRadius, "feather", cfg.Redact.FeatherRadius, "mask feather radius in pixels")

	flag.StringVar(&cfg.Output.Format, "ext", cfg.Output.Format, "output format: png|jpg|webp (png keeps the feather ramp intact)")
	flag.IntVar(&cfg.Output.Quality, "quality", cfg.Output.Quality, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&cfg.Output.Lossless, "lossless", cfg.Output.Lossless, "WebP lossless mode")

	flag.IntVar(&workers, "workers", 4, "parallel workers for directory input")
	flag.BoolVar(&debug, "debug", false, "also write overlay images showing detections and masks")
	flag.BoolVar(&checkVision, "checkvision", false, "ask the vision backend to describe the first image, then exit")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.jpg|URL|dir [-backend pigo|ollama|llamacpp] [-out outdir] [-blur 15] [-feather 34]", filepath.Base(os.Args[0]))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := utils.EnsureDir(cfg.Output.Dir); err != nil {
		log.Fatal(err)
	}

	detector := buildDetector(cfg)
	redactor := faceredactor.NewWithOptions(detector, faceredactor.Options{
		BlurRadius:    cfg.Redact.BlurRadius,
		FeatherRadius: cfg.Redact.FeatherRadius,
		MinConfidence: cfg.Detector.MinConfidence,
		OutputQuality: cfg.Output.Quality,
		Lossless:      cfg.Output.Lossless,
	})
	processor := processing.NewProcessor()

	inputs := collectInputs(in)
	ctx := context.Background()

	if checkVision {
		vd, ok := detector.(*detection.VisionDetector)
		if !ok {
			log.Fatal("-checkvision requires the ollama or llamacpp backend")
		}
		img, err := redactor.LoadImage(inputs[0])
		if err != nil {
			log.Fatal(err)
		}
		desc, err := vd.CheckVision(ctx, img)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("model sees: %s", desc)
		return
	}

	// Images are independent, so a batch fans out across workers; regions
	// within one image still composite sequentially inside the pipeline
	if workers < 1 || len(inputs) == 1 {
		workers = 1
	}

	var failed atomic.Int64
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := processOne(ctx, redactor, processor, cfg, path, debug); err != nil {
					log.Printf("%s: %v", path, err)
					failed.Add(1)
				}
			}
		}()
	}
	for _, path := range inputs {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	if n := failed.Load(); n > 0 {
		log.Fatalf("%d of %d images failed", n, len(inputs))
	}
}

// loadConfig builds the effective configuration: defaults, then an
// optional JSON config file, then environment overrides. Flags are bound
// on top of the result.
func loadConfig() *config.Config {
	cfg := config.Default()

	path := os.Getenv("FACE_REDACTOR_CONFIG")
	if path == "" {
		path = config.GetConfigPath()
	}
	if utils.FileExists(path) {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			log.Fatalf("failed to load config %s: %v", path, err)
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	return cfg
}

func buildDetector(cfg *config.Config) detection.Detector {
	switch cfg.Detector.Backend {
	case "pigo":
		detector, err := detection.NewPigoDetector(detection.PigoConfig{
			CascadeFile: cfg.Detector.CascadeFile,
		})
		if err != nil {
			log.Fatalf("failed to create pigo detector: %v", err)
		}
		return detector
	case "ollama":
		url := cfg.Detector.ServerURL
		if url == "" {
			url = "http://localhost:11434"
		}
		client, err := ollama.NewClient(url)
		if err != nil {
			log.Fatalf("failed to create ollama client: %v", err)
		}
		return detection.NewVisionDetector(client, detection.DefaultVisionConfig(cfg.Detector.Model))
	case "llamacpp":
		client, err := llamacpp.NewClient(cfg.Detector.ServerURL)
		if err != nil {
			log.Fatalf("failed to create llama.cpp client: %v", err)
		}
		return detection.NewVisionDetector(client, detection.DefaultVisionConfig(cfg.Detector.Model))
	default:
		log.Fatalf("unknown backend: %s (use pigo, ollama, or llamacpp)", cfg.Detector.Backend)
		return nil
	}
}

// collectInputs expands a directory input into its image files; single
// files and URLs pass through
func collectInputs(in string) []string {
	if utils.DirExists(in) {
		files, err := utils.ListImageFiles(in)
		if err != nil {
			log.Fatalf("failed to list %s: %v", in, err)
		}
		if len(files) == 0 {
			log.Fatalf("no image files found in %s", in)
		}
		return files
	}
	return []string{in}
}

func processOne(ctx context.Context, redactor *faceredactor.Redactor, processor *processing.Processor, cfg *config.Config, path string, debug bool) error {
	img, err := redactor.LoadImage(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	out, regions, err := redactor.RedactImage(ctx, img)
	if err != nil {
		return err
	}

	outPath := utils.GenerateOutputFilename(path, cfg.Output.Dir, cfg.Output.Suffix, strings.ToLower(cfg.Output.Format))
	if err := processor.SaveImage(out, outPath, cfg.Output.Format, cfg.Output.Quality, cfg.Output.Lossless); err != nil {
		return fmt.Errorf("failed to save %s: %w", outPath, err)
	}

	if info, err := os.Stat(outPath); err == nil {
		log.Printf("wrote %s (%s, %d faces)", outPath, utils.FormatFileSize(info.Size()), len(regions))
	} else {
		log.Printf("wrote %s (%d faces)", outPath, len(regions))
	}

	if debug {
		overlay := processor.CreateDebugOverlay(img, regions)
		dbgPath := utils.GenerateOutputFilename(path, cfg.Output.Dir, cfg.Output.Suffix+"_debug", "png")
		if err := processor.SaveImage(overlay, dbgPath, "png", cfg.Output.Quality, false); err != nil {
			log.Printf("debug overlay save failed: %v", err)
		} else {
			log.Printf("wrote %s", dbgPath)
		}
	}

	return nil
}
