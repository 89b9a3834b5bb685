package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/wordsearch-mcp/internal/annotate"
	"github.com/ironsheep/wordsearch-mcp/internal/config"
	"github.com/ironsheep/wordsearch-mcp/internal/imaging"
	"github.com/ironsheep/wordsearch-mcp/internal/logging"
	"github.com/ironsheep/wordsearch-mcp/internal/ocr"
	"github.com/ironsheep/wordsearch-mcp/internal/pipeline"
	"github.com/ironsheep/wordsearch-mcp/internal/server"
	"github.com/ironsheep/wordsearch-mcp/internal/wordsearch"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("wordsearch-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	config.LoadDotEnv(".env")
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wordsearch-mcp: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewLogger("wordsearch-mcp", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tess := ocr.NewTesseract(cfg.TessdataPrefix)
	classifier, closeCache := newClassifier(ctx, cfg, tess, logger)
	defer closeCache()

	dict, dictErr := wordsearch.LoadDictionary(cfg.DictionaryPath)
	if dictErr != nil {
		logger.Warn("dictionary unavailable, solving disabled", "path", cfg.DictionaryPath, "error", dictErr)
	} else {
		logger.Debug("dictionary loaded", "path", cfg.DictionaryPath, "words", dict.Len())
	}

	if len(os.Args) > 1 && os.Args[1] == "solve" {
		if dictErr != nil {
			fmt.Fprintf(os.Stderr, "wordsearch-mcp: %v\n", dictErr)
			os.Exit(1)
		}
		if err := runSolve(ctx, os.Args[2:], cfg, classifier, dict, logger); err != nil {
			fmt.Fprintf(os.Stderr, "wordsearch-mcp: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("starting MCP server",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit)

	opts := server.Options{
		Config:     cfg,
		Classifier: classifier,
		OCRInfo:    tess.Info,
		Log:        logger,
		Version:    Version,
	}
	// A nil WordSet in the interface would look like a loaded dictionary.
	if dictErr != nil {
		opts.DictionaryErr = dictErr
	} else {
		opts.Dictionary = dict
	}

	srv := server.New(opts)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// newClassifier puts a result cache in front of Tesseract: Redis when
// configured and reachable, otherwise process memory.
func newClassifier(ctx context.Context, cfg *config.Config, tess *ocr.Tesseract, logger *logging.Logger) (ocr.Classifier, func()) {
	if cfg.RedisURL != "" {
		store, err := ocr.NewRedisStore(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err == nil {
			logger.Info("glyph cache: redis", "ttl", cfg.CacheTTL)
			return ocr.NewCachedClassifier(tess, store, logger), func() { store.Close() }
		}
		logger.Warn("redis unavailable, caching glyphs in memory", "error", err)
	}
	return ocr.NewCachedClassifier(tess, ocr.NewMemoryStore(), logger), func() {}
}

// runSolve reads one photo and prints the letter grid followed by every word
// found. "--annotate out.png" also writes the word overlay.
func runSolve(ctx context.Context, args []string, cfg *config.Config, c ocr.Classifier, dict wordsearch.Dictionary, logger *logging.Logger) error {
	var path, annotatePath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--annotate":
			if i+1 >= len(args) {
				return fmt.Errorf("--annotate needs an output path")
			}
			i++
			annotatePath = args[i]
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument %q", args[i])
			}
			path = args[i]
		}
	}
	if path == "" {
		return fmt.Errorf("usage: wordsearch-mcp solve <image> [--annotate out.png]")
	}

	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return err
	}
	run := pipeline.NewRun(img, pipeline.OptionsFromConfig(cfg), logger.With("path", path))

	grid, err := run.Grid(ctx, c)
	if err != nil {
		return err
	}
	occs, err := run.Solve(ctx, c, dict)
	if err != nil {
		return err
	}

	fmt.Println(grid)
	fmt.Println()
	for _, o := range occs {
		fmt.Printf("%-20s (%d,%d) %s\n", o.Word, o.Start.X, o.Start.Y, o.Direction.Name)
	}
	fmt.Printf("\n%d words, %d unreadable cells\n", len(occs), grid.Missing())

	if annotatePath != "" {
		geom, _ := run.Geometry()
		if err := annotate.Save(annotatePath, annotate.Words(img, geom, occs, annotate.Style{})); err != nil {
			return err
		}
		fmt.Printf("annotated: %s\n", annotatePath)
	}
	return nil
}

func printHelp() {
	fmt.Println("wordsearch-mcp - MCP server that solves word-search puzzle photos")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  wordsearch-mcp                                 Serve MCP over stdin/stdout")
	fmt.Println("  wordsearch-mcp solve <image> [--annotate out]  Solve one photo and print the words")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  WORDSEARCH_LOG_LEVEL=debug          Log level (stderr)")
	fmt.Println("  WORDSEARCH_DARK_LEVEL=384           Ink threshold on R+G+B")
	fmt.Println("  WORDSEARCH_MIN_BLOB_PIXELS=0        Drop smaller blobs")
	fmt.Println("  WORDSEARCH_WAVELENGTH_STEP=0.1      Lattice spacing resolution")
	fmt.Println("  WORDSEARCH_GLYPH_MARGIN=3           White border around glyphs")
	fmt.Println("  WORDSEARCH_BATCH_ROWS=false         One OCR call per row")
	fmt.Println("  WORDSEARCH_OCR_WORKERS=<cpus>       Concurrent OCR calls")
	fmt.Println("  WORDSEARCH_OCR_LANGUAGE=eng         Tesseract language")
	fmt.Println("  WORDSEARCH_TESSDATA_PREFIX=         Tesseract data directory")
	fmt.Println("  WORDSEARCH_MIN_WORD_LENGTH=2        Shortest word reported")
	fmt.Println("  WORDSEARCH_DICTIONARY=/usr/share/dict/words")
	fmt.Println("  WORDSEARCH_REDIS_URL=               Optional glyph result cache")
	fmt.Println("  WORDSEARCH_CACHE_TTL_SECONDS=86400")
}
