// main.go - Accuracy benchmark over a directory of labeled captcha images.
//
// Each image file is named after its expected answer (e.g. HW7Q2.png).
// Usage:
//
//	OPENROUTER_API_KEY=... go run ./cmd/benchmark -dir testdata/captchas

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bosocmputer/captcha_ocr_ensemble/configs"
	"github.com/bosocmputer/captcha_ocr_ensemble/internal/processor"
	"github.com/bosocmputer/captcha_ocr_ensemble/internal/recognizer"
)

// providerStats accumulates per-model accuracy across the run
type providerStats struct {
	correct int
	wrong   int
	failed  int
	skipped int
}

func main() {
	dir := flag.String("dir", "testdata/captchas", "directory of labeled captcha images (ANSWER.png)")
	flag.Parse()

	configs.LoadConfig()

	rec, err := recognizer.NewFromConfig()
	if err != nil {
		log.Fatalf("Failed to build recognizer: %v", err)
	}

	images, err := collectImages(*dir)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *dir, err)
	}
	if len(images) == 0 {
		log.Fatalf("No .png/.jpg images found in %s", *dir)
	}

	fmt.Printf("Benchmarking %d captchas from %s (fast_mode=%v)\n\n", len(images), *dir, configs.FAST_MODE)

	stats := map[string]*providerStats{}
	correct := 0
	start := time.Now()

	for _, path := range images {
		expected := processor.Normalize(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		result, err := rec.RecognizeFile(context.Background(), path)
		if err != nil {
			fmt.Printf("❌ %-20s error: %v\n", filepath.Base(path), err)
			continue
		}

		got := ""
		if result.FinalText != nil {
			got = *result.FinalText
		}

		mark := "❌"
		if got == expected {
			mark = "✅"
			correct++
		}
		fmt.Printf("%s %-20s expected=%-8s got=%s\n", mark, filepath.Base(path), expected, got)

		for _, d := range result.Details {
			s := stats[d.Provider]
			if s == nil {
				s = &providerStats{}
				stats[d.Provider] = s
			}
			switch {
			case d.Skipped:
				s.skipped++
			case d.Error != "":
				s.failed++
			case d.Text == expected:
				s.correct++
			default:
				s.wrong++
			}
		}
	}

	elapsed := time.Since(start)

	fmt.Printf("\n═══ Results ═══\n")
	fmt.Printf("Accuracy: %d/%d (%.1f%%) in %.1fs\n\n", correct, len(images),
		100*float64(correct)/float64(len(images)), elapsed.Seconds())

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Per-provider breakdown:")
	for _, name := range names {
		s := stats[name]
		fmt.Printf("  %-36s correct=%-3d wrong=%-3d failed=%-3d skipped=%d\n",
			name, s.correct, s.wrong, s.failed, s.skipped)
	}
}

// collectImages returns every png/jpeg under dir, sorted for stable runs
func collectImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}
