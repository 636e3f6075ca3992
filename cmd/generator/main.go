// Command generator writes the markers registry of a module.
//
// It is meant to be run by go generate, from a file declaring a struct embedding
// ioc.EmptyRegistry:
//
//	//go:generate go run github.com/a-peyrard/ioc/cmd/generator
//	type Registry struct {
//		ioc.EmptyRegistry
//	}
//
// Every method of the module whose doc comment contains @inject is registered as an inject
// method, and methods hiding one of them without the annotation are registered as plain
// declarations. The result goes to <file>_gen.go, next to the triggering file.
package main

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"
)

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "."
}

func loadPackages(logger *zerolog.Logger) ([]sourcePackage, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, err
	}

	var result []sourcePackage
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			logger.Warn().Str("package", pkg.ID).Msg(pkgErr.Error())
		}
		source := sourcePackage{ImportPath: pkg.PkgPath}
		for _, file := range pkg.Syntax {
			source.Files = append(source.Files, sourceFile{
				Path: pkg.Fset.Position(file.Pos()).Filename,
				AST:  file,
			})
		}
		sort.Slice(source.Files, func(i, j int) bool { return source.Files[i].Path < source.Files[j].Path })
		result = append(result, source)
	}
	return result, nil
}

func main() {
	dryRun := os.Getenv("DRY_RUN") == "true"

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()

	startScan := time.Now()

	// capture the target file/package, where the generator is invoked
	targetFile := os.Getenv("GOFILE")
	targetPackage := os.Getenv("GOPACKAGE")
	currentDir, _ := os.Getwd()
	targetFilePath := filepath.Join(currentDir, targetFile)

	// switch to the root of the module as we want to scan the whole module
	if err := os.Chdir(findModuleRoot()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to change directory to module root")
	}

	pkgs, err := loadPackages(&logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load packages")
	}

	code, err := generate(&logger, pkgs, targetFilePath)
	if errors.Is(err, errNoRegistry) {
		logger.Fatal().Msgf("No Registry struct found in the target package: %s, make sure you have a struct like this:\ntype Registry struct {\n    ioc.EmptyRegistry\n}", targetPackage)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to generate code")
	}
	logger.Info().Msgf("🕵️‍♂️ Scanning completed in %s", time.Since(startScan))

	outputPath := filepath.Join(
		filepath.Dir(targetFilePath),
		strings.TrimSuffix(filepath.Base(targetFilePath), ".go")+"_gen.go",
	)
	if dryRun {
		outputPath = filepath.Join(os.TempDir(), filepath.Base(outputPath))
	}

	if err = os.WriteFile(outputPath, code, 0o644); err != nil {
		logger.Fatal().Err(err).Msgf("Failed to write code in %s", outputPath)
	}
	logger.Info().Msgf("✅ Code generated successfully in %s", outputPath)
}
